package httpx

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie that carries the session credential.
const SessionCookieName = "__session"

// CookieOptions are the attributes shared by setting and clearing the session
// cookie. Both must match or browsers keep the old cookie.
type CookieOptions struct {
	Secure bool
	Domain string
}

func (o CookieOptions) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   o.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetSessionCookie stores value for maxAge.
func SetSessionCookie(w http.ResponseWriter, value string, maxAge time.Duration, o CookieOptions) {
	http.SetCookie(w, o.cookie(value, int(maxAge/time.Second)))
}

// ClearSessionCookie tells the browser to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter, o CookieOptions) {
	http.SetCookie(w, o.cookie("", -1))
}

// SessionCookieValue returns the session cookie value, or "" when absent.
func SessionCookieValue(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
