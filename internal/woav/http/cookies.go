package http

import (
	"net/http"

	"github.com/woavlite/woav/internal/woav/service"
	"github.com/woavlite/woav/pkg/httpx"
)

// requestCookies is the session cookie of one request/response pair.
type requestCookies struct {
	w       http.ResponseWriter
	r       *http.Request
	opts    httpx.CookieOptions
	cleared bool
}

// RequestCookies binds a CookieStore to the request's __session cookie.
// Clearing it writes an expiring Set-Cookie to w.
func RequestCookies(w http.ResponseWriter, r *http.Request, opts httpx.CookieOptions) service.CookieStore {
	return &requestCookies{w: w, r: r, opts: opts}
}

func (c *requestCookies) Value() string {
	if c.cleared {
		return ""
	}
	return httpx.SessionCookieValue(c.r)
}

func (c *requestCookies) Clear() {
	if c.cleared {
		return
	}
	httpx.ClearSessionCookie(c.w, c.opts)
	c.cleared = true
}
