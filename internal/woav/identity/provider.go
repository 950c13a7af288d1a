// Package identity is the identity provider the session service trusts. It
// verifies ID tokens, mints and verifies session cookies, and revokes every
// session of a user. LocalProvider implements it in-process on top of the
// provider database and the jwtx signing keys.
package identity

import (
	"context"
	"errors"
	"time"
)

const (
	// IDTokenTTL is the lifetime of an ID token from sign-in.
	IDTokenTTL = time.Hour

	// Session cookie durations accepted by SessionCookie.
	MinSessionDuration = 5 * time.Minute
	MaxSessionDuration = 14 * 24 * time.Hour

	// sessionIssuerSuffix is appended to the issuer for session cookies so an
	// ID token can never be replayed as a cookie, or the other way round.
	sessionIssuerSuffix = "/session"
)

var (
	ErrIDTokenInvalid         = errors.New("identity: invalid ID token")
	ErrIDTokenExpired         = errors.New("identity: ID token expired")
	ErrIDTokenRevoked         = errors.New("identity: ID token revoked")
	ErrSessionCookieInvalid   = errors.New("identity: invalid session cookie")
	ErrSessionCookieExpired   = errors.New("identity: session cookie expired")
	ErrSessionCookieRevoked   = errors.New("identity: session cookie revoked")
	ErrUserDisabled           = errors.New("identity: user disabled")
	ErrUserNotFound           = errors.New("identity: user not found")
	ErrInvalidSessionDuration = errors.New("identity: session duration must be between 5 minutes and 14 days")

	ErrEmailExists     = errors.New("identity: email already registered")
	ErrInvalidPassword = errors.New("identity: invalid email or password")
	ErrWeakPassword    = errors.New("identity: password too weak")
)

// Token is a verified ID token or session cookie.
type Token struct {
	UID            string
	Email          string
	Name           string
	SignInProvider string

	// ID is the jti claim.
	ID string

	AuthTime  time.Time
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Provider is the identity platform contract the session service depends on.
type Provider interface {
	// VerifyIDToken checks an ID token's signature, issuer, audience and
	// expiry.
	VerifyIDToken(ctx context.Context, idToken string) (*Token, error)

	// SessionCookie exchanges a valid ID token for a session cookie lasting
	// expiresIn.
	SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)

	// VerifySessionCookie checks a session cookie. With checkRevoked it also
	// consults the user record, so revoked sessions and disabled or deleted
	// users are rejected.
	VerifySessionCookie(ctx context.Context, cookie string, checkRevoked bool) (*Token, error)

	// RevokeRefreshTokens invalidates every session the user holds.
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Rejected reports whether err is a definite rejection of a credential, as
// opposed to the provider failing to answer.
func Rejected(err error) bool {
	for _, target := range []error{
		ErrIDTokenInvalid, ErrIDTokenExpired, ErrIDTokenRevoked,
		ErrSessionCookieInvalid, ErrSessionCookieExpired, ErrSessionCookieRevoked,
		ErrUserDisabled, ErrUserNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
