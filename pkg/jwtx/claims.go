package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/woavlite/woav/pkg/cryptox"
)

// Sign-in providers recorded in the sign_in_provider claim.
const (
	ProviderPassword = "password"
)

// Claims are shared by ID tokens and session cookies. The two are told apart
// by issuer: session cookies carry "<issuer>/session".
type Claims struct {
	jwt.RegisteredClaims

	// AuthTime is when the user last signed in interactively. Session
	// cookies copy it from the ID token they were minted from.
	AuthTime *jwt.NumericDate `json:"auth_time,omitempty"`

	Email          string `json:"email,omitempty"`
	Name           string `json:"name,omitempty"`
	SignInProvider string `json:"sign_in_provider,omitempty"`
}

// NewClaims fills the registered claims for a token issued at now.
func NewClaims(issuer, audience, subject string, authTime time.Time, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		AuthTime: jwt.NewNumericDate(authTime),
	}
}

// NewJTI returns a random URL-safe value for the jti claim.
func NewJTI() string {
	return cryptox.MustGenerateToken(cryptox.TokenSize128)
}

// AuthTimeValue returns auth_time, or the zero time when it is absent.
func (c *Claims) AuthTimeValue() time.Time {
	if c.AuthTime == nil {
		return time.Time{}
	}
	return c.AuthTime.Time
}

// IssuedAtValue returns iat, or the zero time when it is absent.
func (c *Claims) IssuedAtValue() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtValue returns exp, or the zero time when it is absent.
func (c *Claims) ExpiresAtValue() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
