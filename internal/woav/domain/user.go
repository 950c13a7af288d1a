package domain

import "time"

// User is an account hosted by the identity provider.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string // argon2id PHC string
	Disabled     bool

	// TokensValidAfter invalidates every credential whose auth_time falls
	// before it. Stored at second precision, the same as JWT time claims.
	TokensValidAfter time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Revokes reports whether a credential authenticated at authTime has been
// revoked for this user.
func (u User) Revokes(authTime time.Time) bool {
	return authTime.Unix() < u.TokensValidAfter.Unix()
}
