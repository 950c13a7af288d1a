package domain

import "time"

// Identity is what a verified session cookie says about its holder. It is
// rebuilt on every verification and never cached.
type Identity struct {
	UID       string
	Email     string
	Name      string
	AuthTime  time.Time
	IssuedAt  time.Time
	ExpiresAt time.Time
}
