package domain

import "time"

// SigningKey is a stored provider signing key. Retired keys no longer sign
// but verify until ExpiresAt.
type SigningKey struct {
	ID               string
	Kid              string
	Algorithm        string // EdDSA or ES256
	PrivateKeySealed []byte // AES-256-GCM under the master key
	CreatedAt        time.Time
	RetiredAt        *time.Time // nil while active
	ExpiresAt        *time.Time // set on retirement
}

// IsActive reports whether the key may sign.
func (k SigningKey) IsActive() bool { return k.RetiredAt == nil }

// IsExpired reports whether the key has outlived its grace period.
func (k SigningKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt != nil && !now.Before(*k.ExpiresAt)
}
