package store

import (
	"context"

	"github.com/woavlite/woav/internal/woav/domain"
	"github.com/woavlite/woav/pkg/jwtx"
)

// KeyStoreAdapter lets jwtx load and persist keys through a Store without
// importing the domain package.
type KeyStoreAdapter struct {
	store Store
}

// NewKeyStoreAdapter wraps s as a jwtx.KeyStore.
func NewKeyStoreAdapter(s Store) *KeyStoreAdapter {
	return &KeyStoreAdapter{store: s}
}

func (a *KeyStoreAdapter) ListAllSigningKeys(ctx context.Context) ([]jwtx.SigningKeyRecord, error) {
	keys, err := a.store.SigningKeys().ListAllSigningKeys(ctx)
	if err != nil {
		return nil, err
	}

	recs := make([]jwtx.SigningKeyRecord, len(keys))
	for i, k := range keys {
		recs[i] = ToKeyRecord(k)
	}
	return recs, nil
}

func (a *KeyStoreAdapter) CreateSigningKey(ctx context.Context, rec jwtx.SigningKeyRecord) error {
	return a.store.SigningKeys().CreateSigningKey(ctx, FromKeyRecord(rec))
}

// ToKeyRecord converts a stored key to its jwtx form.
func ToKeyRecord(k domain.SigningKey) jwtx.SigningKeyRecord {
	return jwtx.SigningKeyRecord{
		ID:               k.ID,
		Kid:              k.Kid,
		Algorithm:        k.Algorithm,
		PrivateKeySealed: k.PrivateKeySealed,
		CreatedAt:        k.CreatedAt,
		RetiredAt:        k.RetiredAt,
		ExpiresAt:        k.ExpiresAt,
	}
}

// FromKeyRecord converts a jwtx record to the stored form.
func FromKeyRecord(r jwtx.SigningKeyRecord) domain.SigningKey {
	return domain.SigningKey{
		ID:               r.ID,
		Kid:              r.Kid,
		Algorithm:        r.Algorithm,
		PrivateKeySealed: r.PrivateKeySealed,
		CreatedAt:        r.CreatedAt,
		RetiredAt:        r.RetiredAt,
		ExpiresAt:        r.ExpiresAt,
	}
}
