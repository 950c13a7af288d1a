package jwtx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/woavlite/woav/pkg/cryptox"
	"github.com/woavlite/woav/pkg/idx"
)

// SigningKeyRecord is a stored signing key. The private key is sealed with the
// master key.
type SigningKeyRecord struct {
	ID               string
	Kid              string
	Algorithm        string
	PrivateKeySealed []byte
	CreatedAt        time.Time
	RetiredAt        *time.Time
	ExpiresAt        *time.Time
}

// Active reports whether the key may still sign.
func (r SigningKeyRecord) Active() bool { return r.RetiredAt == nil }

// Expired reports whether the key is past its verification grace period.
func (r SigningKeyRecord) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}

// KeyStore is the persistence a KeyManager needs.
type KeyStore interface {
	ListAllSigningKeys(ctx context.Context) ([]SigningKeyRecord, error)
	CreateSigningKey(ctx context.Context, key SigningKeyRecord) error
}

// PersistentKeyManagerOptions configures NewPersistentKeyManager.
type PersistentKeyManagerOptions struct {
	Store KeyStore

	// Algorithm applies to newly generated keys. Loaded keys keep their own.
	Algorithm string

	// NumKeys is the target size of the active pool.
	NumKeys int

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewPersistentKeyManager loads stored keys, publishes every one that has not
// expired, signs with the active ones and tops the pool up to NumKeys.
func NewPersistentKeyManager(ctx context.Context, opts PersistentKeyManagerOptions) (*KeyManager, error) {
	if opts.Store == nil {
		return nil, errors.New("jwtx: Store is required for persistent keys")
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	records, err := opts.Store.ListAllSigningKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("jwtx: load signing keys: %w", err)
	}

	km := &KeyManager{keys: NewKeySet(), algorithm: opts.Algorithm}

	for _, rec := range records {
		if rec.Expired(now()) {
			continue
		}

		s, err := OpenSigningKey(rec)
		if err != nil {
			return nil, err
		}

		if rec.Active() {
			err = km.AddSigner(s)
		} else {
			err = km.keys.AddSigner(s)
		}
		if err != nil {
			return nil, err
		}
	}

	for km.NumSigners() < clampNumKeys(opts.NumKeys) {
		s, rec, err := NewSigningKey(opts.Algorithm, now())
		if err != nil {
			return nil, err
		}
		if err := opts.Store.CreateSigningKey(ctx, rec); err != nil {
			return nil, fmt.Errorf("jwtx: store signing key: %w", err)
		}
		if err := km.AddSigner(s); err != nil {
			return nil, err
		}
	}

	return km, nil
}

// NewSigningKey generates a key for alg along with the sealed record to store.
func NewSigningKey(alg string, now time.Time) (Signer, SigningKeyRecord, error) {
	kid := NewKeyID()
	s, pemKey, err := GenerateSigner(alg, kid)
	if err != nil {
		return nil, SigningKeyRecord{}, err
	}

	sealed, err := cryptox.SealPrivateKey(pemKey)
	if err != nil {
		return nil, SigningKeyRecord{}, fmt.Errorf("jwtx: seal %s: %w", kid, err)
	}

	return s, SigningKeyRecord{
		ID:               idx.NewAt(now).String(),
		Kid:              kid,
		Algorithm:        alg,
		PrivateKeySealed: sealed,
		CreatedAt:        now,
	}, nil
}

// OpenSigningKey unseals a stored record into a Signer.
func OpenSigningKey(rec SigningKeyRecord) (Signer, error) {
	pemKey, err := cryptox.OpenPrivateKey(rec.PrivateKeySealed)
	if err != nil {
		return nil, fmt.Errorf("jwtx: open %s: %w", rec.Kid, err)
	}

	s, err := NewSigner(rec.Kid, pemKey)
	if err != nil {
		return nil, fmt.Errorf("jwtx: load %s: %w", rec.Kid, err)
	}
	if s.Alg() != rec.Algorithm {
		return nil, fmt.Errorf("jwtx: key %s is %s, record says %s", rec.Kid, s.Alg(), rec.Algorithm)
	}
	return s, nil
}
