package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/woavlite/woav/internal/woav/domain"
	"github.com/woavlite/woav/internal/woav/store"
	"github.com/woavlite/woav/pkg/jwtx"
)

// DefaultKeyGracePeriod keeps a retired key verifying for as long as the
// longest session cookie it could have signed.
const DefaultKeyGracePeriod = 14 * 24 * time.Hour

var ErrKeyAlreadyRetired = errors.New("key already retired")

// KeyRotationService rotates the provider's signing keys.
//
// With a Store, keys are sealed and persisted and retirement is recorded in
// the database. Without one, retirement is tracked in memory and lost on
// restart along with the keys themselves.
type KeyRotationService struct {
	Store       store.Store // nil for ephemeral keys
	KeyManager  *jwtx.KeyManager
	Algorithm   string
	GracePeriod time.Duration
	Logger      *slog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time

	mu      sync.Mutex
	retired map[string]time.Time // ephemeral kid -> expiry
}

// RotateKeyRequest asks for a new key, optionally retiring the current ones.
type RotateKeyRequest struct {
	RetireExisting bool
}

// RotateKeyResponse reports the outcome of a rotation.
type RotateKeyResponse struct {
	NewKey      domain.SigningKey
	RetiredKeys []domain.SigningKey
	ActiveKeys  int
}

func (s *KeyRotationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *KeyRotationService) gracePeriod() time.Duration {
	if s.GracePeriod <= 0 {
		return DefaultKeyGracePeriod
	}
	return s.GracePeriod
}

func (s *KeyRotationService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// RotateKey adds a new signing key. The new key signs before any old one is
// retired, so the pool is never empty.
func (s *KeyRotationService) RotateKey(ctx context.Context, req RotateKeyRequest) (*RotateKeyResponse, error) {
	if s.KeyManager == nil {
		return nil, errors.New("KeyManager is required")
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.gracePeriod())
	previous := s.KeyManager.Signers()

	var (
		signer jwtx.Signer
		newKey domain.SigningKey
	)

	if s.Store != nil {
		sg, rec, err := jwtx.NewSigningKey(s.Algorithm, now)
		if err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
		signer, newKey = sg, store.FromKeyRecord(rec)

		err = s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.SigningKeys().CreateSigningKey(ctx, newKey); err != nil {
				return fmt.Errorf("store signing key: %w", err)
			}
			if !req.RetireExisting {
				return nil
			}
			for _, old := range previous {
				err := tx.SigningKeys().RetireSigningKey(ctx, old.KID(), now, expiresAt)
				if err != nil && !errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("retire %s: %w", old.KID(), err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		sg, _, err := jwtx.GenerateSigner(s.Algorithm, jwtx.NewKeyID())
		if err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
		signer = sg
		newKey = domain.SigningKey{Kid: sg.KID(), Algorithm: sg.Alg(), CreatedAt: now}
	}

	if err := s.KeyManager.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("add signer: %w", err)
	}

	var retired []domain.SigningKey
	if req.RetireExisting {
		for _, old := range previous {
			if err := s.KeyManager.RetireSigner(old.KID()); err != nil {
				return nil, fmt.Errorf("retire %s: %w", old.KID(), err)
			}
			s.trackRetired(old.KID(), expiresAt)
			retired = append(retired, domain.SigningKey{
				Kid:       old.KID(),
				Algorithm: old.Alg(),
				RetiredAt: &now,
				ExpiresAt: &expiresAt,
			})
		}
	}

	s.logger().Info("signing key rotated",
		slog.String("kid", newKey.Kid),
		slog.Int("retired", len(retired)),
		slog.Int("active", s.KeyManager.NumSigners()),
	)

	return &RotateKeyResponse{
		NewKey:      newKey,
		RetiredKeys: retired,
		ActiveKeys:  s.KeyManager.NumSigners(),
	}, nil
}

// RetireKey stops kid signing. It keeps verifying for the grace period.
func (s *KeyRotationService) RetireKey(ctx context.Context, kid string) error {
	if s.KeyManager == nil {
		return errors.New("KeyManager is required")
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.gracePeriod())

	if s.Store != nil {
		key, err := s.Store.SigningKeys().GetSigningKeyByKid(ctx, kid)
		if err != nil {
			return fmt.Errorf("get key: %w", err)
		}
		if !key.IsActive() {
			return fmt.Errorf("%w: %s", ErrKeyAlreadyRetired, kid)
		}
	}

	// Retire in memory first: it refuses to retire the last signer.
	if err := s.KeyManager.RetireSigner(kid); err != nil {
		return fmt.Errorf("retire key: %w", err)
	}

	if s.Store != nil {
		if err := s.Store.SigningKeys().RetireSigningKey(ctx, kid, now, expiresAt); err != nil {
			return fmt.Errorf("retire key: %w", err)
		}
	}
	s.trackRetired(kid, expiresAt)
	return nil
}

// ListSigningKeys returns stored keys, or the active pool for ephemeral keys.
func (s *KeyRotationService) ListSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	if s.Store != nil {
		return s.Store.SigningKeys().ListAllSigningKeys(ctx)
	}

	signers := s.KeyManager.Signers()
	keys := make([]domain.SigningKey, len(signers))
	for i, sg := range signers {
		keys[i] = domain.SigningKey{Kid: sg.KID(), Algorithm: sg.Alg()}
	}
	return keys, nil
}

// ForgetExpired unpublishes retired keys whose grace period is over and
// deletes them from the Store. It returns how many keys were dropped.
func (s *KeyRotationService) ForgetExpired(ctx context.Context) (int, error) {
	now := s.now()

	if s.Store != nil {
		keys, err := s.Store.SigningKeys().ListAllSigningKeys(ctx)
		if err != nil {
			return 0, fmt.Errorf("list signing keys: %w", err)
		}
		for _, k := range keys {
			if k.IsExpired(now) {
				s.KeyManager.Forget(k.Kid)
			}
		}
		n, err := s.Store.SigningKeys().DeleteExpiredSigningKeys(ctx, now)
		return int(n), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for kid, exp := range s.retired {
		if !now.Before(exp) {
			s.KeyManager.Forget(kid)
			delete(s.retired, kid)
			n++
		}
	}
	return n, nil
}

func (s *KeyRotationService) trackRetired(kid string, expiresAt time.Time) {
	if s.Store != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retired == nil {
		s.retired = make(map[string]time.Time)
	}
	s.retired[kid] = expiresAt
}
