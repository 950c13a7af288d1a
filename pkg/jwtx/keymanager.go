package jwtx

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
)

var ErrLastSigner = errors.New("jwtx: cannot retire the last signing key")

const (
	defaultNumKeys = 3
	maxNumKeys     = 10
)

// KeyManager owns the active signing keys and the KeySet used to verify
// anything they signed. Retired keys leave the signing pool but stay in the
// KeySet until they are forgotten.
type KeyManager struct {
	keys      *KeySet
	algorithm string

	mu      sync.RWMutex
	signers []Signer
}

// KeyManagerOptions configures an ephemeral KeyManager.
type KeyManagerOptions struct {
	// Algorithm is EdDSA or ES256.
	Algorithm string

	// NumKeys is the size of the signing pool, clamped to [1, 10]. Zero
	// means 3.
	NumKeys int
}

// NewEphemeralKeyManager generates NumKeys in-memory keys. Nothing is
// persisted, so every issued token becomes unverifiable on restart.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	km := &KeyManager{keys: NewKeySet(), algorithm: opts.Algorithm}

	for i := range clampNumKeys(opts.NumKeys) {
		s, _, err := GenerateSigner(opts.Algorithm, NewKeyID())
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate signer %d: %w", i+1, err)
		}
		if err := km.AddSigner(s); err != nil {
			return nil, err
		}
	}

	return km, nil
}

func clampNumKeys(n int) int {
	switch {
	case n <= 0:
		return defaultNumKeys
	case n > maxNumKeys:
		return maxNumKeys
	default:
		return n
	}
}

// Algorithm returns the algorithm used for new keys.
func (km *KeyManager) Algorithm() string { return km.algorithm }

// KeySet returns the verification keys.
func (km *KeyManager) KeySet() *KeySet { return km.keys }

// IsReady reports whether the manager can both sign and verify.
func (km *KeyManager) IsReady() bool {
	return km.NumSigners() > 0 && km.keys.IsReady()
}

// Verifier returns a verifier over this manager's keys.
func (km *KeyManager) Verifier(opts VerifyOptions) *Verifier {
	return NewVerifier(km.keys, opts)
}

// Signer picks one of the active signers at random, or nil if there are none.
func (km *KeyManager) Signer() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	default:
		return km.signers[rand.IntN(len(km.signers))] // #nosec G404 - load spreading only
	}
}

// Sign signs claims with a random active key.
func (km *KeyManager) Sign(c Claims) (string, error) {
	s := km.Signer()
	if s == nil {
		return "", errors.New("jwtx: no active signing key")
	}
	return s.Sign(c)
}

// Signers returns a copy of the active signing pool.
func (km *KeyManager) Signers() []Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return slices.Clone(km.signers)
}

// NumSigners returns the size of the active signing pool.
func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// AddSigner adds s to the signing pool and publishes its key.
func (km *KeyManager) AddSigner(s Signer) error {
	if s == nil {
		return errors.New("jwtx: nil signer")
	}

	km.mu.Lock()
	defer km.mu.Unlock()

	if err := km.keys.AddSigner(s); err != nil {
		return fmt.Errorf("jwtx: publish %s: %w", s.KID(), err)
	}
	km.signers = append(km.signers, s)
	return nil
}

// RetireSigner stops signing with kid. Its public key stays published.
func (km *KeyManager) RetireSigner(kid string) error {
	km.mu.Lock()
	defer km.mu.Unlock()

	i := slices.IndexFunc(km.signers, func(s Signer) bool { return s.KID() == kid })
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNoKey, kid)
	}
	if len(km.signers) == 1 {
		return ErrLastSigner
	}

	km.signers = slices.Delete(km.signers, i, i+1)
	return nil
}

// Forget removes a retired key from the KeySet. Active keys are left alone.
func (km *KeyManager) Forget(kid string) {
	km.mu.RLock()
	active := slices.ContainsFunc(km.signers, func(s Signer) bool { return s.KID() == kid })
	km.mu.RUnlock()

	if !active {
		km.keys.Remove(kid)
	}
}
