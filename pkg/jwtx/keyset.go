package jwtx

import (
	"errors"
	"slices"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet holds the public verification keys by kid. It backs both JWKS
// publishing and token verification, and is safe for concurrent use.
type KeySet struct {
	mu   sync.RWMutex
	jwks []JWK
	pub  map[string]any
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{pub: make(map[string]any)}
}

// AddSigner publishes a signer's public key.
func (k *KeySet) AddSigner(s Signer) error {
	return k.Add(s.PublicJWK())
}

// Add registers a JWK. Re-adding a kid replaces the earlier key.
func (k *KeySet) Add(j JWK) error {
	key, err := j.PublicKey()
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if _, exists := k.pub[j.Kid]; exists {
		k.jwks = slices.DeleteFunc(k.jwks, func(x JWK) bool { return x.Kid == j.Kid })
	}
	k.pub[j.Kid] = key
	k.jwks = append(k.jwks, j)
	return nil
}

// Remove drops a key so tokens signed with it no longer verify.
func (k *KeySet) Remove(kid string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	delete(k.pub, kid)
	k.jwks = slices.DeleteFunc(k.jwks, func(x JWK) bool { return x.Kid == kid })
}

// Get returns the public key for kid.
func (k *KeySet) Get(kid string) (any, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if pk, ok := k.pub[kid]; ok {
		return pk, nil
	}
	return nil, ErrNoKey
}

// PublicJWKS returns a snapshot for serving at the JWKS endpoint.
func (k *KeySet) PublicJWKS() JWKS {
	k.mu.RLock()
	defer k.mu.RUnlock()

	return JWKS{Keys: slices.Clone(k.jwks)}
}

// Len returns the number of published keys.
func (k *KeySet) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.pub)
}

// IsReady reports whether at least one key is loaded.
func (k *KeySet) IsReady() bool { return k.Len() > 0 }
