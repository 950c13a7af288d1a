package jwtx_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/woavlite/woav/pkg/cryptox"
	"github.com/woavlite/woav/pkg/jwtx"
)

func TestEphemeralKeyManagerClampsPool(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Algorithm: jwtx.AlgorithmEdDSA})
	require.NoError(t, err)
	require.Equal(t, 3, km.NumSigners())
	require.True(t, km.IsReady())

	km, err = jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Algorithm: jwtx.AlgorithmEdDSA, NumKeys: 50})
	require.NoError(t, err)
	require.Equal(t, 10, km.NumSigners())

	_, err = jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Algorithm: "HS256"})
	require.Error(t, err)
}

func TestRetireKeepsVerificationUntilForgotten(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Algorithm: jwtx.AlgorithmES256, NumKeys: 2})
	require.NoError(t, err)

	first := km.Signers()[0]
	tok, err := first.Sign(newClaims(time.Now(), time.Hour))
	require.NoError(t, err)

	require.NoError(t, km.RetireSigner(first.KID()))
	require.Equal(t, 1, km.NumSigners())
	require.ErrorIs(t, km.RetireSigner(km.Signers()[0].KID()), jwtx.ErrLastSigner)
	require.ErrorIs(t, km.RetireSigner("missing"), jwtx.ErrNoKey)

	v := km.Verifier(jwtx.VerifyOptions{Issuer: testIssuer})
	_, err = v.Verify(tok)
	require.NoError(t, err, "retired key still verifies")

	km.Forget(first.KID())
	_, err = v.Verify(tok)
	require.ErrorIs(t, err, jwtx.ErrUnknownKID)

	// Forgetting an active key is a no-op.
	active := km.Signers()[0].KID()
	km.Forget(active)
	_, err = km.KeySet().Get(active)
	require.NoError(t, err)
}

func TestJWKSPublishesAllKeys(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Algorithm: jwtx.AlgorithmEdDSA, NumKeys: 2})
	require.NoError(t, err)

	raw, err := json.Marshal(km.KeySet().PublicJWKS())
	require.NoError(t, err)

	var doc jwtx.JWKS
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Keys, 2)
	for _, k := range doc.Keys {
		require.Equal(t, "OKP", k.Kty)
		require.Equal(t, "Ed25519", k.Crv)
		require.Equal(t, "sig", k.Use)

		// A JWKS consumer can rebuild the key.
		fresh := jwtx.NewKeySet()
		require.NoError(t, fresh.Add(k))
	}
}

type memKeyStore struct {
	mu   sync.Mutex
	recs []jwtx.SigningKeyRecord
}

func (m *memKeyStore) ListAllSigningKeys(context.Context) ([]jwtx.SigningKeyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]jwtx.SigningKeyRecord(nil), m.recs...), nil
}

func (m *memKeyStore) CreateSigningKey(_ context.Context, r jwtx.SigningKeyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, r)
	return nil
}

func TestPersistentKeyManagerSurvivesRestart(t *testing.T) {
	t.Setenv(cryptox.MasterKeyEnv, "persistent-km-test")
	cryptox.ResetMasterKey()
	t.Cleanup(cryptox.ResetMasterKey)

	ctx := context.Background()
	store := &memKeyStore{}
	opts := jwtx.PersistentKeyManagerOptions{Store: store, Algorithm: jwtx.AlgorithmEdDSA, NumKeys: 2}

	km1, err := jwtx.NewPersistentKeyManager(ctx, opts)
	require.NoError(t, err)
	require.Len(t, store.recs, 2)
	for _, r := range store.recs {
		require.NotContains(t, string(r.PrivateKeySealed), "PRIVATE KEY")
	}

	tok, err := km1.Sign(newClaims(time.Now(), time.Hour))
	require.NoError(t, err)

	km2, err := jwtx.NewPersistentKeyManager(ctx, opts)
	require.NoError(t, err)
	require.Len(t, store.recs, 2, "no new keys on restart")

	_, err = km2.Verifier(jwtx.VerifyOptions{Issuer: testIssuer}).Verify(tok)
	require.NoError(t, err)
}

func TestPersistentKeyManagerSkipsExpiredAndRetired(t *testing.T) {
	t.Setenv(cryptox.MasterKeyEnv, "persistent-km-expiry")
	cryptox.ResetMasterKey()
	t.Cleanup(cryptox.ResetMasterKey)

	now := time.Now()
	_, expired, err := jwtx.NewSigningKey(jwtx.AlgorithmEdDSA, now.Add(-48*time.Hour))
	require.NoError(t, err)
	retiredAt, expiredAt := now.Add(-24*time.Hour), now.Add(-time.Hour)
	expired.RetiredAt, expired.ExpiresAt = &retiredAt, &expiredAt

	_, graced, err := jwtx.NewSigningKey(jwtx.AlgorithmEdDSA, now.Add(-48*time.Hour))
	require.NoError(t, err)
	graceEnd := now.Add(time.Hour)
	graced.RetiredAt, graced.ExpiresAt = &retiredAt, &graceEnd

	store := &memKeyStore{recs: []jwtx.SigningKeyRecord{expired, graced}}
	km, err := jwtx.NewPersistentKeyManager(context.Background(), jwtx.PersistentKeyManagerOptions{
		Store: store, Algorithm: jwtx.AlgorithmEdDSA, NumKeys: 1,
	})
	require.NoError(t, err)

	require.Equal(t, 1, km.NumSigners())
	require.NotEqual(t, graced.Kid, km.Signers()[0].KID())

	_, err = km.KeySet().Get(graced.Kid)
	require.NoError(t, err, "retired key inside grace period is published")
	_, err = km.KeySet().Get(expired.Kid)
	require.ErrorIs(t, err, jwtx.ErrNoKey)
}

func TestOpenSigningKeyAlgorithmMismatch(t *testing.T) {
	t.Setenv(cryptox.MasterKeyEnv, "persistent-km-mismatch")
	cryptox.ResetMasterKey()
	t.Cleanup(cryptox.ResetMasterKey)

	_, rec, err := jwtx.NewSigningKey(jwtx.AlgorithmES256, time.Now())
	require.NoError(t, err)
	rec.Algorithm = jwtx.AlgorithmEdDSA
	_, err = jwtx.OpenSigningKey(rec)
	require.Error(t, err)
}
