package sqlite_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/woavlite/woav/internal/woav/domain"
	"github.com/woavlite/woav/internal/woav/store"
	"github.com/woavlite/woav/internal/woav/store/drivers/sqlite"
	"github.com/woavlite/woav/pkg/idx"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newUser(email string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  "Ada",
		PasswordHash: "$argon2id$placeholder",
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(t.Context()))
}

func TestUsersCreateAndLookup(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()

	u := newUser("ada@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, "Ada", got.DisplayName)
	require.False(t, got.Disabled)
	require.True(t, got.TokensValidAfter.IsZero())
	require.False(t, got.CreatedAt.IsZero())

	byEmail, err := s.Users().GetUserByEmail(ctx, "ADA@Example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = s.Users().GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersDuplicateEmail(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()

	require.NoError(t, s.Users().CreateUser(ctx, newUser("ada@example.com")))
	err := s.Users().CreateUser(ctx, newUser("Ada@Example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsersRevocationCutoff(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()

	u := newUser("ada@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	cutoff := time.Unix(1_700_000_000, 500).UTC()
	require.NoError(t, s.Users().SetTokensValidAfter(ctx, u.ID, cutoff))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, cutoff.Unix(), got.TokensValidAfter.Unix())
	require.True(t, got.Revokes(cutoff.Add(-time.Second)))
	require.False(t, got.Revokes(cutoff))

	err = s.Users().SetTokensValidAfter(ctx, "missing", cutoff)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersDisableAndDelete(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()

	u := newUser("ada@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().SetDisabled(ctx, u.ID, true))
	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.Disabled)

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))
	require.ErrorIs(t, s.Users().DeleteUser(ctx, u.ID), store.ErrNotFound)
}

func TestAssertionsConsumeOnce(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()
	exp := time.Now().Add(time.Hour)

	fresh, err := s.Assertions().ConsumeAssertion(ctx, "k1", exp)
	require.NoError(t, err)
	require.True(t, fresh)

	fresh, err = s.Assertions().ConsumeAssertion(ctx, "k1", exp)
	require.NoError(t, err)
	require.False(t, fresh)

	fresh, err = s.Assertions().ConsumeAssertion(ctx, "k2", exp)
	require.NoError(t, err)
	require.True(t, fresh)
}

func TestAssertionsDeleteExpired(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()
	now := time.Now()

	_, err := s.Assertions().ConsumeAssertion(ctx, "old", now.Add(-time.Minute))
	require.NoError(t, err)
	_, err = s.Assertions().ConsumeAssertion(ctx, "live", now.Add(time.Hour))
	require.NoError(t, err)

	n, err := s.Assertions().DeleteExpiredAssertions(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// the purged key can be recorded again; the live one cannot
	fresh, err := s.Assertions().ConsumeAssertion(ctx, "old", now.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, fresh)
	fresh, err = s.Assertions().ConsumeAssertion(ctx, "live", now.Add(time.Hour))
	require.NoError(t, err)
	require.False(t, fresh)
}

func TestSigningKeysLifecycle(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()
	now := time.Unix(1_700_000_000, 0).UTC()

	older := domain.SigningKey{
		ID: idx.NewAt(now).String(), Kid: "woav-a", Algorithm: "EdDSA",
		PrivateKeySealed: []byte{1, 2, 3}, CreatedAt: now,
	}
	newer := domain.SigningKey{
		ID: idx.NewAt(now.Add(time.Hour)).String(), Kid: "woav-b", Algorithm: "ES256",
		PrivateKeySealed: []byte{4, 5, 6}, CreatedAt: now.Add(time.Hour),
	}
	require.NoError(t, s.SigningKeys().CreateSigningKey(ctx, older))
	require.NoError(t, s.SigningKeys().CreateSigningKey(ctx, newer))
	require.ErrorIs(t, s.SigningKeys().CreateSigningKey(ctx, older), store.ErrAlreadyExists)

	all, err := s.SigningKeys().ListAllSigningKeys(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "woav-b", all[0].Kid)

	got, err := s.SigningKeys().GetSigningKeyByKid(ctx, "woav-a")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got.PrivateKeySealed)
	require.True(t, got.IsActive())

	retired := now.Add(2 * time.Hour)
	require.NoError(t, s.SigningKeys().RetireSigningKey(ctx, "woav-a", retired, retired.Add(time.Hour)))
	require.ErrorIs(t, s.SigningKeys().RetireSigningKey(ctx, "woav-a", retired, retired), store.ErrNotFound)

	active, err := s.SigningKeys().ListActiveSigningKeys(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "woav-b", active[0].Kid)

	got, err = s.SigningKeys().GetSigningKeyByKid(ctx, "woav-a")
	require.NoError(t, err)
	require.False(t, got.IsActive())
	require.NotNil(t, got.ExpiresAt)
	require.Equal(t, retired.Add(time.Hour), *got.ExpiresAt)

	n, err := s.SigningKeys().DeleteExpiredSigningKeys(ctx, retired.Add(30*time.Minute))
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = s.SigningKeys().DeleteExpiredSigningKeys(ctx, retired.Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.SigningKeys().GetSigningKeyByKid(ctx, "woav-a")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()

	u := newUser("ada@example.com")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(ctx, u))
		return store.ErrAlreadyExists
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, u)
	}))
	_, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
}

func TestKeyStoreAdapterRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()
	a := store.NewKeyStoreAdapter(s)

	now := time.Unix(1_700_000_000, 0).UTC()
	key := domain.SigningKey{
		ID: idx.NewAt(now).String(), Kid: "woav-x", Algorithm: "EdDSA",
		PrivateKeySealed: []byte("sealed"), CreatedAt: now,
	}
	require.NoError(t, a.CreateSigningKey(ctx, store.ToKeyRecord(key)))

	recs, err := a.ListAllSigningKeys(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, key, store.FromKeyRecord(recs[0]))
}
