package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/woavlite/woav/internal/woav/domain"
)

func TestUserRevokesAtSecondPrecision(t *testing.T) {
	cutoff := time.Unix(1700000000, 0)
	u := domain.User{TokensValidAfter: cutoff}

	require.True(t, u.Revokes(cutoff.Add(-time.Second)))
	require.False(t, u.Revokes(cutoff), "same second is still valid")
	require.False(t, u.Revokes(cutoff.Add(900*time.Millisecond)))
	require.False(t, u.Revokes(cutoff.Add(time.Hour)))

	require.False(t, domain.User{}.Revokes(time.Unix(1, 0)), "zero cutoff revokes nothing")
}

func TestSigningKeyLifecycle(t *testing.T) {
	now := time.Now()
	k := domain.SigningKey{}
	require.True(t, k.IsActive())
	require.False(t, k.IsExpired(now))

	retired, expires := now.Add(-time.Hour), now
	k.RetiredAt, k.ExpiresAt = &retired, &expires
	require.False(t, k.IsActive())
	require.True(t, k.IsExpired(now))
	require.False(t, k.IsExpired(now.Add(-time.Second)))
}
