// Package identitytest wires a LocalProvider over an in-memory database and
// ephemeral keys for tests that need a real identity provider.
package identitytest

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/woavlite/woav/internal/woav/identity"
	"github.com/woavlite/woav/internal/woav/store/drivers/sqlite"
	"github.com/woavlite/woav/pkg/jwtx"
)

const (
	Issuer    = "https://identity.woav.test"
	ProjectID = "woav-test"
)

// Clock is a settable clock shared by everything in an Env.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(t time.Time) *Clock { return &Clock{now: t} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Env is a ready provider and everything behind it.
type Env struct {
	Clock    *Clock
	Store    *sqlite.Store
	Keys     *jwtx.KeyManager
	Provider *identity.LocalProvider
	Accounts *identity.Accounts
}

// New builds an Env whose clock starts at a fixed instant.
func New(t testing.TB) *Env {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Algorithm: jwtx.AlgorithmEdDSA,
		NumKeys:   2,
	})
	require.NoError(t, err)

	clock := NewClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	p := &identity.LocalProvider{
		KeyManager: km,
		Store:      s,
		Issuer:     Issuer,
		ProjectID:  ProjectID,
		Now:        clock.Now,
	}

	return &Env{
		Clock:    clock,
		Store:    s,
		Keys:     km,
		Provider: p,
		Accounts: &identity.Accounts{Provider: p},
	}
}

// SignUp creates an account and returns its first ID token.
func (e *Env) SignUp(t testing.TB, email string) *identity.SignInResult {
	t.Helper()

	res, err := e.Accounts.SignUp(t.Context(), email, "correct horse", "Test User")
	require.NoError(t, err)
	return res
}
