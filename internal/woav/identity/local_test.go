package identity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/woavlite/woav/internal/woav/identity"
	"github.com/woavlite/woav/internal/woav/identity/identitytest"
	"github.com/woavlite/woav/pkg/jwtx"
)

func TestVerifyIDToken(t *testing.T) {
	env := identitytest.New(t)
	res := env.SignUp(t, "ada@example.com")

	tok, err := env.Provider.VerifyIDToken(t.Context(), res.IDToken)
	require.NoError(t, err)
	require.Equal(t, res.UID, tok.UID)
	require.Equal(t, "ada@example.com", tok.Email)
	require.Equal(t, "Test User", tok.Name)
	require.Equal(t, jwtx.ProviderPassword, tok.SignInProvider)
	require.NotEmpty(t, tok.ID)
	require.Equal(t, env.Clock.Now().Unix(), tok.AuthTime.Unix())
	require.Equal(t, env.Clock.Now().Add(identity.IDTokenTTL).Unix(), tok.ExpiresAt.Unix())
}

func TestVerifyIDTokenRejections(t *testing.T) {
	env := identitytest.New(t)
	ctx := t.Context()
	res := env.SignUp(t, "ada@example.com")

	_, err := env.Provider.VerifyIDToken(ctx, "not.a.jwt")
	require.ErrorIs(t, err, identity.ErrIDTokenInvalid)

	env.Clock.Advance(identity.IDTokenTTL + time.Second)
	_, err = env.Provider.VerifyIDToken(ctx, res.IDToken)
	require.ErrorIs(t, err, identity.ErrIDTokenExpired)
	require.True(t, identity.Rejected(err))
}

func TestSessionCookieIsNotAnIDToken(t *testing.T) {
	env := identitytest.New(t)
	ctx := t.Context()
	res := env.SignUp(t, "ada@example.com")

	cookie, err := env.Provider.SessionCookie(ctx, res.IDToken, time.Hour)
	require.NoError(t, err)

	_, err = env.Provider.VerifyIDToken(ctx, cookie)
	require.ErrorIs(t, err, identity.ErrIDTokenInvalid)

	_, err = env.Provider.VerifySessionCookie(ctx, res.IDToken, true)
	require.ErrorIs(t, err, identity.ErrSessionCookieInvalid)
}

func TestSessionCookieDurationBounds(t *testing.T) {
	env := identitytest.New(t)
	ctx := t.Context()
	res := env.SignUp(t, "ada@example.com")

	for _, d := range []time.Duration{0, time.Minute, 15 * 24 * time.Hour} {
		_, err := env.Provider.SessionCookie(ctx, res.IDToken, d)
		require.ErrorIs(t, err, identity.ErrInvalidSessionDuration, "duration %s", d)
	}

	for _, d := range []time.Duration{identity.MinSessionDuration, identity.MaxSessionDuration} {
		_, err := env.Provider.SessionCookie(ctx, res.IDToken, d)
		require.NoError(t, err, "duration %s", d)
	}
}

func TestVerifySessionCookie(t *testing.T) {
	env := identitytest.New(t)
	ctx := t.Context()
	res := env.SignUp(t, "ada@example.com")
	signedInAt := env.Clock.Now()

	env.Clock.Advance(2 * time.Minute)
	cookie, err := env.Provider.SessionCookie(ctx, res.IDToken, 5*24*time.Hour)
	require.NoError(t, err)

	tok, err := env.Provider.VerifySessionCookie(ctx, cookie, true)
	require.NoError(t, err)
	require.Equal(t, res.UID, tok.UID)
	require.Equal(t, signedInAt.Unix(), tok.AuthTime.Unix(), "auth_time is carried over from the ID token")
	require.Equal(t, env.Clock.Now().Unix(), tok.IssuedAt.Unix())

	env.Clock.Advance(5*24*time.Hour + time.Second)
	_, err = env.Provider.VerifySessionCookie(ctx, cookie, false)
	require.ErrorIs(t, err, identity.ErrSessionCookieExpired)
}

func TestRevokeRefreshTokens(t *testing.T) {
	env := identitytest.New(t)
	ctx := t.Context()
	res := env.SignUp(t, "ada@example.com")

	cookie, err := env.Provider.SessionCookie(ctx, res.IDToken, time.Hour)
	require.NoError(t, err)

	require.NoError(t, env.Provider.RevokeRefreshTokens(ctx, res.UID))

	// Signature and expiry are still fine; only the revocation check fails.
	_, err = env.Provider.VerifySessionCookie(ctx, cookie, false)
	require.NoError(t, err)
	_, err = env.Provider.VerifySessionCookie(ctx, cookie, true)
	require.ErrorIs(t, err, identity.ErrSessionCookieRevoked)

	_, err = env.Provider.VerifyIDToken(ctx, res.IDToken)
	require.ErrorIs(t, err, identity.ErrIDTokenRevoked)

	// Signing in again in the same second yields usable credentials.
	again, err := env.Accounts.SignInWithPassword(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	fresh, err := env.Provider.SessionCookie(ctx, again.IDToken, time.Hour)
	require.NoError(t, err)
	_, err = env.Provider.VerifySessionCookie(ctx, fresh, true)
	require.NoError(t, err)

	require.ErrorIs(t, env.Provider.RevokeRefreshTokens(ctx, "missing"), identity.ErrUserNotFound)
}

func TestDisabledAndDeletedUsers(t *testing.T) {
	env := identitytest.New(t)
	ctx := t.Context()
	res := env.SignUp(t, "ada@example.com")

	cookie, err := env.Provider.SessionCookie(ctx, res.IDToken, time.Hour)
	require.NoError(t, err)

	require.NoError(t, env.Store.Users().SetDisabled(ctx, res.UID, true))
	_, err = env.Provider.VerifySessionCookie(ctx, cookie, true)
	require.ErrorIs(t, err, identity.ErrUserDisabled)

	require.NoError(t, env.Store.Users().DeleteUser(ctx, res.UID))
	_, err = env.Provider.VerifySessionCookie(ctx, cookie, true)
	require.ErrorIs(t, err, identity.ErrUserNotFound)
	require.True(t, identity.Rejected(err))
}

func TestProviderFaultIsNotARejection(t *testing.T) {
	env := identitytest.New(t)
	ctx := t.Context()
	res := env.SignUp(t, "ada@example.com")

	cookie, err := env.Provider.SessionCookie(ctx, res.IDToken, time.Hour)
	require.NoError(t, err)

	require.NoError(t, env.Store.Close())
	_, err = env.Provider.VerifySessionCookie(ctx, cookie, true)
	require.Error(t, err)
	require.False(t, identity.Rejected(err))
}
