package woav_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woavlite/woav/pkg/woavsdk"
)

// TestSessionLifecycle walks a session from issuance through logout.
func TestSessionLifecycle(t *testing.T) {
	baseURL, cleanup := setupSessionContainer(t, nil)
	defer cleanup()
	ctx := t.Context()

	c, res := signedIn(t, baseURL, "ada@example.com")

	sess, err := c.CurrentSession(ctx)
	require.NoError(t, err)
	require.True(t, sess.Authenticated)
	require.Equal(t, res.LocalID, sess.UID)
	require.Equal(t, "ada@example.com", sess.Email)
	require.Greater(t, sess.ExpiresAt, sess.IssuedAt)

	cookie := c.SessionCookie()
	require.NoError(t, c.Logout(ctx))
	require.Empty(t, c.SessionCookie())

	_, err = c.CurrentSession(ctx)
	require.ErrorIs(t, err, woavsdk.ErrNotAuthenticated)

	// Without revoke-on-logout a copied cookie outlives the logout.
	require.NoError(t, c.SetSessionCookie(cookie))
	_, err = c.CurrentSession(ctx)
	require.NoError(t, err)
}

func TestLogoutWithoutSession(t *testing.T) {
	baseURL, cleanup := setupSessionContainer(t, nil)
	defer cleanup()

	require.NoError(t, woavsdk.NewClient(baseURL).Logout(t.Context()))
}

func TestIssueRejections(t *testing.T) {
	baseURL, cleanup := setupSessionContainer(t, nil)
	defer cleanup()
	ctx := t.Context()

	c := woavsdk.NewClient(baseURL)

	err := c.CreateSession(ctx, "")
	require.ErrorIs(t, err, woavsdk.ErrIDTokenRequired)

	err = c.CreateSession(ctx, "not.a.token")
	require.ErrorIs(t, err, woavsdk.ErrInvalidIDToken)
	require.Empty(t, c.SessionCookie())

	res, err := c.SignUp(ctx, "ada@example.com", testPassword, "")
	require.NoError(t, err)
	require.NoError(t, c.CreateSession(ctx, res.IDToken))

	other := woavsdk.NewClient(baseURL)
	err = other.CreateSession(ctx, res.IDToken)
	require.ErrorIs(t, err, woavsdk.ErrInvalidIDToken, "an ID token is exchanged once")
	require.Empty(t, other.SessionCookie())
}

func TestForgedCookie(t *testing.T) {
	baseURL, cleanup := setupSessionContainer(t, nil)
	defer cleanup()
	ctx := t.Context()

	c := woavsdk.NewClient(baseURL)
	require.NoError(t, c.SetSessionCookie("eyJhbGciOiJub25lIn0.e30."))

	_, err := c.CurrentSession(ctx)
	require.ErrorIs(t, err, woavsdk.ErrNotAuthenticated)
	require.Empty(t, c.SessionCookie(), "a rejected cookie is cleared")
}

// TestRevokeSessions signs one account in on two devices and revokes from one.
func TestRevokeSessions(t *testing.T) {
	baseURL, cleanup := setupSessionContainer(t, nil)
	defer cleanup()
	ctx := t.Context()

	laptop, _ := signedIn(t, baseURL, "ada@example.com")
	phone, _ := signedIn(t, baseURL, "ada@example.com")

	require.NoError(t, phone.RevokeSessions(ctx))
	require.Empty(t, phone.SessionCookie())

	_, err := laptop.CurrentSession(ctx)
	require.ErrorIs(t, err, woavsdk.ErrNotAuthenticated)

	// Signing in again after the revocation works.
	again, _ := signedIn(t, baseURL, "ada@example.com")
	_, err = again.CurrentSession(ctx)
	require.NoError(t, err)
}

func TestRevokeOnLogout(t *testing.T) {
	baseURL, cleanup := setupSessionContainer(t, map[string]string{"WOAV_REVOKE_ON_LOGOUT": "true"})
	defer cleanup()
	ctx := t.Context()

	laptop, _ := signedIn(t, baseURL, "ada@example.com")
	phone, _ := signedIn(t, baseURL, "ada@example.com")

	require.NoError(t, phone.Logout(ctx))

	_, err := laptop.CurrentSession(ctx)
	require.ErrorIs(t, err, woavsdk.ErrNotAuthenticated)
}
