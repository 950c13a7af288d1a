package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/woavlite/woav/internal/woav/service"
	"github.com/woavlite/woav/pkg/httpx"
	"github.com/woavlite/woav/pkg/slogx"
	"github.com/woavlite/woav/pkg/woavsdk"
)

type SessionHandler struct {
	Sessions *service.SessionService
	Cookies  httpx.CookieOptions
}

// HandleIssue godoc
//
//	@Summary		Create session
//	@Description	Exchanges an ID token from a sign-in within the last 5 minutes for a __session cookie valid for 5 days.
//	@Description	Each ID token can be exchanged once.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		woavsdk.SessionRequest	true	"ID token"
//	@Success		200		{object}	woavsdk.StatusResponse	"Set-Cookie: __session"
//	@Failure		400		{object}	woavsdk.ErrorResponse	"ID token is required"
//	@Failure		500		{object}	woavsdk.ErrorResponse	"identity provider is not configured, invalid ID token, recent sign-in required, or failed to create session"
//	@Router			/api/auth/session [post]
func (h *SessionHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	var req woavsdk.SessionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.IDToken == "" {
		woavsdk.ErrIDTokenRequired.WriteError(w)
		return
	}

	issued, err := h.Sessions.Issue(r.Context(), req.IDToken)
	if err != nil {
		apiErr := issueError(err)
		if errors.Is(err, service.ErrBackendUnavailable) {
			l.Error("session issuance unavailable", slog.Any("error", err))
		} else {
			l.Info("session issuance rejected", slog.Any("error", err))
		}
		apiErr.WriteError(w)
		return
	}

	httpx.SetSessionCookie(w, issued.Value, issued.MaxAge, h.Cookies)
	l.Info("session issued", slog.String("uid", issued.UID))
	httpx.WriteJSON(w, http.StatusOK, woavsdk.StatusResponse{Status: woavsdk.StatusSuccess})
}

func issueError(err error) *woavsdk.APIError {
	switch {
	case errors.Is(err, service.ErrMissingCredential):
		return woavsdk.ErrIDTokenRequired
	case errors.Is(err, service.ErrBackendUnavailable):
		return woavsdk.ErrProviderNotConfigured
	case errors.Is(err, service.ErrInvalidCredential):
		return woavsdk.ErrInvalidIDToken
	case errors.Is(err, service.ErrStaleCredential):
		return woavsdk.ErrRecentSignInRequired
	default:
		return woavsdk.ErrSessionCreation
	}
}

// HandleCurrent godoc
//
//	@Summary		Current session
//	@Description	Verifies the __session cookie, including revocation, and returns the identity behind it.
//	@Description	A rejected cookie is cleared.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	woavsdk.SessionResponse
//	@Failure		401	{object}	woavsdk.ErrorResponse	"not authenticated"
//	@Security		SessionCookie
//	@Router			/api/auth/session [get]
func (h *SessionHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	id := h.Sessions.Current(r.Context(), RequestCookies(w, r, h.Cookies), true)
	if id == nil {
		woavsdk.ErrNotAuthenticated.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, woavsdk.SessionResponse{
		Authenticated: true,
		UID:           id.UID,
		Email:         id.Email,
		Name:          id.Name,
		AuthTime:      id.AuthTime.Unix(),
		IssuedAt:      id.IssuedAt.Unix(),
		ExpiresAt:     id.ExpiresAt.Unix(),
	})
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Clears the __session cookie. Succeeds whether or not a session existed.
//	@Description	When the server runs with WOAV_REVOKE_ON_LOGOUT, every session of the user is revoked too.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	woavsdk.StatusResponse
//	@Failure		500	{object}	woavsdk.ErrorResponse	"failed to log out"
//	@Router			/api/auth/logout [post]
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	res, err := h.Sessions.Teardown(r.Context(), RequestCookies(w, r, h.Cookies))
	if err != nil {
		l.Error("logout failed", slog.Any("error", err))
		woavsdk.ErrLogoutFailed.WriteError(w)
		return
	}

	if res.UID != "" {
		l.Info("logged out", slog.String("uid", res.UID), slog.Bool("revoked", res.Revoked))
	}
	httpx.WriteJSON(w, http.StatusOK, woavsdk.StatusResponse{Status: woavsdk.StatusSuccess})
}

// HandleRevoke godoc
//
//	@Summary		Revoke all sessions
//	@Description	Revokes every session of the signed-in user on every device and clears the cookie.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	woavsdk.StatusResponse
//	@Failure		401	{object}	woavsdk.ErrorResponse	"not authenticated"
//	@Failure		500	{object}	woavsdk.ErrorResponse	"failed to revoke sessions"
//	@Security		SessionCookie
//	@Router			/api/auth/revoke [post]
func (h *SessionHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	id, ok := IdentityFromContext(r.Context())
	if !ok {
		woavsdk.ErrNotAuthenticated.WriteError(w)
		return
	}

	if err := h.Sessions.RevokeAll(r.Context(), id.UID); err != nil {
		l.Error("revoke sessions failed", slog.Any("error", err))
		woavsdk.ErrRevokeFailed.WriteError(w)
		return
	}

	httpx.ClearSessionCookie(w, h.Cookies)
	l.Info("all sessions revoked")
	httpx.WriteJSON(w, http.StatusOK, woavsdk.StatusResponse{Status: woavsdk.StatusSuccess})
}
