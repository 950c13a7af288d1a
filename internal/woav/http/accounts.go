package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/woavlite/woav/internal/woav/identity"
	"github.com/woavlite/woav/pkg/httpx"
	"github.com/woavlite/woav/pkg/slogx"
	"github.com/woavlite/woav/pkg/woavsdk"
)

type AccountsHandler struct {
	Accounts *identity.Accounts
}

// HandleSignUp godoc
//
//	@Summary		Sign up
//	@Description	Creates an email/password account and returns an ID token for it.
//	@Tags			Identity
//	@Accept			json
//	@Produce		json
//	@Param			request	body		woavsdk.SignUpRequest	true	"Account details"
//	@Success		200		{object}	woavsdk.SignInResponse
//	@Failure		400		{object}	woavsdk.ErrorResponse	"invalid request"
//	@Failure		409		{object}	woavsdk.ErrorResponse	"email already in use"
//	@Failure		500		{object}	woavsdk.ErrorResponse
//	@Router			/identity/v1/accounts:signUp [post]
func (h *AccountsHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	if h.Accounts == nil {
		woavsdk.ErrProviderNotConfigured.WriteError(w)
		return
	}

	var req woavsdk.SignUpRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		woavsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.Accounts.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailExists):
			woavsdk.ErrEmailExists.WriteError(w)
		case errors.Is(err, identity.ErrWeakPassword):
			woavsdk.ErrInvalidRequest.WriteError(w)
		default:
			slogx.FromContext(r.Context()).Error("sign up failed", slog.Any("error", err))
			woavsdk.ErrInternal.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, signInResponse(res))
}

// HandleSignIn godoc
//
//	@Summary		Sign in with password
//	@Description	Verifies email and password and returns a fresh ID token.
//	@Tags			Identity
//	@Accept			json
//	@Produce		json
//	@Param			request	body		woavsdk.SignInRequest	true	"Credentials"
//	@Success		200		{object}	woavsdk.SignInResponse
//	@Failure		400		{object}	woavsdk.ErrorResponse	"invalid email or password"
//	@Failure		403		{object}	woavsdk.ErrorResponse	"user account is disabled"
//	@Failure		500		{object}	woavsdk.ErrorResponse
//	@Router			/identity/v1/accounts:signInWithPassword [post]
func (h *AccountsHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if h.Accounts == nil {
		woavsdk.ErrProviderNotConfigured.WriteError(w)
		return
	}

	var req woavsdk.SignInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		woavsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.Accounts.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidPassword):
			woavsdk.ErrInvalidCredentials.WriteError(w)
		case errors.Is(err, identity.ErrUserDisabled):
			woavsdk.ErrUserDisabled.WriteError(w)
		default:
			slogx.FromContext(r.Context()).Error("sign in failed", slog.Any("error", err))
			woavsdk.ErrInternal.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, signInResponse(res))
}

func signInResponse(res *identity.SignInResult) woavsdk.SignInResponse {
	return woavsdk.SignInResponse{
		IDToken:   res.IDToken,
		LocalID:   res.UID,
		Email:     res.Email,
		ExpiresIn: int(res.ExpiresIn.Seconds()),
	}
}
