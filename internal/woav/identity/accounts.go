package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/woavlite/woav/internal/woav/domain"
	"github.com/woavlite/woav/internal/woav/store"
	"github.com/woavlite/woav/pkg/cryptox"
	"github.com/woavlite/woav/pkg/idx"
	"github.com/woavlite/woav/pkg/jwtx"
	"github.com/woavlite/woav/pkg/slogx"
)

const minPasswordLength = 8

// SignInResult is what the client holds after signing in: a fresh ID token to
// exchange for a session cookie.
type SignInResult struct {
	IDToken   string
	UID       string
	Email     string
	ExpiresIn time.Duration
}

// Accounts hosts email/password users on a LocalProvider.
type Accounts struct {
	Provider *LocalProvider
}

// SignUp creates an account and signs it in.
func (a *Accounts) SignUp(ctx context.Context, email, password, displayName string) (*SignInResult, error) {
	email = strings.TrimSpace(email)
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("identity: hash password: %w", err)
	}

	now := a.Provider.now().UTC()
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.Provider.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("identity: create user: %w", err)
	}

	slogx.FromContext(ctx).Info("account created", slog.String("uid", u.ID))
	return a.signIn(u)
}

// SignInWithPassword checks the password and issues a new ID token. Unknown
// emails and wrong passwords both yield ErrInvalidPassword.
func (a *Accounts) SignInWithPassword(ctx context.Context, email, password string) (*SignInResult, error) {
	u, err := a.Provider.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("identity: load user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("identity: verify password: %w", err)
	}
	if u.Disabled {
		return nil, ErrUserDisabled
	}

	return a.signIn(u)
}

func (a *Accounts) signIn(u domain.User) (*SignInResult, error) {
	p := a.Provider
	now := p.now()

	// A sign-in right after a revocation, within the same second, must not
	// land behind the cutoff.
	authTime := now
	if authTime.Before(u.TokensValidAfter) {
		authTime = u.TokensValidAfter
	}

	claims := jwtx.NewClaims(p.Issuer, p.ProjectID, u.ID, authTime, IDTokenTTL, now)
	claims.Email = u.Email
	claims.Name = u.DisplayName
	claims.SignInProvider = jwtx.ProviderPassword

	tok, err := p.KeyManager.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("identity: sign ID token: %w", err)
	}

	return &SignInResult{
		IDToken:   tok,
		UID:       u.ID,
		Email:     u.Email,
		ExpiresIn: IDTokenTTL,
	}, nil
}
