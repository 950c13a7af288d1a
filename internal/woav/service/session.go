package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/woavlite/woav/internal/woav/domain"
	"github.com/woavlite/woav/internal/woav/identity"
	"github.com/woavlite/woav/internal/woav/replay"
	"github.com/woavlite/woav/pkg/slogx"
)

const (
	// FreshnessWindow is the oldest auth_time issuance accepts. Older
	// assertions need a new interactive sign-in.
	FreshnessWindow = 5 * time.Minute

	// SessionDuration is the lifetime of a session cookie.
	SessionDuration = 5 * 24 * time.Hour
)

// Issuance errors.
var (
	ErrMissingCredential  = errors.New("session: ID token is required")
	ErrBackendUnavailable = errors.New("session: identity provider is not configured")
	ErrInvalidCredential  = errors.New("session: invalid ID token")
	ErrStaleCredential    = errors.New("session: recent sign-in required")
	ErrMintFailed         = errors.New("session: failed to create session")
)

// Verification errors. Callers outside this package normally go through
// Current, which turns all of them into "no identity".
var (
	ErrNoSession               = errors.New("session: no session cookie")
	ErrRevokedOrExpiredSession = errors.New("session: session revoked or expired")
	ErrProviderFault           = errors.New("session: identity provider fault")
)

// CookieStore is where Current reads the session cookie from and, for
// rejected cookies, clears it.
type CookieStore interface {
	Value() string
	Clear()
}

// Issued is a freshly minted session cookie.
type Issued struct {
	Value  string
	MaxAge time.Duration
	UID    string
}

// TeardownResult describes what a logout did beyond clearing the cookie.
type TeardownResult struct {
	// UID is empty when the cookie did not resolve to an identity.
	UID     string
	Revoked bool
}

// SessionService turns ID tokens into session cookies and session cookies
// back into identities.
type SessionService struct {
	// Provider is nil when the identity provider failed to initialise.
	Provider identity.Provider

	// Replay makes ID tokens single-use. Optional.
	Replay replay.Guard

	// RevokeOnLogout makes Teardown revoke every session of the subject,
	// not just drop the cookie.
	RevokeOnLogout bool

	// Now overrides the clock, for tests.
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue exchanges a fresh ID token for a session cookie.
func (s *SessionService) Issue(ctx context.Context, idToken string) (*Issued, error) {
	if idToken == "" {
		return nil, ErrMissingCredential
	}
	if s.Provider == nil {
		return nil, ErrBackendUnavailable
	}

	tok, err := s.Provider.VerifyIDToken(ctx, idToken)
	if err != nil {
		if identity.Rejected(err) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrProviderFault, err)
	}

	if s.now().Sub(tok.AuthTime) > FreshnessWindow {
		return nil, ErrStaleCredential
	}

	if s.Replay != nil {
		if err := s.Replay.Consume(ctx, tok.ID, tok.ExpiresAt); err != nil {
			if errors.Is(err, replay.ErrReplayed) {
				return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
			}
			return nil, fmt.Errorf("%w: %w", ErrProviderFault, err)
		}
	}

	value, err := s.Provider.SessionCookie(ctx, idToken, SessionDuration)
	if err != nil {
		if identity.Rejected(err) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrMintFailed, err)
	}

	return &Issued{Value: value, MaxAge: SessionDuration, UID: tok.UID}, nil
}

// Verify checks a session cookie, including revocation, and decodes it.
func (s *SessionService) Verify(ctx context.Context, cookie string) (*domain.Identity, error) {
	if cookie == "" {
		return nil, ErrNoSession
	}
	if s.Provider == nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderFault, ErrBackendUnavailable)
	}

	tok, err := s.Provider.VerifySessionCookie(ctx, cookie, true)
	if err != nil {
		if identity.Rejected(err) {
			return nil, fmt.Errorf("%w: %w", ErrRevokedOrExpiredSession, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrProviderFault, err)
	}

	return &domain.Identity{
		UID:       tok.UID,
		Email:     tok.Email,
		Name:      tok.Name,
		AuthTime:  tok.AuthTime,
		IssuedAt:  tok.IssuedAt,
		ExpiresAt: tok.ExpiresAt,
	}, nil
}

// Current resolves the identity behind the cookie in cs, or nil. It never
// fails: provider faults are logged and read as "no identity". With
// clearOnReject a revoked, expired or forged cookie is removed from cs; a
// provider fault leaves it alone.
func (s *SessionService) Current(ctx context.Context, cs CookieStore, clearOnReject bool) *domain.Identity {
	id, err := s.Verify(ctx, cs.Value())
	switch {
	case err == nil:
		return id
	case errors.Is(err, ErrNoSession):
	case errors.Is(err, ErrRevokedOrExpiredSession):
		slogx.FromContext(ctx).Debug("session cookie rejected", slog.Any("error", err))
		if clearOnReject {
			cs.Clear()
		}
	default:
		slogx.FromContext(ctx).Warn("session verification failed", slog.Any("error", err))
	}
	return nil
}

// Teardown logs the caller out: the cookie in cs is always cleared, whatever
// else happens. The subject is resolved best-effort and, when RevokeOnLogout
// is set, all of its sessions are revoked.
func (s *SessionService) Teardown(ctx context.Context, cs CookieStore) (*TeardownResult, error) {
	cookie := cs.Value()
	cs.Clear()

	res := &TeardownResult{}

	id, err := s.Verify(ctx, cookie)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			slogx.FromContext(ctx).Debug("logout without a valid session", slog.Any("error", err))
		}
		return res, nil
	}
	res.UID = id.UID

	if !s.RevokeOnLogout {
		return res, nil
	}
	if err := s.RevokeAll(ctx, id.UID); err != nil {
		return res, err
	}
	res.Revoked = true
	return res, nil
}

// RevokeAll invalidates every session uid holds, on every device.
func (s *SessionService) RevokeAll(ctx context.Context, uid string) error {
	if uid == "" {
		return ErrNoSession
	}
	if s.Provider == nil {
		return ErrBackendUnavailable
	}

	if err := s.Provider.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("%w: %w", ErrProviderFault, err)
	}
	return nil
}
