package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/woavlite/woav/internal/woav/domain"
	"github.com/woavlite/woav/internal/woav/store"
	"github.com/woavlite/woav/pkg/idx"
	"github.com/woavlite/woav/pkg/jwtx"
	"github.com/woavlite/woav/pkg/slogx"
)

// LocalProvider is the in-process identity platform. ID tokens are issued by
// Issuer; session cookies by Issuer+"/session". Both are scoped to ProjectID.
type LocalProvider struct {
	KeyManager *jwtx.KeyManager
	Store      store.Store
	Issuer     string
	ProjectID  string

	// Now overrides the clock, for tests.
	Now func() time.Time
}

var _ Provider = (*LocalProvider)(nil)

func (p *LocalProvider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *LocalProvider) verifier(issuer string) *jwtx.Verifier {
	return p.KeyManager.Verifier(jwtx.VerifyOptions{
		Issuer:   issuer,
		Audience: p.ProjectID,
		Now:      p.now,
	})
}

func (p *LocalProvider) sessionIssuer() string { return p.Issuer + sessionIssuerSuffix }

// VerifyIDToken verifies idToken and checks that its user can still sign in.
func (p *LocalProvider) VerifyIDToken(ctx context.Context, idToken string) (*Token, error) {
	claims, err := p.verifier(p.Issuer).Verify(idToken)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return nil, fmt.Errorf("%w: %v", ErrIDTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrIDTokenInvalid, err)
	}
	if claims.AuthTime == nil || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing auth_time or jti", ErrIDTokenInvalid)
	}

	u, err := p.user(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if u.Revokes(claims.AuthTimeValue()) {
		return nil, ErrIDTokenRevoked
	}

	return tokenFromClaims(claims), nil
}

// SessionCookie mints a session cookie carrying the ID token's subject and
// auth_time.
func (p *LocalProvider) SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error) {
	if expiresIn < MinSessionDuration || expiresIn > MaxSessionDuration {
		return "", ErrInvalidSessionDuration
	}

	tok, err := p.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}

	claims := jwtx.NewClaims(p.sessionIssuer(), p.ProjectID, tok.UID, tok.AuthTime, expiresIn, p.now())
	claims.Email = tok.Email
	claims.Name = tok.Name
	claims.SignInProvider = tok.SignInProvider

	cookie, err := p.KeyManager.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("identity: sign session cookie: %w", err)
	}

	slogx.FromContext(ctx).Debug("session cookie minted",
		slog.String("uid", tok.UID),
		slog.Duration("expires_in", expiresIn),
	)
	return cookie, nil
}

// VerifySessionCookie verifies cookie and, with checkRevoked, rejects it once
// the user's sessions were revoked or the account is disabled or gone.
func (p *LocalProvider) VerifySessionCookie(ctx context.Context, cookie string, checkRevoked bool) (*Token, error) {
	claims, err := p.verifier(p.sessionIssuer()).Verify(cookie)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return nil, fmt.Errorf("%w: %v", ErrSessionCookieExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionCookieInvalid, err)
	}
	if claims.AuthTime == nil {
		return nil, fmt.Errorf("%w: missing auth_time", ErrSessionCookieInvalid)
	}

	if checkRevoked {
		u, err := p.user(ctx, claims.Subject)
		if err != nil {
			return nil, err
		}
		if u.Revokes(claims.AuthTimeValue()) {
			return nil, ErrSessionCookieRevoked
		}
	}

	return tokenFromClaims(claims), nil
}

// RevokeRefreshTokens moves the user's revocation cutoff past now. Anything
// authenticated up to this second stops verifying with checkRevoked.
func (p *LocalProvider) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if _, err := idx.Parse(uid); err != nil {
		return ErrUserNotFound
	}
	cutoff := p.now().UTC().Truncate(time.Second).Add(time.Second)

	if err := p.Store.Users().SetTokensValidAfter(ctx, uid, cutoff); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("identity: revoke sessions: %w", err)
	}

	slogx.FromContext(ctx).Info("sessions revoked",
		slog.String("uid", uid),
		slog.Time("valid_after", cutoff),
	)
	return nil
}

// user loads an account that is allowed to hold credentials.
func (p *LocalProvider) user(ctx context.Context, uid string) (domain.User, error) {
	if _, err := idx.Parse(uid); err != nil {
		return domain.User{}, ErrUserNotFound
	}

	u, err := p.Store.Users().GetUserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("identity: load user: %w", err)
	}
	if u.Disabled {
		return domain.User{}, ErrUserDisabled
	}
	return u, nil
}

func tokenFromClaims(c *jwtx.Claims) *Token {
	return &Token{
		UID:            c.Subject,
		Email:          c.Email,
		Name:           c.Name,
		SignInProvider: c.SignInProvider,
		ID:             c.ID,
		AuthTime:       c.AuthTimeValue(),
		IssuedAt:       c.IssuedAtValue(),
		ExpiresAt:      c.ExpiresAtValue(),
	}
}
