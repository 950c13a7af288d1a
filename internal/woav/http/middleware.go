package http

import (
	"context"
	"net/http"

	"github.com/woavlite/woav/internal/woav/domain"
	"github.com/woavlite/woav/internal/woav/service"
	"github.com/woavlite/woav/pkg/httpx"
	"github.com/woavlite/woav/pkg/slogx"
	"github.com/woavlite/woav/pkg/woavsdk"
)

type identityKey struct{}

// IdentityFromContext returns the identity RequireSession resolved.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*domain.Identity)
	return id, ok && id != nil
}

// RequireSession rejects requests without a valid session cookie with 401
// and clears a rejected cookie. On success the identity, its uid and a
// uid-tagged logger are placed in the request context.
func RequireSession(sessions *service.SessionService, opts httpx.CookieOptions) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessions.Current(r.Context(), RequestCookies(w, r, opts), true)
			if id == nil {
				woavsdk.ErrNotAuthenticated.WriteError(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, id)
			ctx = httpx.WithUserID(ctx, id.UID)
			ctx = slogx.WithUID(ctx, id.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
