package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/woavlite/woav/internal/woav/identity"
	"github.com/woavlite/woav/internal/woav/replay"
	"github.com/woavlite/woav/internal/woav/service"
	"github.com/woavlite/woav/internal/woav/store"
	"github.com/woavlite/woav/pkg/httpx"
	"github.com/woavlite/woav/pkg/jwtx"
	"github.com/woavlite/woav/pkg/slogx"

	_ "github.com/woavlite/woav/api/woav" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet // nil when the identity provider is down
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	cookies      httpx.CookieOptions
	limits       httpx.RateLimitProfiles

	SessionService *service.SessionService
	Accounts       *identity.Accounts // nil when the identity provider is down
	Replay         replay.Guard
}

func NewRouter(
	keys *jwtx.KeySet,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	cookies httpx.CookieOptions,
	limits httpx.RateLimitProfiles,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		cookies:      cookies,
		limits:       limits,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerAccounts()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			WOAV Lite Session API
//	@version		0.1.0
//	@description	Session establishment for WOAV Lite. Clients sign in against the identity endpoints,
//	@description	exchange the resulting ID token for an HttpOnly __session cookie, and present that
//	@description	cookie on every later request.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						__session
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	h := &SessionHandler{Sessions: r.SessionService, Cookies: r.cookies}

	// Issuance accepts credentials: strict.
	r.Mux.Handle("POST /api/auth/session",
		httpx.Chain(http.HandlerFunc(h.HandleIssue),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
	r.Mux.Handle("GET /api/auth/session",
		httpx.Chain(http.HandlerFunc(h.HandleCurrent),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)
	r.Mux.Handle("POST /api/auth/revoke",
		httpx.Chain(http.HandlerFunc(h.HandleRevoke),
			RequireSession(r.SessionService, r.cookies),
			httpx.RateLimitByUser(r.limits.Moderate),
		),
	)
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{Accounts: r.Accounts}

	r.Mux.Handle("POST /identity/v1/accounts:signUp",
		httpx.Chain(http.HandlerFunc(h.HandleSignUp),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
	r.Mux.Handle("POST /identity/v1/accounts:signInWithPassword",
		httpx.Chain(http.HandlerFunc(h.HandleSignIn),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys, r.SessionService, r.Replay),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}
