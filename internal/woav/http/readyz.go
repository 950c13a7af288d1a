package http

import (
	"net/http"
	"time"

	"github.com/woavlite/woav/internal/woav/replay"
	"github.com/woavlite/woav/internal/woav/service"
	"github.com/woavlite/woav/internal/woav/store"
	"github.com/woavlite/woav/pkg/httpx"
	"github.com/woavlite/woav/pkg/jwtx"
	"github.com/woavlite/woav/pkg/woavsdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the provider database, the signing keys, the identity provider and the replay ledger
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	woavsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	woavsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get]
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
	sessions *service.SessionService,
	guard replay.Guard,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &woavsdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
			Identity: "ok",
			Replay:   "ok",
		}
		status := "ok"
		code := http.StatusOK
		degrade := func(field *string, msg string) {
			*field = "error: " + msg
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if st == nil {
			degrade(&checks.Database, "not configured")
		} else if err := st.Ping(r.Context()); err != nil {
			degrade(&checks.Database, err.Error())
		}

		if keys == nil || !keys.IsReady() {
			degrade(&checks.Signer, "no keys loaded")
		}

		if sessions == nil || sessions.Provider == nil {
			degrade(&checks.Identity, "identity provider is not configured")
		}

		if guard == nil {
			checks.Replay = "disabled"
		} else if err := guard.Ping(r.Context()); err != nil {
			degrade(&checks.Replay, err.Error())
		}

		httpx.WriteJSON(w, code, woavsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
