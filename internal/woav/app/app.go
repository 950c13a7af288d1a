package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	httpapi "github.com/woavlite/woav/internal/woav/http"
	"github.com/woavlite/woav/internal/woav/identity"
	"github.com/woavlite/woav/internal/woav/replay"
	"github.com/woavlite/woav/internal/woav/service"
	"github.com/woavlite/woav/internal/woav/store"
	"github.com/woavlite/woav/internal/woav/store/drivers/sqlite"
	"github.com/woavlite/woav/pkg/cryptox"
	"github.com/woavlite/woav/pkg/jwtx"
	"github.com/woavlite/woav/pkg/slogx"
)

// BuildVersion is overridden at build time with -ldflags.
var BuildVersion = "v0.1.0"

// Application is the session service with every dependency wired in.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db          store.Store
	redis       *redis.Client // nil unless the redis replay backend is used
	keyManager  *jwtx.KeyManager
	provider    *identity.LocalProvider // nil when the provider could not start
	replayGuard replay.Guard

	sessionService      *service.SessionService
	accounts            *identity.Accounts
	keyRotationService  *service.KeyRotationService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New builds the application. Only a database failure is fatal: without an
// identity provider the service still serves and reports itself degraded.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "woav-session",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initReplay(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initProvider(context.Background())
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run serves until SIGINT/SIGTERM or a server error.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("session service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains HTTP, stops housekeeping and closes the backends.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down session service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("session service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore("file:" + app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initReplay() error {
	switch app.cfg.ReplayBackend {
	case ReplayBackendRedis:
		app.redis = replay.NewRedisClient(app.cfg.RedisAddr, app.cfg.RedisPassword, app.cfg.RedisDB)
		app.replayGuard = &replay.RedisGuard{Client: app.redis}
		app.logger.Info("replay guard using redis", "addr", app.cfg.RedisAddr)
	case ReplayBackendSQLite, "":
		app.replayGuard = &replay.StoreGuard{Store: app.db}
	default:
		return fmt.Errorf("unknown replay backend %q", app.cfg.ReplayBackend)
	}
	return nil
}

// initProvider starts the local identity provider. Failures are logged and
// leave the provider nil.
func (app *Application) initProvider(ctx context.Context) {
	km, err := InitSigningKeys(ctx, app.cfg, app.db, app.logger)
	if err != nil {
		app.logger.Error("identity provider unavailable: signing keys", "error", err)
		return
	}
	app.keyManager = km

	if app.cfg.ProjectID == "" {
		app.logger.Error("identity provider unavailable: WOAV_PROJECT_ID is not set")
		return
	}

	app.provider = &identity.LocalProvider{
		KeyManager: km,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		ProjectID:  app.cfg.ProjectID,
	}
	app.accounts = &identity.Accounts{Provider: app.provider}
	app.logger.Info("identity provider ready", "issuer", app.cfg.Issuer, "project_id", app.cfg.ProjectID)
}

func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Replay:         app.replayGuard,
		RevokeOnLogout: app.cfg.RevokeOnLogout,
	}
	// Assigned only when set so the interface stays nil instead of holding a
	// typed nil pointer.
	if app.provider != nil {
		app.sessionService.Provider = app.provider
	}

	if app.keyManager != nil {
		rotation := &service.KeyRotationService{
			KeyManager:  app.keyManager,
			Algorithm:   app.cfg.Algorithm,
			GracePeriod: app.cfg.KeyGracePeriod,
			Logger:      app.logger,
		}
		if app.cfg.KeyStorageMode == KeyStoragePersistent {
			rotation.Store = app.db
		}
		app.keyRotationService = rotation
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.keyRotationService,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.KeyRotationPeriod,
	)
}

func (app *Application) initHTTP() {
	var keys *jwtx.KeySet
	if app.keyManager != nil {
		keys = app.keyManager.KeySet()
	}

	router := httpapi.NewRouter(
		keys,
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.CookieOptions(),
		app.cfg.RateLimits,
	)
	router.SessionService = app.sessionService
	router.Accounts = app.accounts
	router.Replay = app.replayGuard
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
