package app

import (
	"os"
	"strconv"
	"time"

	"github.com/woavlite/woav/internal/woav/service"
	"github.com/woavlite/woav/pkg/httpx"
)

const (
	KeyStorageEphemeral  = "ephemeral"
	KeyStoragePersistent = "persistent"

	ReplayBackendSQLite = "sqlite"
	ReplayBackendRedis  = "redis"
)

type Config struct {
	Issuer    string // Optional: issuer of ID tokens (default: woav-identity)
	ProjectID string // Required for issuance: audience of ID tokens and session cookies

	Algorithm         string        // Optional: signing algorithm (EdDSA, ES256) (default: EdDSA)
	NumKeys           int           // Optional: active signing keys (default: 3, min: 1, max: 10)
	KeyStorageMode    string        // Optional: ephemeral or persistent (default: ephemeral)
	KeyGracePeriod    time.Duration // Optional: how long retired keys still verify (default: 14 days)
	KeyRotationPeriod time.Duration // Optional: automatic rotation interval, 0 disables (default: 0)
	MasterKeyPath     string        // Optional: master key file sealing persistent keys
	DatabaseFile      string        // Optional: SQLite database path (default: woav.db)
	PepperFile        string        // Optional: password pepper file (default: pepper)

	ReplayBackend string // Optional: sqlite or redis (default: sqlite)
	RedisAddr     string // Required for the redis backend (default: localhost:6379)
	RedisPassword string
	RedisDB       int

	RevokeOnLogout bool // Optional: logout revokes every session of the user (default: false)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	RateLimits httpx.RateLimitProfiles
}

func LoadConfig() Config {
	return Config{
		Issuer:            getEnvOrDefault("WOAV_ISSUER", "woav-identity"),
		ProjectID:         os.Getenv("WOAV_PROJECT_ID"),
		Algorithm:         getEnvOrDefault("WOAV_ALGORITHM", "EdDSA"),
		NumKeys:           getEnvIntOrDefault("WOAV_NUM_KEYS", 0),
		KeyStorageMode:    getEnvOrDefault("WOAV_KEY_STORAGE_MODE", KeyStorageEphemeral),
		KeyGracePeriod:    getEnvDurationOrDefault("WOAV_KEY_GRACE_PERIOD", service.DefaultKeyGracePeriod),
		KeyRotationPeriod: getEnvDurationOrDefault("WOAV_KEY_ROTATION_INTERVAL", 0),
		MasterKeyPath:     os.Getenv("WOAV_MASTER_KEY_PATH"),
		DatabaseFile:      getEnvOrDefault("WOAV_DATABASE_FILE", "woav.db"),
		PepperFile:        getEnvOrDefault("WOAV_PEPPER_FILE", "pepper"),

		ReplayBackend: getEnvOrDefault("WOAV_REPLAY_BACKEND", ReplayBackendSQLite),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),

		RevokeOnLogout: getEnvBoolOrDefault("WOAV_REVOKE_ON_LOGOUT", false),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),

		RateLimits: httpx.RateLimitProfilesFromEnv(),
	}
}

// CookieOptions are the session cookie attributes for this environment.
func (c Config) CookieOptions() httpx.CookieOptions {
	return httpx.CookieOptions{Secure: c.Env == "prod"}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
