package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/woavlite/woav/internal/woav/store"
	"github.com/woavlite/woav/pkg/cryptox"
	"github.com/woavlite/woav/pkg/jwtx"
)

// InitSigningKeys builds the KeyManager that signs ID tokens and session
// cookies.
//
// Storage modes:
//   - "ephemeral": keys live in memory and every session dies on restart.
//   - "persistent": keys are sealed with the master key and stored in the
//     provider database, so sessions survive restarts.
func InitSigningKeys(ctx context.Context, cfg Config, db store.Store, logger *slog.Logger) (*jwtx.KeyManager, error) {
	if cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(cfg.MasterKeyPath)
		logger.Info("master key path configured", "path", cfg.MasterKeyPath)
	}

	switch cfg.KeyStorageMode {
	case KeyStoragePersistent:
		km, err := jwtx.NewPersistentKeyManager(ctx, jwtx.PersistentKeyManagerOptions{
			Store:     store.NewKeyStoreAdapter(db),
			Algorithm: cfg.Algorithm,
			NumKeys:   cfg.NumKeys,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize persistent key manager: %w", err)
		}

		logger.Info("persistent signing keys loaded",
			"algorithm", km.Algorithm(),
			"num_keys", km.NumSigners(),
			"grace_period", cfg.KeyGracePeriod,
		)
		return km, nil

	case KeyStorageEphemeral, "":
		km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
			Algorithm: cfg.Algorithm,
			NumKeys:   cfg.NumKeys,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ephemeral key manager: %w", err)
		}

		logger.Info("generated ephemeral signing keys",
			"algorithm", km.Algorithm(),
			"num_keys", km.NumSigners(),
		)
		logger.Warn("ephemeral keys: every existing session is now invalid")
		return km, nil

	default:
		return nil, fmt.Errorf("unknown key storage mode %q", cfg.KeyStorageMode)
	}
}
