package replay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/woavlite/woav/internal/woav/store"
)

// StoreGuard keeps the ledger in the provider database. Expired entries are
// purged by housekeeping.
type StoreGuard struct {
	Store store.Store
}

var _ Guard = (*StoreGuard)(nil)

func (g *StoreGuard) Consume(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return errors.New("replay: empty jti")
	}

	fresh, err := g.Store.Assertions().ConsumeAssertion(ctx, key(jti), expiresAt)
	if err != nil {
		return fmt.Errorf("replay: record assertion: %w", err)
	}
	if !fresh {
		return ErrReplayed
	}
	return nil
}

func (g *StoreGuard) Ping(ctx context.Context) error {
	return g.Store.Ping(ctx)
}
