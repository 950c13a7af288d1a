package replay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "woav:assertion:"

// RedisGuard keeps the ledger in redis with SET NX. Entries expire on their
// own once the assertion itself has expired.
type RedisGuard struct {
	Client redis.UniversalClient

	// Now overrides the clock, for tests.
	Now func() time.Time
}

var _ Guard = (*RedisGuard)(nil)

// NewRedisClient builds a client from connection settings.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (g *RedisGuard) Consume(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return errors.New("replay: empty jti")
	}

	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}

	// An already expired assertion still needs an entry; the token verifier
	// rejects it anyway, so a second is plenty.
	ttl := max(expiresAt.Sub(now), time.Second)

	ok, err := g.Client.SetNX(ctx, redisKeyPrefix+key(jti), 1, ttl).Result()
	if err != nil {
		return fmt.Errorf("replay: record assertion: %w", err)
	}
	if !ok {
		return ErrReplayed
	}
	return nil
}

func (g *RedisGuard) Ping(ctx context.Context) error {
	return g.Client.Ping(ctx).Err()
}
