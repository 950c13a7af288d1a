package sqlite

import (
	"context"
	"time"

	"github.com/woavlite/woav/internal/woav/store/drivers/sqlite/gen"
)

type assertionsRepo struct {
	q *gen.Queries
}

func (r *assertionsRepo) ConsumeAssertion(ctx context.Context, key string, expiresAt time.Time) (bool, error) {
	n, err := r.q.ConsumeAssertion(ctx, gen.ConsumeAssertionParams{
		AssertionKey: key,
		ExpiresAt:    expiresAt.Unix(),
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *assertionsRepo) DeleteExpiredAssertions(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredAssertions(ctx, now.Unix())
}
