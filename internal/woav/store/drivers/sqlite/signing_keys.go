package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/woavlite/woav/internal/woav/domain"
	"github.com/woavlite/woav/internal/woav/store/drivers/sqlite/gen"
)

type signingKeysRepo struct {
	q *gen.Queries
}

func (r *signingKeysRepo) CreateSigningKey(ctx context.Context, key domain.SigningKey) error {
	createdAt := key.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	err := r.q.CreateSigningKey(ctx, gen.CreateSigningKeyParams{
		ID:               key.ID,
		Kid:              key.Kid,
		Algorithm:        key.Algorithm,
		PrivateKeySealed: key.PrivateKeySealed,
		CreatedAt:        createdAt.Unix(),
		RetiredAt:        mapOptionalUnix(key.RetiredAt),
		ExpiresAt:        mapOptionalUnix(key.ExpiresAt),
	})
	return mapConstraint(err)
}

func (r *signingKeysRepo) GetSigningKeyByKid(ctx context.Context, kid string) (domain.SigningKey, error) {
	row, err := r.q.GetSigningKeyByKid(ctx, kid)
	if err != nil {
		return domain.SigningKey{}, mapNotFound(err)
	}
	return mapSigningKey(row), nil
}

func (r *signingKeysRepo) ListAllSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	rows, err := r.q.ListAllSigningKeys(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]domain.SigningKey, len(rows))
	for i, row := range rows {
		keys[i] = mapSigningKey(row)
	}
	return keys, nil
}

func (r *signingKeysRepo) ListActiveSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	rows, err := r.q.ListActiveSigningKeys(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]domain.SigningKey, len(rows))
	for i, row := range rows {
		keys[i] = mapSigningKey(row)
	}
	return keys, nil
}

func (r *signingKeysRepo) RetireSigningKey(ctx context.Context, kid string, retiredAt, expiresAt time.Time) error {
	return requireRow(r.q.RetireSigningKey(ctx, gen.RetireSigningKeyParams{
		RetiredAt: sql.NullInt64{Int64: retiredAt.Unix(), Valid: true},
		ExpiresAt: sql.NullInt64{Int64: expiresAt.Unix(), Valid: true},
		Kid:       kid,
	}))
}

func (r *signingKeysRepo) DeleteExpiredSigningKeys(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredSigningKeys(ctx, sql.NullInt64{Int64: now.Unix(), Valid: true})
}
