package sqlite

import (
	"context"
	"time"

	"github.com/woavlite/woav/internal/woav/domain"
	"github.com/woavlite/woav/internal/woav/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:               u.ID,
		Email:            u.Email,
		DisplayName:      u.DisplayName,
		PasswordHash:     u.PasswordHash,
		Disabled:         u.Disabled,
		TokensValidAfter: unixOrZero(u.TokensValidAfter),
		CreatedAt:        u.CreatedAt.Unix(),
		UpdatedAt:        u.UpdatedAt.Unix(),
	})
	return mapConstraint(err)
}

func (r *usersRepo) SetTokensValidAfter(ctx context.Context, id string, at time.Time) error {
	return requireRow(r.q.SetUserTokensValidAfter(ctx, gen.SetUserTokensValidAfterParams{
		TokensValidAfter: at.Unix(),
		UpdatedAt:        time.Now().UTC().Unix(),
		ID:               id,
	}))
}

func (r *usersRepo) SetDisabled(ctx context.Context, id string, disabled bool) error {
	return requireRow(r.q.SetUserDisabled(ctx, gen.SetUserDisabledParams{
		Disabled:  disabled,
		UpdatedAt: time.Now().UTC().Unix(),
		ID:        id,
	}))
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) error {
	return requireRow(r.q.DeleteUser(ctx, id))
}
