package store

import (
	"context"
	"errors"
	"time"

	"github.com/woavlite/woav/internal/woav/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the provider's data access root. Drivers implement it; the repos
// hang off it so a Tx can hand out the same repos bound to a transaction.
type Store interface {
	Users() Users
	Assertions() Assertions
	SigningKeys() SigningKeys

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller must Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a Store bound to one transaction.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser fails with ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// SetTokensValidAfter moves the revocation cutoff for a user.
	SetTokensValidAfter(ctx context.Context, id string, at time.Time) error

	SetDisabled(ctx context.Context, id string, disabled bool) error
	DeleteUser(ctx context.Context, id string) error
}

// Assertions is the single-use ledger for exchanged ID tokens.
type Assertions interface {
	// ConsumeAssertion records key and reports whether it was new. A key seen
	// before returns false without error.
	ConsumeAssertion(ctx context.Context, key string, expiresAt time.Time) (bool, error)

	// DeleteExpiredAssertions drops entries whose tokens can no longer
	// verify anyway.
	DeleteExpiredAssertions(ctx context.Context, now time.Time) (int64, error)
}

type SigningKeys interface {
	CreateSigningKey(ctx context.Context, key domain.SigningKey) error
	GetSigningKeyByKid(ctx context.Context, kid string) (domain.SigningKey, error)

	// ListAllSigningKeys returns every stored key, newest first.
	ListAllSigningKeys(ctx context.Context) ([]domain.SigningKey, error)

	// ListActiveSigningKeys returns keys that have not been retired, newest
	// first.
	ListActiveSigningKeys(ctx context.Context) ([]domain.SigningKey, error)

	// RetireSigningKey stops a key signing; it keeps verifying until
	// expiresAt.
	RetireSigningKey(ctx context.Context, kid string, retiredAt, expiresAt time.Time) error

	DeleteExpiredSigningKeys(ctx context.Context, now time.Time) (int64, error)
}
