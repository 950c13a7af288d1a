// Package replay makes ID tokens single-use: once an assertion has been
// exchanged for a session cookie it cannot be exchanged again.
package replay

import (
	"context"
	"errors"
	"time"

	"github.com/woavlite/woav/pkg/cryptox"
)

var ErrReplayed = errors.New("replay: assertion already used")

// Guard records consumed assertions until they expire.
type Guard interface {
	// Consume marks jti as used. It returns ErrReplayed when jti was
	// consumed before.
	Consume(ctx context.Context, jti string, expiresAt time.Time) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// key hides raw jti values from the backing store.
func key(jti string) string {
	return cryptox.FingerprintToken(jti)
}
