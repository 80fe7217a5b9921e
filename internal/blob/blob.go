// Package blob stores immutable submission bytes keyed by their checksum.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no bytes exist under the key.
var ErrNotFound = errors.New("blob not found")

// Store is a content-addressed byte store. Put is idempotent for a key and
// a stored blob is never modified afterwards.
type Store interface {
	Put(ctx context.Context, key string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}
