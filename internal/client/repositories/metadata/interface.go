// Package metadata is the local key/value store of the client. It holds the
// session tokens and nothing else.
package metadata

import (
	"context"
)

// Repository is a string key/value store.
// Get returns common.ErrorNotFound for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
