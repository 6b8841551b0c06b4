// Package metadata stores opaque values under string keys. It backs both the
// session area (table metadata in its own database) and the record store's
// session collection.
package metadata

import (
	"context"
)

// Repository is a key/value table. Get returns (nil, nil) for absent keys.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
