// Package repositories persists the store snapshot as a set of named JSON
// values.
package repositories

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore holds opaque values by key. PutAll must apply all entries or
// none where the backend allows it.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	PutAll(ctx context.Context, entries map[string][]byte) error
	DeleteAll(ctx context.Context, keys []string) error
	Close() error
}
