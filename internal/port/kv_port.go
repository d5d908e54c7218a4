package port

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KeyValueStore.Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// KeyValueStore is the persisted single-value store behind session state
// (cart snapshot, checkout form, return route, pending book).
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
