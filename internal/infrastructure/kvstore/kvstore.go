// internal/infrastructure/kvstore/kvstore.go
package kvstore

import (
	"context"

	"github.com/your-org/bookstore-backend/internal/port"
)

// Store is a key-value store that can drop its expired keys
type Store interface {
	port.KeyValueStore
	PurgeExpired(ctx context.Context) (int64, error)
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Redis)(nil)
	_ Store = (*Postgres)(nil)

	_ port.KeyValueStore = (*Scoped)(nil)
)
