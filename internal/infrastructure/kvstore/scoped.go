// internal/infrastructure/kvstore/scoped.go
package kvstore

import (
	"context"

	"github.com/your-org/bookstore-backend/internal/port"
)

// Scoped prefixes every key, giving each session its own namespace
type Scoped struct {
	inner  port.KeyValueStore
	prefix string
}

// NewScoped creates a view of inner restricted to keys under prefix
func NewScoped(inner port.KeyValueStore, prefix string) *Scoped {
	return &Scoped{inner: inner, prefix: prefix}
}

// SessionPrefix returns the key prefix of a session
func SessionPrefix(sessionID string) string {
	return "session:" + sessionID + ":"
}

func (s *Scoped) Get(ctx context.Context, key string) (string, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *Scoped) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.prefix+key)
}
