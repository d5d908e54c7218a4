package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/port"
)

func TestMemoryTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	m := NewMemory(time.Hour)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "a", "1"))
	now = now.Add(30 * time.Minute)
	require.NoError(t, m.Set(ctx, "b", "2"))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	now = now.Add(31 * time.Minute)
	_, err = m.Get(ctx, "a")
	assert.ErrorIs(t, err, port.ErrNotFound)

	removed, err := m.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, m.Len())

	got, err = m.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestMemoryNoTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	m := NewMemory(0)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", "v"))
	now = now.Add(1000 * time.Hour)

	removed, err := m.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
