package cart_test

import (
	"context"
	"errors"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/infrastructure/kvstore"
	"github.com/your-org/bookstore-backend/internal/port"
)

var errStoreDown = errors.New("store is down")

// flakyKV wraps a memory store and can be told to fail
type flakyKV struct {
	*kvstore.Memory

	mu      sync.Mutex
	failGet bool
	failSet bool
	sets    int
}

func newFlakyKV() *flakyKV {
	return &flakyKV{Memory: kvstore.NewMemory(0)}
}

func (f *flakyKV) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return "", errStoreDown
	}
	return f.Memory.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	f.sets++
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *flakyKV) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

func (f *flakyKV) failSets(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSet = fail
}

func (f *flakyKV) failGets(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet = fail
}

var _ port.KeyValueStore = (*flakyKV)(nil)

func fakeBook(id int64) catalog.Book {
	author := catalog.NameRef(gofakeit.Name())
	return catalog.Book{
		ID:     id,
		Title:  gofakeit.BookTitle(),
		Price:  decimal.NewFromFloat(gofakeit.Price(1, 80)).Round(2),
		Author: &author,
	}
}

func book(id int64, title, price string) catalog.Book {
	return catalog.Book{
		ID:    id,
		Title: title,
		Price: decimal.RequireFromString(price),
	}
}
