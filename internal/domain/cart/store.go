// internal/domain/cart/store.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/port"
)

// SnapshotKey is the key the cart is persisted under
const SnapshotKey = "carrito"

// State is the lifecycle state of a Store
type State int

const (
	StateLoading State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "loading"
}

// Store owns the in-memory cart of one session and keeps it in sync with
// the persisted snapshot. Operations are serialized: each one computes the
// next cart, persists it and only then swaps it in.
type Store struct {
	kv       port.KeyValueStore
	feedback port.Feedback
	log      logrus.FieldLogger

	// opMu is held for the whole compute, persist, swap sequence
	opMu sync.Mutex

	mu    sync.RWMutex
	cart  Cart
	state State
}

// NewStore creates a cart store. The cart is empty until Load is called.
func NewStore(kv port.KeyValueStore, feedback port.Feedback, log logrus.FieldLogger) *Store {
	return &Store{
		kv:       kv,
		feedback: feedback,
		log:      log,
		cart:     Cart{},
		state:    StateLoading,
	}
}

// Load replaces the in-memory cart with the persisted snapshot. An absent
// snapshot yields an empty cart. On a read or decode failure the in-memory
// cart is left empty and the error is returned for the caller to log.
func (s *Store) Load(ctx context.Context) (Cart, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	raw, err := s.kv.Get(ctx, SnapshotKey)
	if err != nil {
		s.swap(Cart{})
		if errors.Is(err, port.ErrNotFound) {
			return Cart{}, nil
		}
		return Cart{}, fmt.Errorf("kv.Get: %w", err)
	}

	loaded, err := DecodeSnapshot(raw)
	if err != nil {
		s.swap(Cart{})
		return Cart{}, err
	}

	s.swap(loaded)
	return loaded.clone(), nil
}

// AddItem adds one unit of a book. A book already in the cart keeps the
// title and price it was first added with.
func (s *Store) AddItem(ctx context.Context, book catalog.Book) error {
	if book.Price.IsNegative() {
		return ErrInvalidPrice
	}

	err := s.mutate(ctx, "AddItem", func(c Cart) Cart {
		if i := c.index(book.ID); i >= 0 {
			c[i].Quantity++
			return c
		}
		return append(c, NewLine(book))
	})
	if err != nil {
		return err
	}

	s.notify(ctx, s.feedback.Success)
	return nil
}

// RemoveItem deletes the line for id. Removing an absent id succeeds.
func (s *Store) RemoveItem(ctx context.Context, id int64) error {
	err := s.mutate(ctx, "RemoveItem", func(c Cart) Cart {
		out := c[:0]
		for _, line := range c {
			if line.ID != id {
				out = append(out, line)
			}
		}
		return out
	})
	if err != nil {
		return err
	}

	s.notify(ctx, s.feedback.Warning)
	return nil
}

// UpdateQuantity sets the quantity of the line for id. raw must be numeric;
// decimals are truncated toward zero and a result ≤ 0 removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, id int64, raw string) error {
	quantity, err := ParseQuantity(raw)
	if err != nil {
		return err
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, id)
	}

	err = s.mutate(ctx, "UpdateQuantity", func(c Cart) Cart {
		if i := c.index(id); i >= 0 {
			c[i].Quantity = quantity
		}
		return c
	})
	if err != nil {
		return err
	}

	s.notify(ctx, s.feedback.Light)
	return nil
}

// Clear empties the cart and persists the empty list
func (s *Store) Clear(ctx context.Context) error {
	err := s.mutate(ctx, "Clear", func(Cart) Cart {
		return Cart{}
	})
	if err != nil {
		return err
	}

	s.notify(ctx, s.feedback.Warning)
	return nil
}

// Cart returns a copy of the in-memory cart
func (s *Store) Cart() Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.clone()
}

// Total returns the cart total
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Total()
}

// ItemCount returns the number of units in the cart
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.ItemCount()
}

// State reports whether the first Load has completed
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// maxQuantityExponent bounds the decimal exponent accepted before the
// value is expanded. Anything larger is already past math.MaxInt32.
const maxQuantityExponent = 10

// ParseQuantity coerces user input into a quantity. Surrounding whitespace
// is ignored and decimals are truncated toward zero.
func ParseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidQuantity
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, raw)
	}
	if d.IsZero() {
		return 0, nil
	}

	// Decide on the exponent alone so huge exponents are never expanded
	exp := int64(d.Exponent())
	if exp > maxQuantityExponent {
		if d.IsNegative() {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidQuantity, raw)
	}
	// The coefficient has at most len(raw) digits, so |d| < 1 here
	if exp <= -int64(len(raw)) {
		return 0, nil
	}

	d = d.Truncate(0)
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidQuantity, raw)
	}
	if d.IsNegative() {
		return 0, nil
	}

	return int(d.IntPart()), nil
}

// Drain hands the current cart to commit and empties it once commit
// succeeds, all under the operation lock. A failing commit leaves the cart
// untouched and its error is returned.
func (s *Store) Drain(ctx context.Context, commit func(Cart) error) (Cart, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	drained := s.Cart()
	if err := commit(drained.clone()); err != nil {
		return nil, err
	}

	raw, err := EncodeSnapshot(Cart{})
	if err != nil {
		return nil, fmt.Errorf("cart.Drain: %w", err)
	}
	if err := s.kv.Set(ctx, SnapshotKey, raw); err != nil {
		s.log.WithError(err).WithField("lines", len(drained)).Error("Failed to persist drained cart")
		return nil, fmt.Errorf("kv.Set: %w", err)
	}

	s.swap(Cart{})
	return drained, nil
}

func (s *Store) mutate(ctx context.Context, op string, fn func(Cart) Cart) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next := fn(s.Cart())

	raw, err := EncodeSnapshot(next)
	if err != nil {
		return fmt.Errorf("cart.%s: %w", op, err)
	}

	if err := s.kv.Set(ctx, SnapshotKey, raw); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"operation": op,
			"lines":     len(next),
		}).Error("Failed to persist cart")
		return fmt.Errorf("kv.Set: %w", err)
	}

	s.swap(next)
	return nil
}

func (s *Store) swap(c Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = c
	s.state = StateReady
}

// notify fires a feedback cue. A panicking cue never reaches the caller.
func (s *Store) notify(ctx context.Context, cue func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Warn("Feedback cue panicked")
		}
	}()
	cue(ctx)
}
