// internal/domain/session/session.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/port"
)

// Session is the state of one storefront client: its profile, its cart and
// its own view of the key-value store.
type Session struct {
	id       string
	kv       port.KeyValueStore
	cart     *cart.Store
	creds    *Credentials
	feedback port.Feedback
	log      logrus.FieldLogger

	loadOnce sync.Once

	// inUse counts requests holding the session; guarded by Manager.mu
	inUse int

	mu       sync.RWMutex
	user     *User
	lastSeen time.Time
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// KV returns the session's key-value namespace
func (s *Session) KV() port.KeyValueStore {
	return s.kv
}

// Cart returns the session's cart store
func (s *Session) Cart() *cart.Store {
	return s.cart
}

// User returns the signed-in profile
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// IsSignedIn reports whether a user is signed in
func (s *Session) IsSignedIn() bool {
	_, ok := s.User()
	return ok
}

// Login signs the demo user in. On success the cart is emptied, a book left
// pending before sign-in is added, and the saved return route is consumed.
func (s *Session) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if !s.creds.Check(username, password) {
		s.feedback.Error(ctx)
		return nil, ErrInvalidCredentials
	}

	if err := s.cart.Clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset cart: %w", err)
	}

	profile := s.creds.Profile()
	if err := s.setUser(ctx, &profile); err != nil {
		return nil, err
	}

	result := &LoginResult{
		User:        profile,
		ReturnRoute: DefaultReturnRoute,
	}

	book, err := s.takePendingBook(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Failed to read pending book")
	}
	if book != nil {
		if err := s.cart.AddItem(ctx, *book); err != nil {
			s.log.WithError(err).WithField("book_id", book.ID).Error("Failed to add pending book")
		} else {
			result.AddedBook = book
		}
	}

	route, err := s.take(ctx, KeyReturnRoute)
	if err != nil {
		s.log.WithError(err).Warn("Failed to read return route")
	}
	if route != "" {
		result.ReturnRoute = route
	}

	s.feedback.Success(ctx)
	s.log.WithField("username", profile.Username).Info("User signed in")

	return result, nil
}

// Register signs a new profile in. The demo username is already taken.
// Required fields are checked when the request is bound.
func (s *Session) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Normalize()

	if s.creds.Taken(req.Username) {
		s.feedback.Error(ctx)
		return nil, ErrUserExists
	}

	user := &User{
		Username: normalizeUsername(req.Username),
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if err := s.setUser(ctx, user); err != nil {
		return nil, err
	}

	s.feedback.Success(ctx)
	return user, nil
}

// Logout empties the cart and signs the user out
func (s *Session) Logout(ctx context.Context) error {
	if err := s.cart.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return s.setUser(ctx, nil)
}

// UpdateProfile merges the non-nil fields into the signed-in profile
func (s *Session) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	current, ok := s.User()
	if !ok {
		return nil, ErrNotSignedIn
	}

	if update.Name != nil {
		current.Name = *update.Name
	}
	if update.Surname != nil {
		current.Surname = *update.Surname
	}
	if update.Email != nil {
		current.Email = *update.Email
	}
	if update.Phone != nil {
		current.Phone = *update.Phone
	}

	if err := s.setUser(ctx, &current); err != nil {
		return nil, err
	}

	s.feedback.Success(ctx)
	return &current, nil
}

// SetPendingBook remembers a book to add to the cart after sign-in
func (s *Session) SetPendingBook(ctx context.Context, book catalog.Book) error {
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("failed to encode pending book: %w", err)
	}
	if err := s.kv.Set(ctx, KeyPendingBook, string(data)); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}
	return nil
}

// SetReturnRoute remembers where to go after sign-in
func (s *Session) SetReturnRoute(ctx context.Context, route string) error {
	if err := s.kv.Set(ctx, KeyReturnRoute, route); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}
	return nil
}

// load restores the persisted profile and cart. Failures are logged and the
// session starts anonymous or with an empty cart.
func (s *Session) load(ctx context.Context) {
	s.loadOnce.Do(func() {
		ctx := context.WithoutCancel(ctx)

		raw, err := s.kv.Get(ctx, KeyUser)
		switch {
		case err == nil:
			var user User
			if err := json.Unmarshal([]byte(raw), &user); err != nil {
				s.log.WithError(err).Warn("Discarding unreadable user profile")
			} else {
				s.mu.Lock()
				s.user = &user
				s.mu.Unlock()
			}
		case !errors.Is(err, port.ErrNotFound):
			s.log.WithError(err).Warn("Failed to load user profile")
		}

		if _, err := s.cart.Load(ctx); err != nil {
			s.log.WithError(err).Warn("Failed to load cart, starting empty")
		}
	})
}

func (s *Session) setUser(ctx context.Context, user *User) error {
	if user == nil {
		if err := s.kv.Remove(ctx, KeyUser); err != nil {
			return fmt.Errorf("kv.Remove: %w", err)
		}
	} else {
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
		if err := s.kv.Set(ctx, KeyUser, string(data)); err != nil {
			return fmt.Errorf("kv.Set: %w", err)
		}
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// take reads a value and removes it. An absent key yields "".
func (s *Session) take(ctx context.Context, key string) (string, error) {
	value, err := s.kv.Get(ctx, key)
	if errors.Is(err, port.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("kv.Get: %w", err)
	}

	if err := s.kv.Remove(ctx, key); err != nil {
		return value, fmt.Errorf("kv.Remove: %w", err)
	}
	return value, nil
}

func (s *Session) takePendingBook(ctx context.Context) (*catalog.Book, error) {
	raw, err := s.take(ctx, KeyPendingBook)
	if raw == "" {
		return nil, err
	}

	var book catalog.Book
	if err := json.Unmarshal([]byte(raw), &book); err != nil {
		return nil, fmt.Errorf("failed to decode pending book: %w", err)
	}
	return &book, err
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(s.lastSeen)
}
