// internal/domain/session/entity.go
package session

import (
	"errors"
	"strings"

	"github.com/your-org/bookstore-backend/internal/domain/catalog"
)

// Keys stored in each session's key-value namespace
const (
	KeyUser        = "user"
	KeyReturnRoute = "returnRoute"
	KeyPendingBook = "pendingBookToAdd"
)

// Return routes used by the storefront screens
const (
	DefaultReturnRoute = "/(tabs)"
	RouteBookList      = "/(tabs)/libros/lista"
	RouteCart          = "/(tabs)/carrito"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("user already exists")
	ErrNotSignedIn        = errors.New("not signed in")
)

// User is the signed-in profile
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// FullName returns "name surname" without stray spaces
func (u User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}

// LoginResult tells the client where to go after signing in
type LoginResult struct {
	User        User          `json:"user"`
	ReturnRoute string        `json:"return_route"`
	AddedBook   *catalog.Book `json:"added_book,omitempty"`
}

// RegisterRequest represents the registration form
type RegisterRequest struct {
	Username string `json:"username" binding:"required,notblank"`
	Password string `json:"password" binding:"required,notblank"`
	Name     string `json:"name" binding:"required,notblank"`
	Surname  string `json:"surname" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,notblank,email"`
	Phone    string `json:"phone" binding:"required,notblank"`
}

// ProfileUpdate holds the profile fields to change. Nil fields are kept.
type ProfileUpdate struct {
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
}

// Normalize trims the surrounding whitespace of every field
func (r *RegisterRequest) Normalize() {
	for _, field := range []*string{&r.Username, &r.Password, &r.Name, &r.Surname, &r.Email, &r.Phone} {
		*field = strings.TrimSpace(*field)
	}
}
