// internal/domain/session/credentials.go
package session

import (
	"fmt"
	"strings"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/pkg/auth"
)

// Credentials is the single demo account accepted by Login
type Credentials struct {
	username  string
	hash      string
	profile   User
	passwords *auth.PasswordManager
}

// NewCredentials builds the demo account. Without a configured hash the
// configured plain password is hashed once here.
func NewCredentials(cfg config.AuthConfig, passwords *auth.PasswordManager) (*Credentials, error) {
	username := normalizeUsername(cfg.DemoUsername)

	hash := cfg.DemoPasswordHash
	if hash == "" {
		var err error
		hash, err = passwords.HashPassword(strings.TrimSpace(cfg.DemoPassword))
		if err != nil {
			return nil, fmt.Errorf("failed to hash demo password: %w", err)
		}
	}

	return &Credentials{
		username: username,
		hash:     hash,
		profile: User{
			Username: username,
			Name:     cfg.DemoName,
			Surname:  cfg.DemoSurname,
			Email:    cfg.DemoEmail,
			Phone:    cfg.DemoPhone,
		},
		passwords: passwords,
	}, nil
}

// Check reports whether the input matches the demo account
func (c *Credentials) Check(username, password string) bool {
	if normalizeUsername(username) != c.username {
		return false
	}
	return c.passwords.VerifyPassword(strings.TrimSpace(password), c.hash) == nil
}

// Taken reports whether a username belongs to the demo account
func (c *Credentials) Taken(username string) bool {
	return normalizeUsername(username) == c.username
}

// Profile returns the demo user's profile
func (c *Credentials) Profile() User {
	return c.profile
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
