package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "bookstore-test"},
		JWT: config.JWTConfig{
			Secret:      "0123456789abcdef0123456789abcdef",
			TokenExpiry: time.Hour,
		},
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, expiresAt, err := m.GenerateSessionToken("sess-1", "user")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := m.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "user", claims.Username)
	assert.Equal(t, "bookstore-test", claims.Issuer)
	assert.Equal(t, "session:sess-1", claims.Subject)
}

func TestValidateSessionTokenErrors(t *testing.T) {
	cfg := testConfig()
	m := NewJWTManager(cfg)

	expired := NewJWTManager(cfg)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.GenerateSessionToken("s", "user")
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.JWT.Secret = "ffffffffffffffffffffffffffffffff"
	foreignToken, _, err := NewJWTManager(otherCfg).GenerateSessionToken("s", "user")
	require.NoError(t, err)

	wrongType, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		SessionID: "s",
		TokenType: "refresh",
	}).SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		SessionID: "s",
		TokenType: TokenTypeSession,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expiredToken},
		{name: "foreign secret", token: foreignToken},
		{name: "wrong type", token: wrongType},
		{name: "none algorithm", token: noneAlg},
		{name: "garbage", token: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ValidateSessionToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
}

func TestPasswordManager(t *testing.T) {
	p := NewPasswordManager(bcrypt.MinCost)

	hash, err := p.HashPassword("user")
	require.NoError(t, err)

	assert.NoError(t, p.VerifyPassword("user", hash))
	assert.ErrorIs(t, p.VerifyPassword("User", hash), ErrPasswordMismatch)
	assert.Error(t, p.VerifyPassword("user", "not-a-hash"))

	_, err = p.HashPassword("")
	assert.EqualError(t, err, "password validation failed: password is required")

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err = p.HashPassword(string(long))
	assert.Error(t, err)
}

func TestNewPasswordManagerClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordManager(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordManager(99).cost)
	assert.Equal(t, 12, NewPasswordManager(12).cost)
}
