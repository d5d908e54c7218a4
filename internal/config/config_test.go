package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/config"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantError string
		check     func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "defaults: ok",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.StoreDriverRedis, cfg.Store.Driver)
				assert.Equal(t, "https://lawebdeperez.es/apifpr", cfg.Catalog.BaseURL)
				assert.Equal(t, "user", cfg.Auth.DemoUsername)
				assert.Equal(t, 500*time.Millisecond, cfg.Checkout.ConfirmDelay)
				assert.True(t, cfg.IsDevelopment())
			},
		},
		{
			name: "memory driver, upper case: ok",
			env:  map[string]string{"STORE_DRIVER": "MEMORY"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.StoreDriverMemory, cfg.Store.Driver)
			},
		},
		{
			name: "overrides parsed: ok",
			env: map[string]string{
				"CATALOG_TIMEOUT":       "3s",
				"RATE_LIMIT_PER_MINUTE": "7",
				"CORS_ALLOWED_ORIGINS":  "http://a,http://b",
				"APP_ENV":               "production",
			},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
				assert.Equal(t, 7, cfg.Security.RateLimitPerMinute)
				assert.Equal(t, []string{"http://a", "http://b"}, cfg.Security.CORSAllowedOrigins)
				assert.True(t, cfg.IsProduction())
			},
		},
		{
			name:      "unknown driver: error",
			env:       map[string]string{"STORE_DRIVER": "etcd"},
			wantError: `configuration validation failed: STORE_DRIVER "etcd" is not supported`,
		},
		{
			name:      "short secret: error",
			env:       map[string]string{"JWT_SECRET": "short"},
			wantError: "configuration validation failed: JWT_SECRET must be at least 32 characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestGetRedisAddr(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{Host: "cache", Port: "6380"}}
	assert.Equal(t, "cache:6380", cfg.GetRedisAddr())
}
