package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.AdminUsernames)
	assert.True(t, cfg.Migrate)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:blog.db")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ADMIN_USERNAMES", "root, Ops")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("APP_MIGRATE", "false")
	t.Setenv("BCRYPT_COST", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "file:blog.db", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"root", "Ops"}, cfg.AdminUsernames)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.Migrate)
	assert.Equal(t, 4, cfg.BcryptCost)

	assert.True(t, cfg.IsAdminUsername("ops"))
	assert.False(t, cfg.IsAdminUsername("alice"))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_port: \"7070\"\nrate_rps: 3\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RATE_RPS", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.HTTPPort)
	assert.Equal(t, 7, cfg.RateRPS, "env wins over file")
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DATABASE_DRIVER": "mysql"}},
		{"bad port", map[string]string{"HTTP_PORT": "http"}},
		{"short secret", map[string]string{"JWT_ACCESS_SECRET": "short"}},
		{"same secrets", map[string]string{
			"JWT_ACCESS_SECRET":  "0123456789abcdef",
			"JWT_REFRESH_SECRET": "0123456789abcdef",
		}},
		{"refresh not longer than access", map[string]string{"JWT_REFRESH_TTL": "1m"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.ErrorContains(t, err, "validation failed")
		})
	}
}
