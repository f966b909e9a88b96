package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StoreSQLite, cfg.Database.OverrideStore)
	assert.Equal(t, "Jerehe1", cfg.GitHub.Account)
	assert.Equal(t, 30, cfg.GitHub.PageSize)
	assert.Equal(t, 6*time.Hour, cfg.Screenshot.CacheTTL)
	assert.Equal(t, 25*time.Second, cfg.Screenshot.Timeout)
	assert.Equal(t, devJWTSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoadRequiresSecretInRelease(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SCREENSHOT_CACHE_TTL", "30m")
	t.Setenv("GITHUB_TIMEOUT", "10")
	t.Setenv("GITHUB_PAGE_SIZE", "20")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PUBLIC_BASE_URL", "https://folio.example/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Screenshot.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, 20, cfg.GitHub.PageSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "https://folio.example", cfg.Server.PublicBaseURL)
}

func TestLoadRejectsInvalidStore(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{"OVERRIDE_STORE": "redis"}},
		{name: "mongodb without uri", env: map[string]string{"OVERRIDE_STORE": "mongodb"}},
		{name: "surrealdb without url", env: map[string]string{"OVERRIDE_STORE": "surrealdb"}},
		{name: "page size too large", env: map[string]string{"GITHUB_PAGE_SIZE": "500"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("GIN_MODE", "debug")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
