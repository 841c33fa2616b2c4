package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"PORT", "DATABASE_PATH", "DEFAULT_USER_ID", "REDIS_URL", "DASHBOARD_CACHE_TTL",
	"COGNITO_USER_POOL_ID", "COGNITO_APP_CLIENT_ID", "COGNITO_APP_CLIENT_SECRET", "AWS_REGION", "COGNITO_JWKS_URL",
}

// clearEnv empties every variable the package reads, restoring them after the test
func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "keeporcut.db", cfg.DatabasePath)
	assert.Equal(t, "local-user", cfg.DefaultUserID)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 10*time.Minute, cfg.DashboardCacheTTL)
	assert.False(t, cfg.Cognito.Enabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("DASHBOARD_CACHE_TTL", "30s")
	t.Setenv("COGNITO_USER_POOL_ID", "pool")
	t.Setenv("COGNITO_APP_CLIENT_ID", "client")
	t.Setenv("AWS_REGION", "ap-northeast-2")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 30*time.Second, cfg.DashboardCacheTTL)
	assert.True(t, cfg.Cognito.Enabled())
	assert.Equal(t, "ap-northeast-2", cfg.Cognito.Region)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad ttl", map[string]string{"DASHBOARD_CACHE_TTL": "soon"}},
		{"zero ttl", map[string]string{"DASHBOARD_CACHE_TTL": "0s"}},
		{"pool without region", map[string]string{"COGNITO_USER_POOL_ID": "pool", "COGNITO_APP_CLIENT_ID": "client"}},
		{"pool without client", map[string]string{"COGNITO_USER_POOL_ID": "pool", "AWS_REGION": "ap-northeast-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_PATH=from-file.db\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.DatabasePath)
}
