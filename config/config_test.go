// file: config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 3600, cfg.RateLimit.WindowSeconds)
	assert.Equal(t, 86400, cfg.Session.LifetimeSeconds)
	assert.True(t, cfg.RateLimit.FailOpen)
}

// Given: a YAML file and environment overrides
// When: Load runs
// Then: env values take precedence over the file
func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clubhub.yaml")
	yamlData := `
env: staging
database:
  driver: postgres
  dsn: postgres://clubhub@localhost/clubhub
rate_limit:
  window_seconds: 600
  fail_open: true
trusted_proxies: ["10.0.0.1"]
`
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0600))

	t.Setenv("RATE_LIMIT_FAIL_OPEN", "false")
	t.Setenv("CLUBHUB_TRUSTED_PROXIES", "10.0.0.2, 10.0.0.3")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 600, cfg.RateLimit.WindowSeconds)
	assert.False(t, cfg.RateLimit.FailOpen)
	assert.Equal(t, []string{"10.0.0.2", "10.0.0.3"}, cfg.TrustedProxies)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoad_InvalidBoolEnv(t *testing.T) {
	t.Setenv("CLUBHUB_XRAY_ENABLED", "maybe")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Env = "production"
	assert.Error(t, cfg.Validate(), "default secret must not be accepted in production")

	cfg = Default()
	cfg.RateLimit.CleanupProbability = 2
	assert.Error(t, cfg.Validate())
}
