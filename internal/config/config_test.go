package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaultsWithSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.AllowIdentityHint)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoadRequiresSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load("")
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "sixia.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  read_timeout: 3s
auth:
  jwt_secret: from-file
  token_ttl: 1h
  allow_identity_hint: true
log:
  level: debug
`), 0o644))
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SIXIA_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Auth.AllowIdentityHint)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=from-dotenv\n"), 0o644))
	os.Unsetenv("JWT_SECRET")
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.Auth.JWTSecret)
}

func TestLoadInvalidEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("SIXIA_PORT", "eighty")
	t.Setenv("JWT_TTL", "forever")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "invalid JWT_TTL")
}

func TestLoadMissingFile(t *testing.T) {
	chdirTemp(t)

	_, err := Load("does-not-exist.yaml")
	assert.ErrorContains(t, err, "error reading config file")
}
