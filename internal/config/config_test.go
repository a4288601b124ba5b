package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
server:
  addr: ":9090"
db:
  dsn: "postgres://localhost/test"
auth:
  jwt_secret: "secret"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 60, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, 60, cfg.Prices.CacheTTLSeconds)
	assert.Equal(t, 56, cfg.Tokens.ChainID)
	assert.Equal(t, 720, cfg.Tokens.RefreshIntervalHours)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("PRICE_CACHE_TTL_SECONDS", "120")

	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 120, cfg.Prices.CacheTTLSeconds)
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	_, err := Load(writeConfig(t, "server:\n  addr: \":8080\"\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "server:\n  addr: \":8080\"\ndb:\n  dsn: \"x\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}
