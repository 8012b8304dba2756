// ABOUTME: Tests for configuration loading
// ABOUTME: Validates YAML parsing, env expansion, defaults, and validation failures

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
backend:
  url: http://agents.example.com
  default_agent: web-agent
database:
  path: /tmp/history.db
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://agents.example.com", cfg.Backend.URL)
	assert.Equal(t, "web-agent", cfg.Backend.DefaultAgent)
	assert.Equal(t, "/tmp/history.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("AGENTDECK_TEST_TOKEN", "secret-token")

	path := writeConfig(t, `
backend:
  url: http://localhost:7777
auth:
  token: ${AGENTDECK_TEST_TOKEN}
  jwt_secret: s3cr3t
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.Auth.Token)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
backend:
  default_agent: web-agent
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:7777", cfg.Backend.URL)
	assert.Equal(t, "local", cfg.Auth.UserID)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_TokenRequiresSecret(t *testing.T) {
	path := writeConfig(t, `
auth:
  token: some-token
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestLoad_InvalidLevel(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: loud
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:7777", cfg.Backend.URL)
}
