package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultURL, cfg.Catalogue.URL)
	assert.Empty(t, cfg.Catalogue.Path)
	assert.Equal(t, DefaultRefresh, cfg.Catalogue.Refresh)
	assert.Equal(t, 15*time.Second, cfg.Catalogue.Timeout)
	assert.Equal(t, 102, cfg.Client.Version)
	assert.Equal(t, []string{"rare", "magic"}, cfg.Client.Rarities)
	assert.Equal(t, "localhost:8787", cfg.Server.Addr())
	assert.Equal(t, 6, cfg.Server.ReloadPerMinute)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
catalogue:
  path: /srv/shrines.yaml
  refresh: "*/10 * * * *"
  timeout: 5s
client:
  rarities: [rare]
server:
  port: 9000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/shrines.yaml", cfg.Catalogue.Path)
	assert.Equal(t, DefaultURL, cfg.Catalogue.URL)
	assert.Equal(t, "*/10 * * * *", cfg.Catalogue.Refresh)
	assert.Equal(t, 5*time.Second, cfg.Catalogue.Timeout)
	assert.Equal(t, []string{"rare"}, cfg.Client.Rarities)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, DefaultHost, cfg.Server.Host)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	t.Setenv("SHRINETIPS_SERVER_PORT", "9100")
	t.Setenv("SHRINETIPS_SERVER_RELOAD_PER_MINUTE", "2")
	t.Setenv("SHRINETIPS_CATALOGUE_URL", "http://example.test/shrines.js")
	t.Setenv("SHRINETIPS_CLIENT_RARITIES", "rare,magic,unique")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Server.ReloadPerMinute)
	assert.Equal(t, "http://example.test/shrines.js", cfg.Catalogue.URL)
	assert.Equal(t, []string{"rare", "magic", "unique"}, cfg.Client.Rarities)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "server: [port"},
		{"bad port", "server:\n  port: 70000\n"},
		{"bad schedule", "catalogue:\n  refresh: sometimes\n"},
		{"bad timeout", "catalogue:\n  timeout: -1s\n"},
		{"no source", "catalogue:\n  url: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "missing.yaml")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "catalogue.url", envKey("SHRINETIPS_CATALOGUE_URL"))
	assert.Equal(t, "server.reload_per_minute", envKey("SHRINETIPS_SERVER_RELOAD_PER_MINUTE"))
	assert.Equal(t, "verbose", envKey("SHRINETIPS_VERBOSE"))
}
