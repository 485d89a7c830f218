package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", cfg.Server.URL)
	require.Equal(t, 30*time.Second, cfg.Server.Timeout)
	require.Equal(t, 5.0, cfg.Server.RateLimit)
	require.Equal(t, 10, cfg.Server.Burst)
	require.Equal(t, ".", cfg.Client.ExportDir)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	content := `
server:
  url: https://docs.example.com
  timeout: 10s
client:
  export_dir: /tmp/exports
ui:
  no_alt_screen: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://docs.example.com", cfg.Server.URL)
	require.Equal(t, 10*time.Second, cfg.Server.Timeout)
	require.Equal(t, "/tmp/exports", cfg.Client.ExportDir)
	require.True(t, cfg.UI.NoAltScreen)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  url: https://file.example.com\n"), 0o644))

	t.Setenv("FOLIO_SERVER_URL", "https://env.example.com")
	t.Setenv("FOLIO_LOG_FILE", "/tmp/folio.log")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com", cfg.Server.URL)
	require.Equal(t, "/tmp/folio.log", cfg.Client.LogFile)
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
