package config_test

import (
	"medscan/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
http:
  addr: ":9090"
vault:
  backend: sqlite
  sqlitePath: /var/lib/medscan/vault.db
productLookup:
  apiKey: lookup-key
analyzer:
  model: openai/gpt-4o-mini
  timeout: 45s
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, ":9090", cfg.HTTP.Addr)
	require.Equal(t, "sqlite", cfg.Vault.Backend)
	require.Equal(t, "/var/lib/medscan/vault.db", cfg.Vault.SQLitePath)
	require.Equal(t, "lookup-key", cfg.ProductLookup.APIKey)
	require.Equal(t, "openai/gpt-4o-mini", cfg.Analyzer.Model)
	require.Equal(t, 45*time.Second, cfg.Analyzer.Timeout)

	// defaults
	require.Equal(t, "com.yourdrugs.app", cfg.Vault.Service)
	require.Equal(t, "openrouter_api_key", cfg.Vault.Account)
	require.Equal(t, 300, cfg.Analyzer.MaxTokens)
	require.Equal(t, "https://api.barcodelookup.com/v3", cfg.ProductLookup.BaseURL)
	require.Equal(t, 10*time.Second, cfg.ProductLookup.Timeout)
	require.Equal(t, "/metrics", cfg.HTTP.MetricsPath)
	require.Equal(t, 32, cfg.Pipeline.SubscriberBuffer)
	require.Equal(t, uint(1000), cfg.Pipeline.HistoryRetention)
}

func TestLoad_envOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("analyzer:\n  maxTokens: 100\n"), 0o600))
	t.Setenv("ANALYZER_MAX_TOKENS", "200")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 200, cfg.Analyzer.MaxTokens)
}

func TestLoad_missingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("VAULT_BACKEND", "memory")

	cfg, err := config.LoadEnv()
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Vault.Backend)
	require.Equal(t, "development", cfg.Environment)
}
