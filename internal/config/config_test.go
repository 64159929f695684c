package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imbalance-report/internal/data"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, data.DefaultBaseURL, c.Source.BaseURL)
	assert.Equal(t, 30*time.Second, c.Source.Timeout)
	assert.Equal(t, time.Hour, c.Source.CacheTTL)
	assert.Equal(t, "£", c.Report.CurrencySymbol)
	assert.Equal(t, "./output", c.Report.OutputDir)
	assert.Equal(t, []string{"txt", "png"}, c.Report.Formats)
	assert.Equal(t, "8080", c.Server.Port)
	assert.Equal(t, []string{"*"}, c.Server.CORSOrigins)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "text", c.Logging.Format)
	assert.Empty(t, c.Store.Path)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
source:
  base_url: http://localhost:9999
  timeout: 5s
  cache_enabled: true
  cache_ttl: 10m
report:
  include_weekly_trend: true
  currency_symbol: "€"
  output_dir: /tmp/reports
  formats: [txt, json, yaml, csv]
store:
  path: /tmp/reports.db
server:
  port: "9090"
  cors_origins: ["http://localhost:3000"]
  release_mode: true
logging:
  level: debug
  format: json
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", c.Source.BaseURL)
	assert.Equal(t, 5*time.Second, c.Source.Timeout)
	assert.True(t, c.Source.CacheEnabled)
	assert.Equal(t, 10*time.Minute, c.Source.CacheTTL)
	assert.True(t, c.Report.IncludeWeeklyTrend)
	assert.Equal(t, "€", c.Report.CurrencySymbol)
	assert.Equal(t, []string{"txt", "json", "yaml", "csv"}, c.Report.Formats)
	assert.Equal(t, "/tmp/reports.db", c.Store.Path)
	assert.Equal(t, "9090", c.Server.Port)
	assert.True(t, c.Server.ReleaseMode)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "json", c.Logging.Format)
}

func TestLoadUncheckedSkipsDefaults(t *testing.T) {
	path := writeConfig(t, "report:\n  formats: [pdf]\n")
	c, err := LoadUnchecked(path)
	require.NoError(t, err)
	assert.Empty(t, c.Source.BaseURL)
	assert.Equal(t, []string{"pdf"}, c.Report.Formats)

	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "source: [not, a, map]\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative timeout", func(c *Config) { c.Source.Timeout = -time.Second }},
		{"negative ttl", func(c *Config) { c.Source.CacheTTL = -time.Second }},
		{"bad port", func(c *Config) { c.Server.Port = "http" }},
		{"port out of range", func(c *Config) { c.Server.Port = "70000" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			require.NoError(t, c.Validate())
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"IMBALANCE_API_PORT":   "7070",
		"IMBALANCE_SOURCE_URL": "http://mirror",
		"IMBALANCE_STORE_PATH": "/var/lib/reports.db",
		"IMBALANCE_LOG_LEVEL":  "warn",
	}
	c := Default()
	c.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, "7070", c.Server.Port)
	assert.Equal(t, "http://mirror", c.Source.BaseURL)
	assert.Equal(t, "/var/lib/reports.db", c.Store.Path)
	assert.Equal(t, "warn", c.Logging.Level)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("IMBALANCE_API_PORT", "6060")
	t.Setenv("IMBALANCE_STORE_PATH", "")
	path := writeConfig(t, "store:\n  path: /tmp/x.db\n")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "6060", c.Server.Port)
	assert.Empty(t, c.Store.Path, "an empty IMBALANCE_STORE_PATH disables the archive")
}

func TestExampleConfigLoads(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "configs", "config.example.yaml"))
	require.NoError(t, err)
	assert.True(t, c.Source.CacheEnabled)
	assert.Equal(t, []string{"txt", "json", "csv", "png"}, c.Report.Formats)
}
