package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"imbalance-report/internal/data"
	"imbalance-report/internal/report"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Report  ReportConfig  `yaml:"report"`
	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

type SourceConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	CacheEnabled bool          `yaml:"cache_enabled"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

type ReportConfig struct {
	IncludeWeeklyTrend bool     `yaml:"include_weekly_trend"`
	CurrencySymbol     string   `yaml:"currency_symbol"`
	OutputDir          string   `yaml:"output_dir"`
	Formats            []string `yaml:"formats"`
}

// StoreConfig points at the SQLite report archive. An empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
	ReleaseMode bool     `yaml:"release_mode"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a config with every default filled in.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads path, fills defaults, applies environment overrides and validates.
// An empty path yields the defaults (plus environment).
func Load(path string) (*Config, error) {
	var c *Config
	if path == "" {
		c = &Config{}
	} else {
		var err error
		c, err = LoadUnchecked(path)
		if err != nil {
			return nil, err
		}
	}
	c.applyDefaults()
	c.ApplyEnv(os.LookupEnv)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config without defaults or validation.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Source.BaseURL == "" {
		c.Source.BaseURL = data.DefaultBaseURL
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 30 * time.Second
	}
	if c.Source.CacheTTL == 0 {
		c.Source.CacheTTL = time.Hour
	}
	if c.Report.CurrencySymbol == "" {
		c.Report.CurrencySymbol = report.DefaultCurrencySymbol
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "./output"
	}
	if len(c.Report.Formats) == 0 {
		c.Report.Formats = []string{report.FormatTXT, report.FormatPNG}
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// ApplyEnv overlays IMBALANCE_* environment variables. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("IMBALANCE_API_PORT"); ok && v != "" {
		c.Server.Port = v
	}
	if v, ok := lookup("IMBALANCE_SOURCE_URL"); ok && v != "" {
		c.Source.BaseURL = v
	}
	// Set but empty disables the archive.
	if v, ok := lookup("IMBALANCE_STORE_PATH"); ok {
		c.Store.Path = v
	}
	if v, ok := lookup("IMBALANCE_LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Source.Timeout < 0 {
		return errors.New("source.timeout must be >= 0")
	}
	if c.Source.CacheTTL < 0 {
		return errors.New("source.cache_ttl must be >= 0")
	}
	for _, f := range c.Report.Formats {
		if !report.ValidFormat(f) {
			return fmt.Errorf("report.formats: unknown format %q", f)
		}
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("server.port %q is not a valid port", c.Server.Port)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug|info|warn|error", c.Logging.Level)
	}
	return nil
}
