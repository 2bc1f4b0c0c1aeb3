package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for opshub.
// Configuration can come from YAML file (config.yaml) or environment
// variables; environment variables always override YAML values. Secrets
// (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// UIDir is the directory holding the built portal shell. Served even
	// when the metadata store is unreachable.
	UIDir string `yaml:"ui_dir" env:"UI_DIR" env-default:""`

	// Metadata store (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Probe holds connectivity-probe settings.
	Probe ProbeConfig `yaml:"probe"`

	// Report holds the opaque text-generation collaborator settings.
	Report ReportConfig `yaml:"report"`

	// SessionSecret signs login session cookies.
	SessionSecret string `yaml:"-" env:"SESSION_SECRET" env-default:"opshub-dev-session"`

	// SourceCredentialsKey encrypts data-source secrets at rest.
	// Any passphrase works; it is hashed to a 32-byte AES key.
	SourceCredentialsKey string `yaml:"-" env:"SOURCE_CREDENTIALS_KEY" env-default:"opshub-dev-credentials"`
}

// DatabaseConfig holds PostgreSQL metadata-store configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"opshub"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"opshub_meta"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"15"`
}

// ProbeConfig holds connectivity-probe settings.
type ProbeConfig struct {
	// TimeoutSeconds bounds a single probe attempt. The deadline is
	// enforced with a cancellable context, not just the driver's own
	// dial timeout.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"PROBE_TIMEOUT_SECONDS" env-default:"5"`
}

// Timeout returns the probe deadline as a duration.
func (c *ProbeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ReportConfig holds settings for the inspection-report text generator.
// When BaseURL or APIKey is empty the service falls back to a canned
// summary instead of calling out.
type ReportConfig struct {
	BaseURL string `yaml:"base_url" env:"REPORT_LLM_BASE_URL" env-default:""`
	Model   string `yaml:"model" env:"REPORT_LLM_MODEL" env-default:"gpt-4o-mini"`
	APIKey  string `yaml:"-" env:"REPORT_LLM_API_KEY"` // Secret - not in YAML
}

// IsAvailable returns true if a report model endpoint is configured.
func (c *ReportConfig) IsAvailable() bool {
	return c.APIKey != ""
}

// Load reads configuration from config.yaml with environment variable
// overrides. If config.yaml is absent, configuration comes from the
// environment alone. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if cfg.Probe.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("probe timeout must be positive, got %d", cfg.Probe.TimeoutSeconds)
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string for the
// metadata store.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
