package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	StorageNone     = "none"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Simulator holds all configuration for the effect simulator.
// Every field can be overridden by its STATUSFX_* environment variable.
type Simulator struct {
	LogLevel string `yaml:"log_level" env:"STATUSFX_LOG_LEVEL"` // debug, info, warn, error

	// Engine
	TickInterval time.Duration `yaml:"tick_interval" env:"STATUSFX_TICK_INTERVAL"`
	Seed         int64         `yaml:"seed" env:"STATUSFX_SEED"`                 // 0 = seed from crypto/rand
	CatalogPath  string        `yaml:"catalog_path" env:"STATUSFX_CATALOG_PATH"` // empty = embedded catalog

	// Persistence
	Storage    string         `yaml:"storage" env:"STATUSFX_STORAGE"` // none, postgres, sqlite
	Database   DatabaseConfig `yaml:"database"`
	SQLitePath string         `yaml:"sqlite_path" env:"STATUSFX_SQLITE_PATH"`

	// Lifecycle journal; empty disables it
	JournalDir string `yaml:"journal_dir" env:"STATUSFX_JOURNAL_DIR"`

	// OTLP/HTTP trace endpoint; empty disables tracing
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"STATUSFX_OTLP_ENDPOINT"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"STATUSFX_DB_HOST"`
	Port     int    `yaml:"port" env:"STATUSFX_DB_PORT"`
	User     string `yaml:"user" env:"STATUSFX_DB_USER"`
	Password string `yaml:"password" env:"STATUSFX_DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"STATUSFX_DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"STATUSFX_DB_SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultSimulator returns Simulator config with sensible defaults.
func DefaultSimulator() Simulator {
	return Simulator{
		LogLevel:     "info",
		TickInterval: time.Second,
		Storage:      StorageNone,
		SQLitePath:   "statusfx.db",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "statusfx",
			Password: "statusfx",
			DBName:   "statusfx",
			SSLMode:  "disable",
		},
	}
}

// LoadSimulator loads simulator config from a YAML file and applies
// environment overrides. If the file doesn't exist, defaults are used.
func LoadSimulator(path string) (Simulator, error) {
	cfg := DefaultSimulator()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that have no safe fallback.
func (c Simulator) Validate() error {
	switch c.Storage {
	case StorageNone, StoragePostgres, StorageSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	return nil
}
