package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size      int `yaml:"size"`
	QueueSize int `yaml:"queue_size"`
}

// PushConfig holds the VAPID keys for breakage push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key" envconfig:"VAPID_PUBLIC_KEY"`
	PrivateKey string `yaml:"vapid_private_key" envconfig:"VAPID_PRIVATE_KEY"`
	Subject    string `yaml:"subject" envconfig:"VAPID_SUBJECT"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are present.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port" envconfig:"PORT"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	// Limiters of clients idle for this long are dropped.
	RateLimitIdleMinutes int `yaml:"rate_limit_idle_minutes"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver" envconfig:"DB_DRIVER"`
	DSN                    string `yaml:"dsn" envconfig:"DATABASE_URL"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogSQL                 bool   `yaml:"log_sql"`
	SkipSeed               bool   `yaml:"skip_seed"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

// Load reads the configuration from the given YAML path, then applies .env and
// environment overrides. A missing YAML file is not an error.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := readYAML(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyDefaults() error {
	if c.Server.Port <= 0 {
		c.Server.Port = 10000
	}
	if c.Server.RateLimitPerSec <= 0 {
		c.Server.RateLimitPerSec = 10
	}
	if c.Server.RateLimitBurst <= 0 {
		c.Server.RateLimitBurst = 20
	}
	if c.Server.RateLimitIdleMinutes <= 0 {
		c.Server.RateLimitIdleMinutes = 10
	}

	if err := c.Database.resolveDriver(); err != nil {
		return err
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetimeMinutes <= 0 {
		c.Database.ConnMaxLifetimeMinutes = 30
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}

	if c.Push.TTL <= 0 {
		c.Push.TTL = 3600
	}
	if c.WorkerPool.Size <= 0 {
		c.WorkerPool.Size = 1
	}
	if c.WorkerPool.QueueSize <= 0 {
		c.WorkerPool.QueueSize = 64
	}
	return nil
}

// resolveDriver infers the driver from the DSN when unset and rejects a
// networked store without a connection string.
func (d *DatabaseConfig) resolveDriver() error {
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	if d.Driver == "" {
		if strings.HasPrefix(d.DSN, "postgres://") || strings.HasPrefix(d.DSN, "postgresql://") {
			d.Driver = DriverPostgres
		} else {
			d.Driver = DriverSQLite
		}
	}

	switch d.Driver {
	case DriverSQLite:
		if d.DSN == "" {
			d.DSN = "inventory.db"
		}
	case DriverPostgres:
		if d.DSN == "" {
			return errors.New("database.dsn (DATABASE_URL) is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", d.Driver)
	}
	return nil
}
