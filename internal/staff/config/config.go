// Package config loads the staff service configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gartstein/staff/internal/staff/db"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides DefaultPath.
const EnvPath = "STAFF_CONFIG"

// DefaultPath is relative to the repository root.
var DefaultPath = filepath.Join("internal", "staff", "config", "config.yaml")

// Config struct for YAML configuration
type Config struct {
	GRPCPort         int      `yaml:"GRPC_PORT"`
	HTTPPort         int      `yaml:"HTTP_PORT"`
	DBDriver         string   `yaml:"DB_DRIVER"`
	DBHost           string   `yaml:"DB_HOST"`
	DBPort           int      `yaml:"DB_PORT"`
	DBUser           string   `yaml:"DB_USER"`
	DBPassword       string   `yaml:"DB_PASSWORD"`
	DBName           string   `yaml:"DB_NAME"`
	DBSSLMode        string   `yaml:"DB_SSLMODE"`
	DBConnectRetries uint64   `yaml:"DB_CONNECT_RETRIES"`
	KafkaBrokers     []string `yaml:"KAFKA_BROKERS"`
	Topic            string   `yaml:"TOPIC"`
	ConsumerGroup    string   `yaml:"CONSUMER_GROUP"`
	DefaultISDCode   int32    `yaml:"DEFAULT_ISD_CODE"`
}

// Load reads the file at path, or at $STAFF_CONFIG / DefaultPath when path
// is empty, fills in defaults and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		path = DefaultPath
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GRPCPort == 0 {
		c.GRPCPort = 50051
	}
	if c.HTTPPort == 0 {
		c.HTTPPort = 8080
	}
	if c.DBDriver == "" {
		c.DBDriver = db.DriverPostgres
	}
	if c.DBDriver == db.DriverPostgres {
		if c.DBPort == 0 {
			c.DBPort = 5432
		}
		if c.DBSSLMode == "" {
			c.DBSSLMode = "disable"
		}
	}
	if c.DBConnectRetries == 0 {
		c.DBConnectRetries = 5
	}
	if c.Topic == "" {
		c.Topic = "staff.events"
	}
	if c.ConsumerGroup == "" {
		c.ConsumerGroup = "staff-eventlog"
	}
	if c.DefaultISDCode == 0 {
		c.DefaultISDCode = 91
	}
}

func (c *Config) validate() error {
	var errs []error
	switch c.DBDriver {
	case db.DriverPostgres:
		if c.DBHost == "" {
			errs = append(errs, errors.New("DB_HOST is required for postgres"))
		}
		if c.DBUser == "" {
			errs = append(errs, errors.New("DB_USER is required for postgres"))
		}
	case db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver))
	}
	if c.DBName == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.GRPCPort == c.HTTPPort {
		errs = append(errs, errors.New("GRPC_PORT and HTTP_PORT must differ"))
	}
	if c.DefaultISDCode < 0 {
		errs = append(errs, errors.New("DEFAULT_ISD_CODE must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Database returns the connection settings of the store.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Driver:   c.DBDriver,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}

// EventsEnabled reports whether change events are published.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
