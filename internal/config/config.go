package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers accepted in storage.driver.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Question sources accepted in questions.source.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Config struct {
	Server struct {
		Port            string `yaml:"port"`
		ReadTimeout     string `yaml:"read_timeout"`
		WriteTimeout    string `yaml:"write_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Storage struct {
		Driver string `yaml:"driver"`
		Dir    string `yaml:"dir"`
		// InitIfMissing writes the initial dashboard when the store has none.
		InitIfMissing *bool `yaml:"init_if_missing"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Questions struct {
		Source string `yaml:"source"`
		Path   string `yaml:"path"`
		BankID string `yaml:"bank_id"`
	} `yaml:"questions"`
	Dashboard struct {
		InitialPath string `yaml:"initial_path"`
	} `yaml:"dashboard"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8000"
	cfg.Storage.Driver = DriverFile
	cfg.Storage.Dir = "data"
	cfg.Redis.Prefix = "colmeia"
	cfg.SQLite.Path = "data/colmeia.db"
	cfg.Questions.Source = SourceEmbedded
	return cfg
}

// Load reads YAML config from path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default.
func LoadOrDefault(path string) (Config, bool, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), false, nil
	}
	return cfg, err == nil, err
}

// Validate checks enumerated fields, durations and driver prerequisites.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile, DriverMemory, DriverSQLite:
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("storage.driver %q requires redis.addr", c.Storage.Driver)
		}
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("storage.driver %q requires postgres.url", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	durations := []struct {
		key, raw string
	}{
		{"server.read_timeout", c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeout},
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
		{"redis.ttl", c.Redis.TTL},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		if _, err := time.ParseDuration(d.raw); err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.key, d.raw, err)
		}
	}

	switch c.Questions.Source {
	case SourceEmbedded:
	case SourceFile:
		if c.Questions.Path == "" {
			return fmt.Errorf("questions.source %q requires questions.path", c.Questions.Source)
		}
	case SourcePostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("questions.source %q requires postgres.url", c.Questions.Source)
		}
	default:
		return fmt.Errorf("unknown questions.source %q", c.Questions.Source)
	}
	return nil
}

// ShouldInitIfMissing defaults to true.
func (c Config) ShouldInitIfMissing() bool {
	return c.Storage.InitIfMissing == nil || *c.Storage.InitIfMissing
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
