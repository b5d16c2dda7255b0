// Package config loads runtime configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	// DataDir is the root for all on-disk state. The other directories and
	// the database default to paths beneath it.
	DataDir      string
	UploadDir    string
	GeneratedDir string
	InboxDir     string
	DBPath       string

	Timezone       string
	ConvertTimeout time.Duration
	BatchWorkers   int

	// LogMode selects the logger configuration: "dev" or "prod".
	LogMode string
}

// fileConfig is the YAML shape. Durations are written as Go duration strings
// ("30s", "2m") and parsed into Config.
type fileConfig struct {
	DataDir        string `yaml:"data_dir"`
	UploadDir      string `yaml:"upload_dir"`
	GeneratedDir   string `yaml:"generated_dir"`
	InboxDir       string `yaml:"inbox_dir"`
	DBPath         string `yaml:"db_path"`
	Timezone       string `yaml:"timezone"`
	ConvertTimeout string `yaml:"convert_timeout"`
	BatchWorkers   *int   `yaml:"batch_workers"`
	LogMode        string `yaml:"log_mode"`
}

// Default returns the configuration used when no file or overrides are
// present.
func Default() Config {
	return Config{
		DataDir:        "data",
		Timezone:       "Africa/Lagos",
		ConvertTimeout: 30 * time.Second,
		BatchWorkers:   1,
		LogMode:        "prod",
	}
}

// Load reads the configuration file at path (skipped when path is empty or
// the file does not exist), applies MYTYPIST_* environment overrides, and
// fills derived defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			var fc fileConfig
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
			if err := fc.apply(&cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	cfg.fillDerived()

	if cfg.BatchWorkers < 1 {
		cfg.BatchWorkers = 1
	}
	if cfg.ConvertTimeout <= 0 {
		cfg.ConvertTimeout = 30 * time.Second
	}
	return cfg, nil
}

func (fc fileConfig) apply(cfg *Config) error {
	setString := func(v string, dst *string) {
		if v != "" {
			*dst = v
		}
	}
	setString(fc.DataDir, &cfg.DataDir)
	setString(fc.UploadDir, &cfg.UploadDir)
	setString(fc.GeneratedDir, &cfg.GeneratedDir)
	setString(fc.InboxDir, &cfg.InboxDir)
	setString(fc.DBPath, &cfg.DBPath)
	setString(fc.Timezone, &cfg.Timezone)
	setString(fc.LogMode, &cfg.LogMode)

	if fc.ConvertTimeout != "" {
		d, err := time.ParseDuration(fc.ConvertTimeout)
		if err != nil {
			return fmt.Errorf("invalid convert_timeout: %w", err)
		}
		cfg.ConvertTimeout = d
	}
	if fc.BatchWorkers != nil {
		cfg.BatchWorkers = *fc.BatchWorkers
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString("MYTYPIST_DATA_DIR", &cfg.DataDir)
	setString("MYTYPIST_UPLOAD_DIR", &cfg.UploadDir)
	setString("MYTYPIST_GENERATED_DIR", &cfg.GeneratedDir)
	setString("MYTYPIST_INBOX_DIR", &cfg.InboxDir)
	setString("MYTYPIST_DB_PATH", &cfg.DBPath)
	setString("MYTYPIST_TIMEZONE", &cfg.Timezone)
	setString("MYTYPIST_LOG_MODE", &cfg.LogMode)

	if v, ok := os.LookupEnv("MYTYPIST_CONVERT_TIMEOUT"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ConvertTimeout = d
		}
	}
	if v, ok := os.LookupEnv("MYTYPIST_BATCH_WORKERS"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BatchWorkers = n
		}
	}
}

// fillDerived defaults the storage paths beneath DataDir when they are not
// set explicitly.
func (c *Config) fillDerived() {
	if c.UploadDir == "" {
		c.UploadDir = filepath.Join(c.DataDir, "uploads")
	}
	if c.GeneratedDir == "" {
		c.GeneratedDir = filepath.Join(c.DataDir, "generated")
	}
	if c.InboxDir == "" {
		c.InboxDir = filepath.Join(c.DataDir, "inbox")
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "mytypist.db")
	}
}

// Location resolves the configured timezone, falling back to a fixed UTC+1
// zone.
func (c Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.FixedZone("WAT", 3600)
}
