// Package config loads server configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sanctum-collective/sanctum/pkg/logger"
)

// DefaultPath is used when SANCTUM_CONFIG is unset.
const DefaultPath = "config/config.yaml"

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns the host:port listen address.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JobsConfig holds the cron expressions for the background jobs. Empty
// expressions disable the job.
type JobsConfig struct {
	AllowanceReset     string `yaml:"allowance_reset"`
	RandomDrops        string `yaml:"random_drops"`
	LeaderboardRefresh string `yaml:"leaderboard_refresh"`
	RitualSweep        string `yaml:"ritual_sweep"`
}

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig         `yaml:"server"`
	Logging logger.LoggingConfig `yaml:"logging"`
	Jobs    JobsConfig           `yaml:"jobs"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Logging: logger.LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Jobs: JobsConfig{
			AllowanceReset:     "0 0 1 * *",
			RandomDrops:        "0 */6 * * *",
			LeaderboardRefresh: "*/15 * * * *",
			RitualSweep:        "*/10 * * * *",
		},
	}
}

// Load reads configuration from SANCTUM_CONFIG (or the default path),
// falling back to defaults when the file does not exist, then applies
// environment overrides.
func Load() (*Config, error) {
	path := os.Getenv("SANCTUM_CONFIG")
	if path == "" {
		path = DefaultPath
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case os.IsNotExist(err):
		// Run on defaults.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if host := os.Getenv("SANCTUM_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if raw := os.Getenv("SANCTUM_PORT"); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil {
			cfg.Server.Port = port
		}
	}
	if level := os.Getenv("SANCTUM_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("SANCTUM_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
