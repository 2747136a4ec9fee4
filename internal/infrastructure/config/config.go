package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all shell configuration.
type Config struct {
	Server      ServerConfig
	Shell       ShellConfig
	Session     SessionConfig
	Suggestions SuggestionConfig
	Logging     LogConfig
	RateLimit   RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000" toml:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" toml:"host"`
}

// ShellConfig holds panel geometry configuration.
type ShellConfig struct {
	// GridQuantum snaps pixel coordinates to a grid when computing
	// title bar insets. Zero disables snapping.
	GridQuantum float64 `envconfig:"SHELL_GRID_QUANTUM" default:"0" toml:"grid_quantum"`
}

// SessionConfig holds session persistence configuration.
type SessionConfig struct {
	Dir string `envconfig:"SESSION_DIR" default:"./sessions" toml:"dir"`
}

// SuggestionConfig holds suggestion catalog configuration.
type SuggestionConfig struct {
	CatalogPath string `envconfig:"SUGGESTION_CATALOG" default:"" toml:"catalog_path"`
	MaxResults  int    `envconfig:"SUGGESTION_MAX_RESULTS" default:"10" toml:"max_results"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" toml:"enabled"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads configuration from environment variables and then
// overlays values from a TOML file. Keys present in the file take
// precedence over environment values.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Shell: ShellConfig{
			GridQuantum: 0,
		},
		Session: SessionConfig{
			Dir: "./sessions",
		},
		Suggestions: SuggestionConfig{
			MaxResults: 10,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
