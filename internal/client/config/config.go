package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the CLI.
type Config struct {
	Host           string        `env:"NOTIFY_HOST"`
	RequestTimeout time.Duration
	DatabasePath   string        `env:"NOTIFY_DB"`
	LogLevel       string        `env:"NOTIFY_LOG_LEVEL"`
	LogFile        string        `env:"NOTIFY_LOG_FILE"`
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.Host = ""
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = "notify.db"
	c.LogLevel = "info"
	c.LogFile = "notify.log"
}

// Load builds a Config from defaults, the JSON file, the environment and
// the given command-line arguments (without the program name).
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
