// Package config loads service configuration from an optional YAML file,
// with environment variables taking precedence. A .env file is honored when
// present so local runs don't need exported secrets.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultAddr          = ":8080"
	defaultProviderModel = "gemini-2.5-flash"
	defaultProviderWait  = 30 * time.Second
	defaultSessionTTL    = 30 * time.Minute
	defaultSweepInterval = time.Minute
	defaultHistoryDriver = "sqlite"
	defaultHistoryDSN    = "mcquiz.db"
)

// Duration makes time.Duration YAML-friendly: values are written as Go
// duration strings ("30s", "5m").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Config struct {
	Addr     string         `yaml:"addr"`
	LogMode  string         `yaml:"log_mode"`
	Provider ProviderConfig `yaml:"provider"`
	Session  SessionConfig  `yaml:"session"`
	History  HistoryConfig  `yaml:"history"`
}

type ProviderConfig struct {
	BaseURL string   `yaml:"base_url"`
	Model   string   `yaml:"model"`
	APIKey  string   `yaml:"-"`
	Timeout Duration `yaml:"timeout"`
}

type SessionConfig struct {
	// Backend selects the session store: "memory" (default) or "redis".
	Backend       string   `yaml:"backend"`
	TTL           Duration `yaml:"ttl"`
	SweepInterval Duration `yaml:"sweep_interval"`
	RedisAddr     string   `yaml:"redis_addr"`
	RedisPassword string   `yaml:"-"`
	RedisDB       int      `yaml:"redis_db"`
}

type HistoryConfig struct {
	// Driver selects the history store: "sqlite" (default) or "postgres".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Load reads the YAML file at path (skipped when path is empty or the file
// does not exist), applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:    defaultAddr,
		LogMode: "dev",
		Provider: ProviderConfig{
			Model:   defaultProviderModel,
			Timeout: Duration(defaultProviderWait),
		},
		Session: SessionConfig{
			Backend:       "memory",
			TTL:           Duration(defaultSessionTTL),
			SweepInterval: Duration(defaultSweepInterval),
		},
		History: HistoryConfig{
			Driver: defaultHistoryDriver,
			DSN:    defaultHistoryDSN,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("PROVIDER_MODEL"); v != "" {
		cfg.Provider.Model = v
	}
	if v := os.Getenv("SESSION_BACKEND"); v != "" {
		cfg.Session.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Session.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Session.RedisPassword = v
	}
	if v := os.Getenv("HISTORY_DRIVER"); v != "" {
		cfg.History.Driver = v
	}
	if v := os.Getenv("HISTORY_DSN"); v != "" {
		cfg.History.DSN = v
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Provider.APIKey) == "" {
		return fmt.Errorf("GOOGLE_API_KEY is not set")
	}

	switch strings.ToLower(c.Session.Backend) {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.Session.RedisAddr) == "" {
			return fmt.Errorf("session backend is redis but no redis address is configured")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}

	switch strings.ToLower(c.History.Driver) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown history driver %q", c.History.Driver)
	}

	if c.Session.TTL <= 0 {
		c.Session.TTL = Duration(defaultSessionTTL)
	}
	if c.Session.SweepInterval <= 0 {
		c.Session.SweepInterval = Duration(defaultSweepInterval)
	}
	if c.Provider.Timeout <= 0 {
		c.Provider.Timeout = Duration(defaultProviderWait)
	}
	return nil
}
