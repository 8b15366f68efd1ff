package models

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when --config is not given. A missing default file is not an error.
const DefaultConfigFile = "seo-companion.yaml"

// EnvPrefix namespaces environment overrides, e.g. SEO_USER_AGENT.
const EnvPrefix = "SEO"

// DefaultCacheTTL applies when cache_dir is set without cache_ttl.
const DefaultCacheTTL = time.Hour

// Config holds runtime settings. Values come from defaults, then the YAML file, then the environment.
type Config struct {
	DBPath              string        `yaml:"db_path" envconfig:"DB_PATH"`
	UserAgent           string        `yaml:"user_agent" envconfig:"USER_AGENT"`
	HTTPTimeout         time.Duration `yaml:"http_timeout" envconfig:"HTTP_TIMEOUT"`
	RateInterval        time.Duration `yaml:"rate_interval" envconfig:"RATE_INTERVAL"`
	MaxSitemaps         int           `yaml:"max_sitemaps" envconfig:"MAX_SITEMAPS"`
	FollowRobots        bool          `yaml:"follow_robots" envconfig:"FOLLOW_ROBOTS"`
	RecommendationTable string        `yaml:"recommendation_table" envconfig:"RECOMMENDATION_TABLE"`
	CacheDir            string        `yaml:"cache_dir" envconfig:"CACHE_DIR"`
	CacheTTL            time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL"`
	LogLevel            string        `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		DBPath:       "seo-companion.db",
		UserAgent:    "seo-companion/1.0 (+https://github.com/dtnitsch/seo-companion)",
		HTTPTimeout:  15 * time.Second,
		RateInterval: time.Second,
		MaxSitemaps:  10,
		LogLevel:     "info",
	}
}

// LoadConfig builds a Config from defaults, the YAML file at path and SEO_* environment variables.
// An optional .env file in the working directory is loaded before the environment is read.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no config file, defaults apply
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the fetcher and store cannot work with.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("config: db_path must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.RateInterval < 0 {
		return fmt.Errorf("config: rate_interval must not be negative, got %s", c.RateInterval)
	}
	if c.MaxSitemaps < 1 {
		return fmt.Errorf("config: max_sitemaps must be at least 1, got %d", c.MaxSitemaps)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("config: unknown log_level %q", c.LogLevel)
}
