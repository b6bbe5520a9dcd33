// Package config loads runtime settings from .env, an optional YAML file and
// the process environment, in that order of precedence (env wins).
// File: config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-club-hub/logger"
)

// Config is the full application configuration.
type Config struct {
	Env            string          `yaml:"env"`
	Port           string          `yaml:"port"`
	ApplicationURL string          `yaml:"application_url"`
	TrustedProxies []string        `yaml:"trusted_proxies"`
	Database       DatabaseConfig  `yaml:"database"`
	Session        SessionConfig   `yaml:"session"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	Redis          RedisConfig     `yaml:"redis"`
	AWS            AWSConfig       `yaml:"aws"`
	Logging        LoggingConfig   `yaml:"logging"`
	Cleanup        CleanupConfig   `yaml:"cleanup"`
	Owner          OwnerConfig     `yaml:"owner"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	DSN    string `yaml:"dsn"`
}

type SessionConfig struct {
	Name            string `yaml:"name"`
	Secret          string `yaml:"secret"`
	LifetimeSeconds int    `yaml:"lifetime_seconds"`
	Secure          bool   `yaml:"secure"`
}

type RateLimitConfig struct {
	WindowSeconds      int     `yaml:"window_seconds"`
	FailOpen           bool    `yaml:"fail_open"`
	CleanupProbability float64 `yaml:"cleanup_probability"`
	// BurstPerSecond feeds the per-IP token bucket in front of the API.
	BurstPerSecond float64 `yaml:"burst_per_second"`
	Burst          int     `yaml:"burst"`
}

type RedisConfig struct {
	URL     string `yaml:"url"`
	Channel string `yaml:"channel"`
}

type AWSConfig struct {
	CloudWatchEnabled bool   `yaml:"cloudwatch_enabled"`
	MetricsNamespace  string `yaml:"metrics_namespace"`
	XRayEnabled       bool   `yaml:"xray_enabled"`
	XRaySegmentName   string `yaml:"xray_segment_name"`
}

type LoggingConfig struct {
	File string `yaml:"file"`
}

type CleanupConfig struct {
	Schedule string `yaml:"schedule"`
}

// OwnerConfig seeds the platform's system owner account on startup.
type OwnerConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Env:            "development",
		Port:           "8080",
		ApplicationURL: "http://localhost:8080",
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "clubhub.db",
		},
		Session: SessionConfig{
			Name:            "clubhub_session",
			Secret:          "change-me",
			LifetimeSeconds: 86400,
		},
		RateLimit: RateLimitConfig{
			WindowSeconds:      3600,
			FailOpen:           true,
			CleanupProbability: 0.01,
			BurstPerSecond:     20,
			Burst:              40,
		},
		Redis: RedisConfig{
			Channel: "clubhub:chat",
		},
		AWS: AWSConfig{
			MetricsNamespace: "ClubHub",
			XRaySegmentName:  "club-hub",
		},
		Cleanup: CleanupConfig{
			Schedule: "@every 15m",
		},
	}
}

// Load builds the configuration. A missing .env or YAML file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug.Printf("Load: no .env file loaded: %v", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("CLUBHUB_CONFIG")
	}
	if path == "" {
		path = "config/clubhub.yaml"
	}

	data, err := os.ReadFile(path) // #nosec G304
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		logger.Info.Printf("Load: configuration read from %s", path)
	case errors.Is(err, os.ErrNotExist):
		logger.Debug.Printf("Load: %s not found, using defaults", path)
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn is required")
	}
	if c.Session.Secret == "" {
		return errors.New("session secret is required")
	}
	if c.Env == "production" && c.Session.Secret == "change-me" {
		return errors.New("session secret must be set in production")
	}
	if c.RateLimit.WindowSeconds <= 0 {
		return errors.New("rate limit window must be positive")
	}
	if c.RateLimit.CleanupProbability < 0 || c.RateLimit.CleanupProbability > 1 {
		return errors.New("rate limit cleanup probability must be between 0 and 1")
	}
	return nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.Port, "PORT")
	setString(&cfg.ApplicationURL, "APPLICATION_URL")
	setString(&cfg.Database.Driver, "CLUBHUB_DB_DRIVER")
	setString(&cfg.Database.DSN, "CLUBHUB_DB_DSN")
	setString(&cfg.Session.Secret, "CLUBHUB_SESSION_SECRET")
	setString(&cfg.Redis.URL, "CLUBHUB_REDIS_URL")
	setString(&cfg.Logging.File, "CLUBHUB_LOG_FILE")
	setString(&cfg.Cleanup.Schedule, "CLUBHUB_CLEANUP_SCHEDULE")
	setString(&cfg.Owner.Email, "CLUBHUB_OWNER_EMAIL")
	setString(&cfg.Owner.Password, "CLUBHUB_OWNER_PASSWORD")

	if v := os.Getenv("CLUBHUB_TRUSTED_PROXIES"); v != "" {
		cfg.TrustedProxies = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}

	bools := map[string]*bool{
		"RATE_LIMIT_FAIL_OPEN":       &cfg.RateLimit.FailOpen,
		"CLUBHUB_SESSION_SECURE":     &cfg.Session.Secure,
		"CLUBHUB_CLOUDWATCH_ENABLED": &cfg.AWS.CloudWatchEnabled,
		"CLUBHUB_XRAY_ENABLED":       &cfg.AWS.XRayEnabled,
	}
	for key, dst := range bools {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
