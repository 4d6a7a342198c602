// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxUploadBytes caps a single submitted file at 100 MB unless
// overridden.
const DefaultMaxUploadBytes = 100 << 20

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Valkey (Redis-compatible counter store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Git host holding the catalog, releases, and tracking issues
	RepoOwner     string
	RepoName      string
	RepoToken     string
	HubBaseURL    string // override for self-hosted instances; empty = github.com
	SnapshotURL   string
	SnapshotTTL   time.Duration
	CaptchaSecret string

	// HTTP surface
	AllowedOrigins []string // exact origins or "*.suffix" patterns
	MaxUploadBytes int64

	// Optional S3-compatible submission archive
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		RepoOwner:     os.Getenv("REPO_OWNER"),
		RepoName:      os.Getenv("REPO_NAME"),
		RepoToken:     os.Getenv("REPO_TOKEN"),
		HubBaseURL:    os.Getenv("HUB_BASE_URL"),
		SnapshotURL:   os.Getenv("SNAPSHOT_URL"),
		CaptchaSecret: os.Getenv("CAPTCHA_SECRET"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	cfg.MaxUploadBytes = DefaultMaxUploadBytes
	if raw := os.Getenv("MAX_UPLOAD_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer, got %q", raw)
		}
		cfg.MaxUploadBytes = n
	}

	cfg.SnapshotTTL = 5 * time.Minute
	if raw := os.Getenv("SNAPSHOT_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("SNAPSHOT_TTL must be a positive duration, got %q", raw)
		}
		cfg.SnapshotTTL = d
	}

	if cfg.RepoOwner == "" || cfg.RepoName == "" {
		return nil, fmt.Errorf("REPO_OWNER and REPO_NAME must be set")
	}
	if cfg.SnapshotURL == "" {
		cfg.SnapshotURL = fmt.Sprintf(
			"https://raw.githubusercontent.com/%s/%s/main/content.json",
			cfg.RepoOwner, cfg.RepoName,
		)
	}
	if cfg.Env == "production" && cfg.RepoToken == "" {
		return nil, fmt.Errorf("REPO_TOKEN must be set in production")
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
