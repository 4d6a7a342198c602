// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"strings"
	"testing"
	"time"
)

// setRequired sets the minimum environment Load needs to succeed.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("REPO_OWNER", "acme")
	t.Setenv("REPO_NAME", "mods")
}

// clearOptional blanks every optional variable so defaults apply.
// envOrDefault treats an empty value the same as unset.
func clearOptional(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_HOST", "APP_PORT", "APP_ENV",
		"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
		"REPO_TOKEN", "HUB_BASE_URL", "SNAPSHOT_URL", "SNAPSHOT_TTL",
		"CAPTCHA_SECRET", "ALLOWED_ORIGINS", "MAX_UPLOAD_BYTES",
		"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY",
		"S3_BUCKET", "S3_PUBLIC_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearOptional(t)
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	check := func(field, got, want string) {
		t.Helper()
		if got != want {
			t.Errorf("%s = %q, want %q", field, got, want)
		}
	}

	check("Host", cfg.Host, "0.0.0.0")
	check("Port", cfg.Port, "8080")
	check("Env", cfg.Env, "development")
	check("ValkeyHost", cfg.ValkeyHost, "localhost")
	check("ValkeyPort", cfg.ValkeyPort, "6379")
	check("S3Region", cfg.S3Region, "us-east-1")
	check("SnapshotURL", cfg.SnapshotURL,
		"https://raw.githubusercontent.com/acme/mods/main/content.json")

	if cfg.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, DefaultMaxUploadBytes)
	}
	if cfg.SnapshotTTL != 5*time.Minute {
		t.Errorf("SnapshotTTL = %v, want 5m", cfg.SnapshotTTL)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins = %v, want empty", cfg.AllowedOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequired(t)
	overrides := map[string]string{
		"APP_HOST":         "127.0.0.1",
		"APP_PORT":         "9090",
		"APP_ENV":          "testing",
		"VALKEY_HOST":      "cache.example.com",
		"VALKEY_PORT":      "6380",
		"VALKEY_PASSWORD":  "cachepass",
		"REPO_TOKEN":       "ghp_test",
		"HUB_BASE_URL":     "https://git.internal.example.com",
		"SNAPSHOT_URL":     "https://cdn.example.com/content.json",
		"SNAPSHOT_TTL":     "30s",
		"CAPTCHA_SECRET":   "captcha-secret",
		"MAX_UPLOAD_BYTES": "1048576",
		"S3_ENDPOINT":      "https://s3.example.com",
		"S3_REGION":        "eu-central-1",
		"S3_ACCESS_KEY":    "AKIATEST",
		"S3_SECRET_KEY":    "secrettest",
		"S3_BUCKET":        "mod-archive",
		"S3_PUBLIC_URL":    "https://cdn.example.com",
	}
	for key, val := range overrides {
		t.Setenv(key, val)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	check := func(field, got, want string) {
		t.Helper()
		if got != want {
			t.Errorf("%s = %q, want %q", field, got, want)
		}
	}

	check("Host", cfg.Host, "127.0.0.1")
	check("Port", cfg.Port, "9090")
	check("Env", cfg.Env, "testing")
	check("ValkeyHost", cfg.ValkeyHost, "cache.example.com")
	check("ValkeyPort", cfg.ValkeyPort, "6380")
	check("ValkeyPassword", cfg.ValkeyPassword, "cachepass")
	check("RepoToken", cfg.RepoToken, "ghp_test")
	check("HubBaseURL", cfg.HubBaseURL, "https://git.internal.example.com")
	check("SnapshotURL", cfg.SnapshotURL, "https://cdn.example.com/content.json")
	check("CaptchaSecret", cfg.CaptchaSecret, "captcha-secret")
	check("S3Endpoint", cfg.S3Endpoint, "https://s3.example.com")
	check("S3Region", cfg.S3Region, "eu-central-1")
	check("S3AccessKey", cfg.S3AccessKey, "AKIATEST")
	check("S3SecretKey", cfg.S3SecretKey, "secrettest")
	check("S3Bucket", cfg.S3Bucket, "mod-archive")
	check("S3PublicURL", cfg.S3PublicURL, "https://cdn.example.com")

	if cfg.MaxUploadBytes != 1048576 {
		t.Errorf("MaxUploadBytes = %d, want 1048576", cfg.MaxUploadBytes)
	}
	if cfg.SnapshotTTL != 30*time.Second {
		t.Errorf("SnapshotTTL = %v, want 30s", cfg.SnapshotTTL)
	}
}

func TestLoad_AllowedOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://mods.example.com, *.example.net, ,https://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	want := []string{"https://mods.example.com", "*.example.net", "https://b.test"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestLoad_RequiredRepo(t *testing.T) {
	t.Setenv("REPO_OWNER", "")
	t.Setenv("REPO_NAME", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail without repository coordinates")
	}
	if !strings.Contains(err.Error(), "REPO_OWNER") {
		t.Errorf("error should mention REPO_OWNER, got: %v", err)
	}
}

func TestLoad_ProductionRequiresToken(t *testing.T) {
	t.Run("rejects missing token", func(t *testing.T) {
		setRequired(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("REPO_TOKEN", "")

		_, err := Load()
		if err == nil {
			t.Fatal("Load() should fail in production without REPO_TOKEN")
		}
		if !strings.Contains(err.Error(), "REPO_TOKEN") {
			t.Errorf("error should mention REPO_TOKEN, got: %v", err)
		}
	})

	t.Run("accepts token", func(t *testing.T) {
		setRequired(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("REPO_TOKEN", "ghp_real")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if cfg.RepoToken != "ghp_real" {
			t.Errorf("RepoToken = %q", cfg.RepoToken)
		}
	})

	t.Run("development tolerates missing token", func(t *testing.T) {
		setRequired(t)
		t.Setenv("APP_ENV", "development")
		t.Setenv("REPO_TOKEN", "")

		if _, err := Load(); err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
	})
}

func TestLoad_BadNumbers(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non-numeric upload cap", "MAX_UPLOAD_BYTES", "a-lot"},
		{"negative upload cap", "MAX_UPLOAD_BYTES", "-1"},
		{"zero upload cap", "MAX_UPLOAD_BYTES", "0"},
		{"bad snapshot ttl", "SNAPSHOT_TTL", "soon"},
		{"negative snapshot ttl", "SNAPSHOT_TTL", "-5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			if _, err := Load(); err == nil {
				t.Errorf("Load() should reject %s=%q", tt.key, tt.val)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		port     string
		expected string
	}{
		{name: "default", host: "0.0.0.0", port: "8080", expected: "0.0.0.0:8080"},
		{name: "localhost with custom port", host: "127.0.0.1", port: "3000", expected: "127.0.0.1:3000"},
		{name: "empty host", host: "", port: "8080", expected: ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Host: tt.host, Port: tt.port}
			if got := cfg.Addr(); got != tt.expected {
				t.Errorf("Addr() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsDev(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		expected bool
	}{
		{name: "development mode", env: "development", expected: true},
		{name: "production mode", env: "production", expected: false},
		{name: "testing mode", env: "testing", expected: false},
		{name: "empty string", env: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Env: tt.env}
			if got := cfg.IsDev(); got != tt.expected {
				t.Errorf("IsDev() = %v, want %v (env=%q)", got, tt.expected, tt.env)
			}
		})
	}
}
