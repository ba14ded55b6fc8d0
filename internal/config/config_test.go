package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ServerPort == "" || cfg.Addr() != ":"+cfg.ServerPort {
		t.Errorf("unexpected address %q", cfg.Addr())
	}
	if cfg.SettingsCacheTTL != 5*time.Minute {
		t.Errorf("expected 5m cache ttl, got %s", cfg.SettingsCacheTTL)
	}
	if cfg.PublicRateLimitRPS != 5 || cfg.PublicRateLimitBurst != 10 {
		t.Errorf("unexpected rate limit %v/%d", cfg.PublicRateLimitRPS, cfg.PublicRateLimitBurst)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Errorf("expected no cors origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SETTINGS_CACHE_TTL", "30s")
	t.Setenv("PUBLIC_RATE_LIMIT_RPS", "2.5")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com ,")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.IsProduction() || cfg.IsDev() {
		t.Error("expected production env")
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("unexpected addr %s", cfg.Addr())
	}
	if cfg.SettingsCacheTTL != 30*time.Second {
		t.Errorf("unexpected ttl %s", cfg.SettingsCacheTTL)
	}
	if cfg.PublicRateLimitRPS != 2.5 {
		t.Errorf("unexpected rps %v", cfg.PublicRateLimitRPS)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:                  "development",
			ServerPort:           "8080",
			JWTSecret:            "changeme",
			DefaultTimezone:      "UTC",
			PublicRateLimitRPS:   5,
			PublicRateLimitBurst: 10,
			SettingsCacheTTL:     time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"default secret in production", func(c *Config) { c.Env = "production" }, true},
		{"production with secret", func(c *Config) { c.Env = "production"; c.JWTSecret = "s3cr3t" }, false},
		{"bad timezone", func(c *Config) { c.DefaultTimezone = "Mars/Olympus" }, true},
		{"no port", func(c *Config) { c.ServerPort = "" }, true},
		{"zero rate", func(c *Config) { c.PublicRateLimitRPS = 0 }, true},
		{"negative ttl", func(c *Config) { c.SettingsCacheTTL = -time.Second }, true},
		{"bucket without region", func(c *Config) { c.S3Bucket = "exports" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
