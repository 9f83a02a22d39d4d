package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTPAddr == "" {
		t.Error("HTTPAddr should have a default")
	}
	if cfg.MessagingAPIBaseURL == "" {
		t.Error("MessagingAPIBaseURL should have a default")
	}
	if cfg.NominatimBaseURL == "" {
		t.Error("NominatimBaseURL should have a default")
	}
}

func TestLoadHTTPAddrOverride(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
}

func TestLoadProductionRequiresChannelSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("CHANNEL_SECRET", "")
	if _, err := Load(); err == nil {
		t.Error("Load() should fail when APP_ENV=production and CHANNEL_SECRET is empty")
	}

	t.Setenv("CHANNEL_SECRET", "secret")
	if _, err := Load(); err != nil {
		t.Errorf("Load() error = %v, want nil with CHANNEL_SECRET set", err)
	}
}

func TestReportTokenLifetime(t *testing.T) {
	cfg := &Config{ReportTokenTTL: "24h"}
	if got := cfg.ReportTokenLifetime(); got != 24*time.Hour {
		t.Errorf("ReportTokenLifetime() = %v, want 24h", got)
	}
	cfg = &Config{ReportTokenTTL: "bogus"}
	if got := cfg.ReportTokenLifetime(); got != 720*time.Hour {
		t.Errorf("ReportTokenLifetime() fallback = %v, want 720h", got)
	}
}

func TestSweepInterval(t *testing.T) {
	cfg := &Config{SessionSweepInterval: "1m"}
	if got := cfg.SweepInterval(); got != time.Minute {
		t.Errorf("SweepInterval() = %v, want 1m", got)
	}
	cfg = &Config{}
	if got := cfg.SweepInterval(); got != 10*time.Minute {
		t.Errorf("SweepInterval() fallback = %v, want 10m", got)
	}
}
