package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.AppPort != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.AppPort)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("expected 15s request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.PaymentWatchTimeout != 3*time.Minute {
		t.Fatalf("expected 3m watch timeout, got %s", cfg.PaymentWatchTimeout)
	}
	if cfg.Timezone != "Africa/Nairobi" {
		t.Fatalf("unexpected timezone %q", cfg.Timezone)
	}
}

func TestLocationFallback(t *testing.T) {
	prev := AppConfig
	defer func() { AppConfig = prev }()

	AppConfig.Timezone = "Not/AZone"
	loc := Location()
	_, offset := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
	if offset != 3*60*60 {
		t.Fatalf("expected +03:00 fallback, got offset %d", offset)
	}
}

func TestRequestTimeoutFallback(t *testing.T) {
	prev := AppConfig
	defer func() { AppConfig = prev }()

	AppConfig.RequestTimeout = 0
	if got := RequestTimeout(); got != 15*time.Second {
		t.Fatalf("expected 15s, got %s", got)
	}
}
