package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "CAPS_API_URL", "FRAUD_API_URL", "HTTP_TIMEOUT", "DAILY_LIMIT", "WS_MAX_CLIENTS", "OTEL_EXPORTER_OTLP_ENDPOINT"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.CommandAPIURL != "http://localhost:8000" {
		t.Errorf("unexpected command URL %q", cfg.CommandAPIURL)
	}
	if cfg.FraudAPIURL != cfg.CommandAPIURL {
		t.Errorf("expected fraud URL to default to command URL, got %q", cfg.FraudAPIURL)
	}
	if cfg.DailyLimit != 2000 {
		t.Errorf("expected daily limit 2000, got %v", cfg.DailyLimit)
	}
	if cfg.OTLPEndpoint != "" {
		t.Errorf("expected tracing disabled by default, got %q", cfg.OTLPEndpoint)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CAPS_API_URL", "http://caps:8000")
	t.Setenv("FRAUD_API_URL", "")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("DAILY_LIMIT", "5000.5")
	t.Setenv("WS_MAX_CLIENTS", "not-a-number")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.FraudAPIURL != "http://caps:8000" {
		t.Errorf("expected fraud URL to follow CAPS_API_URL, got %q", cfg.FraudAPIURL)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.DailyLimit != 5000.5 {
		t.Errorf("expected daily limit 5000.5, got %v", cfg.DailyLimit)
	}
	if cfg.WSMaxClients != 64 {
		t.Errorf("expected fallback on bad int, got %d", cfg.WSMaxClients)
	}
}

func TestLoad_NonPositiveDurationFallsBack(t *testing.T) {
	for _, v := range []string{"0s", "-5s", "later"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("HTTP_TIMEOUT", v)

			cfg := Load()

			if cfg.HTTPTimeout != 10*time.Second {
				t.Errorf("expected fallback 10s for %q, got %v", v, cfg.HTTPTimeout)
			}
		})
	}
}
