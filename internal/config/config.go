package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// External services
	CommandAPIURL string
	FraudAPIURL   string

	// HTTP client
	HTTPTimeout time.Duration

	// Account panel
	DailyLimit float64

	// Event stream
	WSMaxClients int

	// Observability
	OTLPEndpoint string
}

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CommandAPIURL: getEnv("CAPS_API_URL", "http://localhost:8000"),
		FraudAPIURL:   getEnv("FRAUD_API_URL", getEnv("CAPS_API_URL", "http://localhost:8000")),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		DailyLimit: getEnvFloat("DAILY_LIMIT", 2000),

		WSMaxClients: getEnvInt("WS_MAX_CLIENTS", 64),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvDuration only accepts positive durations; anything else falls back.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
