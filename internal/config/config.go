package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/frostline/temp-prediction/internal/forecast"
)

type AppConfig struct {
	Port string

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	// ConfidenceDivisor scales recent temperature variability in the
	// confidence heuristic.
	ConfidenceDivisor float64

	// FeatureSet selects the per-day feature layout; it must match the
	// loaded model artifact.
	FeatureSet forecast.FeatureSet

	// ModelPath points at a JSON model artifact. Empty selects the
	// built-in persistence fallback.
	ModelPath string

	// GeocoderAPIKey enables reverse geocoding when set.
	GeocoderAPIKey string

	// Prediction cache; TTL of 0 disables caching entirely.
	CacheTTL        time.Duration
	CacheMaxEntries int
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.ModelPath = os.Getenv("MODEL_PATH")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.ConfidenceDivisor = getenvFloat("CONFIDENCE_DIVISOR", forecast.DefaultConfidenceDivisor)
	if cfg.ConfidenceDivisor <= 0 {
		return nil, fmt.Errorf("CONFIDENCE_DIVISOR must be positive")
	}

	set := forecast.FeatureSet(getenvDefault("FEATURE_SET", string(forecast.FeatureSetFull)))
	if set != forecast.FeatureSetFull && set != forecast.FeatureSetMinimal {
		return nil, fmt.Errorf("invalid FEATURE_SET %q: use %q or %q",
			set, forecast.FeatureSetFull, forecast.FeatureSetMinimal)
	}
	cfg.FeatureSet = set

	// Cache is off by default: every request re-fetches history.
	ttlStr := getenvDefault("CACHE_TTL", "0s")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl
	cfg.CacheMaxEntries = getenvInt("CACHE_MAX_ENTRIES", 256)

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
