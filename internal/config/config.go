package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/agriweather-dashboard/internal/weather"
)

type AppConfig struct {
	Port string

	// UpstreamBaseURL is the AgriWeather advisory backend, including its API prefix.
	UpstreamBaseURL string
	HTTPTimeout     time.Duration

	// Default location and crop shown by the "latest" dashboard.
	DefaultLocation weather.Location
	DefaultCrop     string

	// PrecipitationTargetMM is the rainfall that fills the rain gauge.
	PrecipitationTargetMM float64

	// RefreshInterval controls how often the latest advisory is re-fetched; it is also
	// how long a cached latest advisory counts as fresh.
	RefreshInterval time.Duration

	// Payload cache retention.
	CacheMaxEntries int           // max number of cached payloads (0 = unlimited)
	CacheMaxAge     time.Duration // max age of cached payloads (0 = unlimited)

	// Redis cache; empty address means the in-memory cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// GeocoderAPIKey enables city/country lookups; empty disables them.
	GeocoderAPIKey string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.UpstreamBaseURL = getenvDefault("UPSTREAM_BASE_URL", "http://127.0.0.1:8000/api/v1")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.CacheMaxAge, err = getenvDuration("CACHE_MAX_AGE", "1h"); err != nil {
		return nil, err
	}
	cfg.CacheMaxEntries = getenvInt("CACHE_MAX_ENTRIES", 256)

	lat, err := getenvFloat("DEFAULT_LATITUDE", 0.021)
	if err != nil {
		return nil, err
	}
	lon, err := getenvFloat("DEFAULT_LONGITUDE", 37.906)
	if err != nil {
		return nil, err
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("default location out of range: %v,%v", lat, lon)
	}
	cfg.DefaultLocation = weather.Location{Latitude: lat, Longitude: lon}
	cfg.DefaultCrop = getenvDefault("DEFAULT_CROP", "maize")

	if cfg.PrecipitationTargetMM, err = getenvFloat("PRECIPITATION_TARGET_MM", 10); err != nil {
		return nil, err
	}
	if cfg.PrecipitationTargetMM <= 0 {
		return nil, fmt.Errorf("invalid PRECIPITATION_TARGET_MM: must be positive")
	}

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getenvInt("REDIS_DB", 0)

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "json")

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

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
