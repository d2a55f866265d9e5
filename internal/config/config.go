package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string

	// AppAPIKey is the shared secret the frontend must present in the
	// x-api-key header on protected routes.
	AppAPIKey string

	// CORSOrigins is the comma-joined list of allowed origins.
	CORSOrigins string

	// Google OAuth credentials.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	// MongoURI is the connection string for the durable record store.
	// When empty the server falls back to the in-memory store.
	MongoURI string

	// Upstream API credentials.
	RapidAPIKey       string
	RapidAPIHost      string
	OpenWeatherAPIKey string

	// HTTPTimeout applies to all outbound upstream calls.
	HTTPTimeout time.Duration

	// HealthInterval controls how often the store health monitor pings
	// the database.
	HealthInterval time.Duration

	SessionMaxAge time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "3000")
	cfg.AppAPIKey = os.Getenv("APP_API_KEY")
	cfg.CORSOrigins = getenvDefault("CORS_ORIGINS",
		"http://localhost:3000,http://127.0.0.1:3000")

	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	cfg.GoogleCallbackURL = getenvDefault("GOOGLE_CALLBACK_URL",
		"http://localhost:3000/auth/google/callback")

	cfg.MongoURI = os.Getenv("MONGODB_URI")

	cfg.RapidAPIKey = os.Getenv("RAPIDAPI_KEY")
	cfg.RapidAPIHost = getenvDefault("RAPIDAPI_HOST", "wft-geo-db.p.rapidapi.com")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	healthStr := getenvDefault("HEALTH_INTERVAL", "15s")
	health, err := time.ParseDuration(healthStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HEALTH_INTERVAL: %w", err)
	}
	cfg.HealthInterval = health

	maxAgeStr := getenvDefault("SESSION_MAX_AGE", "24h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_MAX_AGE: %w", err)
	}
	cfg.SessionMaxAge = maxAge

	if cfg.AppAPIKey == "" {
		log.Println("WARN: APP_API_KEY is not set; protected routes will reject every request")
	}

	return cfg, nil
}

// AllowedOrigins splits CORSOrigins into individual origins.
func (c *AppConfig) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
