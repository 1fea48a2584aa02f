// Package config loads server configuration from the environment.
//
// A .env file in the working directory is read first (via godotenv) so
// local development doesn't need exported variables; real environment
// variables always win.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is the full server configuration.
type Config struct {
	Addr       string        // listen address, e.g. ":8080"
	DBPath     string        // SQLite database path, ":memory:" allowed
	JWTSecret  string        // HMAC secret for access tokens
	JWTTTL     time.Duration // access token lifetime
	PolicyPath string        // optional leave policy JSON file
	LogLevel   string        // zerolog level name
}

// Load reads the configuration from .env and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env file")
	}

	cfg := Config{
		Addr:       getEnv("HR_ADDR", ":8080"),
		DBPath:     getEnv("HR_DB_PATH", "hr.db"),
		JWTSecret:  getEnv("HR_JWT_SECRET", ""),
		PolicyPath: getEnv("HR_POLICY_PATH", ""),
		LogLevel:   getEnv("HR_LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("HR_JWT_SECRET is required")
	}

	ttl := getEnv("HR_JWT_TTL", "24h")
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return Config{}, fmt.Errorf("invalid HR_JWT_TTL %q: %w", ttl, err)
	}
	cfg.JWTTTL = d

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
