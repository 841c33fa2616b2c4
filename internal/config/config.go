// Package config reads server settings from .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabasePath  string
	DefaultUserID string

	// RedisURL is empty when the dashboard cache is disabled
	RedisURL          string
	DashboardCacheTTL time.Duration

	Cognito Cognito
}

type Cognito struct {
	UserPoolID      string
	AppClientID     string
	AppClientSecret string
	Region          string
	JWKSURL         string
}

// Enabled reports whether a user pool is configured
func (c Cognito) Enabled() bool {
	return c.UserPoolID != ""
}

// Load reads .env.local, falling back to .env, and then the environment.
// Variables already set in the environment win over file values.
func Load() (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		DatabasePath:  getenv("DATABASE_PATH", "keeporcut.db"),
		DefaultUserID: getenv("DEFAULT_USER_ID", "local-user"),
		RedisURL:      os.Getenv("REDIS_URL"),
		Cognito: Cognito{
			UserPoolID:      os.Getenv("COGNITO_USER_POOL_ID"),
			AppClientID:     os.Getenv("COGNITO_APP_CLIENT_ID"),
			AppClientSecret: os.Getenv("COGNITO_APP_CLIENT_SECRET"),
			Region:          os.Getenv("AWS_REGION"),
			JWKSURL:         os.Getenv("COGNITO_JWKS_URL"),
		},
	}

	ttl, err := time.ParseDuration(getenv("DASHBOARD_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("DASHBOARD_CACHE_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, errors.New("DASHBOARD_CACHE_TTL must be positive")
	}
	cfg.DashboardCacheTTL = ttl

	if cfg.Cognito.Enabled() {
		if cfg.Cognito.Region == "" {
			return nil, errors.New("AWS_REGION is required when COGNITO_USER_POOL_ID is set")
		}
		if cfg.Cognito.AppClientID == "" {
			return nil, errors.New("COGNITO_APP_CLIENT_ID is required when COGNITO_USER_POOL_ID is set")
		}
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
