package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// Database settings; SQLite by path is the default, postgres and mysql
	// connect by URL.
	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	MigrationsPath  string
	StaticFilesPath string

	// JWTSecret signs admin API tokens.
	JWTSecret   string
	JWTLifetime time.Duration

	// Bootstrap admin account, created on startup if no admin exists.
	AdminEmail    string
	AdminPassword string

	// Optional Google sign-in for the admin panel.
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectBase  string

	// Operator digest email via SES. Disabled when the recipient is empty.
	AWSRegion       string
	DigestSender    string
	DigestRecipient string

	// BeaconBaseURL is an optional external analytics collector; lifecycle
	// beacons are mirrored there when set.
	BeaconBaseURL string

	// AutosaveInterval is how often in-flight sessions snapshot their
	// progress.
	AutosaveInterval time.Duration

	// SessionIdleTimeout is how long an untouched live session is kept before
	// the registry evicts it.
	SessionIdleTimeout time.Duration
}

// Load reads configuration from the environment with sensible defaults. A
// .env file in the working directory is merged in first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	return &Config{
		ServerPort:         getEnv("PORT", "8080"),
		DatabaseType:       getEnv("DB_TYPE", "sqlite"),
		DatabasePath:       getEnv("DB_PATH", "./spelldaily.db"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "./migrations"),
		StaticFilesPath:    getEnv("STATIC_PATH", "./static"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTLifetime:        getDurationEnv("JWT_LIFETIME", 12*time.Hour),
		AdminEmail:         getEnv("ADMIN_EMAIL", ""),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBase:  getEnv("OAUTH_REDIRECT_BASE", "http://localhost:8080"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		DigestSender:       getEnv("DIGEST_SENDER", ""),
		DigestRecipient:    getEnv("DIGEST_RECIPIENT", ""),
		BeaconBaseURL:      getEnv("BEACON_BASE_URL", ""),
		AutosaveInterval:   getDurationEnv("AUTOSAVE_INTERVAL", 30*time.Second),
		SessionIdleTimeout: getDurationEnv("SESSION_IDLE_TIMEOUT", 2*time.Hour),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv reads a duration variable, accepting Go duration strings or
// plain seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Warning: invalid duration for %s: %q, using default", key, value)
	return defaultValue
}
