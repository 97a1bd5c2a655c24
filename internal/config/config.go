package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port           int      // HTTP server port
	AllowedOrigins []string // Origins allowed by the CORS middleware

	// Scanner configuration
	RequestTimeout      time.Duration // Per-fetch timeout, 0 leaves the transport defaults alone
	DefaultUserAgent    string        // User-Agent sent with every fetch
	MaxBodyBytes        int64         // Response bodies are truncated past this size
	MaxInFlight         int           // Crawl fetches in flight, 0 = unbounded
	DetectorConcurrency int           // Page re-fetches in flight per detector
	ReuseBodies         bool          // Detectors reuse bodies cached during the crawl

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables
// and returns a Config struct with defaults applied
func Load() *Config {
	return &Config{
		Port:                getEnvAsInt("PORT", 8001),
		AllowedOrigins:      getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:8000", "http://0.0.0.0:8000"}),
		RequestTimeout:      getEnvAsDuration("REQUEST_TIMEOUT", 0),
		DefaultUserAgent:    getEnv("DEFAULT_USER_AGENT", "sitescan/1.0"),
		MaxBodyBytes:        int64(getEnvAsInt("MAX_BODY_BYTES", 5*1024*1024)),
		MaxInFlight:         getEnvAsInt("MAX_IN_FLIGHT", 0),
		DetectorConcurrency: getEnvAsInt("DETECTOR_CONCURRENCY", 8),
		ReuseBodies:         getEnvAsBool("REUSE_BODIES", false),
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

// getEnv reads an environment variable or returns a default value.
// An empty variable counts as unset.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as an integer
// If the variable doesn't exist or can't be parsed, returns the default
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBool accepts anything strconv.ParseBool does
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsList splits a comma separated variable, dropping empty entries
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}

	return values
}

// getEnvAsDuration reads an environment variable as milliseconds and converts to time.Duration
// If the variable doesn't exist or can't be parsed, returns the default
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	// Parse as milliseconds
	ms, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return time.Duration(ms) * time.Millisecond
}
