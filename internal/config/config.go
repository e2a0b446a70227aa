// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir            string // Base directory for the sqlite databases, always absolute
	Port               int
	LogLevel           string
	DevMode            bool
	SaveScheduleURL    string        // Base URL of the save-schedule API; authUid is appended
	TimelineAPIBaseURL string        // Base URL of the internal timeline API
	TimelineAPIKey     string        // API key for the internal timeline API
	WorkerInterval     time.Duration // Sleep between work-queue iterations
	RefreshCron        string        // Cron spec for the periodic full refresh; empty = disabled
}

// Load reads configuration from environment variables.
// A conf/local.env file is loaded first if present, matching the historical
// deployment layout, then .env as a fallback.
func Load() (*Config, error) {
	_ = godotenv.Load("conf/local.env")
	_ = godotenv.Load()

	// Determine data directory:
	// 1. Check PUBLISHTIMER_DATA_DIR environment variable
	// 2. If not set, default to ./data
	// 3. Always resolve to absolute path and ensure it exists
	dataDir := getEnv("PUBLISHTIMER_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:            absDataDir,
		Port:               getEnvAsInt("PORT", 5001),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		SaveScheduleURL:    getEnv("SAVE_SCHEDULE_URL", ""),
		TimelineAPIBaseURL: getEnv("TIMELINE_API_BASE_URL", ""),
		TimelineAPIKey:     getEnv("TIMELINE_API_KEY", ""),
		WorkerInterval:     time.Duration(getEnvAsInt("WORKER_INTERVAL_SECONDS", 30)) * time.Second,
		RefreshCron:        getEnv("REFRESH_CRON", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.SaveScheduleURL == "" {
		return fmt.Errorf("SAVE_SCHEDULE_URL is required")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
