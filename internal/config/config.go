// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
)

// Defaults
const (
	DefaultBodyCacheMaxItems = 256
	DefaultBatchWorkers      = 4
	DefaultSummaryLimit      = 100
)

// Config holds all configuration for the CLI and the MCP server.
type Config struct {
	BodyCacheMaxItems   int // BODY_CACHE_MAX_ITEMS, default 256 (0 disables)
	BatchWorkers        int // BATCH_WORKERS, default 4
	SummaryLimitDefault int // SUMMARY_LIMIT_DEFAULT, default 100

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, "text" or "json", default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		BodyCacheMaxItems:   getEnvInt("BODY_CACHE_MAX_ITEMS", DefaultBodyCacheMaxItems),
		BatchWorkers:        getEnvPositiveInt("BATCH_WORKERS", DefaultBatchWorkers),
		SummaryLimitDefault: getEnvPositiveInt("SUMMARY_LIMIT_DEFAULT", DefaultSummaryLimit),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvPositiveInt is getEnvInt that also rejects values below 1.
func getEnvPositiveInt(key string, defaultVal int) int {
	if i := getEnvInt(key, defaultVal); i > 0 {
		return i
	}
	return defaultVal
}
