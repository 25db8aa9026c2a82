// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Tool output limit defaults
const (
	DefaultSearchLimitValue = 100
	DefaultRecentLimitValue = 50
	DefaultExecLimitValue   = 100
	DefaultRecentHoursValue = 24
)

// Processing safety cap defaults
const (
	MaxResultsLimitValue = 10000
	MaxOutputBytesValue  = 16 * 1024 * 1024
)

// Content output grammars understood by the parse package.
const (
	ContentFormatText = "text"
	ContentFormatJSON = "json"
)

// Config holds all configuration for the MCP server.
type Config struct {
	Root           string        // FD_MCP_ROOT, default: process working directory
	FdBinary       string        // FD_MCP_FD_BINARY, probed before fd/fdfind
	RgBinary       string        // FD_MCP_RG_BINARY, probed before rg
	CommandTimeout time.Duration // COMMAND_TIMEOUT_MS, default 30000ms (30s)
	ExecTimeout    time.Duration // EXEC_TIMEOUT_MS, default 30000ms, per file
	ExecWorkers    int           // EXEC_WORKERS, default 4
	MaxOutputBytes int           // MAX_OUTPUT_BYTES, default 16MiB per stream
	ContentFormat  string        // CONTENT_FORMAT, "text" or "json"
	HistorySize    int           // HISTORY_SIZE, default 64

	// Tool output limits
	DefaultSearchLimit int     // DEFAULT_SEARCH_LIMIT
	DefaultRecentLimit int     // DEFAULT_RECENT_LIMIT
	DefaultExecLimit   int     // DEFAULT_EXEC_LIMIT
	DefaultRecentHours float64 // DEFAULT_RECENT_HOURS

	// Requests asking for more than this are rejected, not clamped.
	MaxResultsLimit int // MAX_RESULTS_LIMIT, default 10000

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogFormat     string // LOG_FORMAT, "text" or "json"
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Root:           getEnvString("FD_MCP_ROOT", workingDir()),
		FdBinary:       getEnvString("FD_MCP_FD_BINARY", ""),
		RgBinary:       getEnvString("FD_MCP_RG_BINARY", ""),
		CommandTimeout: getEnvDurationMs("COMMAND_TIMEOUT_MS", 30000),
		ExecTimeout:    getEnvDurationMs("EXEC_TIMEOUT_MS", 30000),
		ExecWorkers:    getEnvInt("EXEC_WORKERS", 4),
		MaxOutputBytes: getEnvInt("MAX_OUTPUT_BYTES", MaxOutputBytesValue),
		ContentFormat:  getEnvString("CONTENT_FORMAT", ContentFormatText),
		HistorySize:    getEnvInt("HISTORY_SIZE", 64),

		DefaultSearchLimit: getEnvInt("DEFAULT_SEARCH_LIMIT", DefaultSearchLimitValue),
		DefaultRecentLimit: getEnvInt("DEFAULT_RECENT_LIMIT", DefaultRecentLimitValue),
		DefaultExecLimit:   getEnvInt("DEFAULT_EXEC_LIMIT", DefaultExecLimitValue),
		DefaultRecentHours: getEnvFloat("DEFAULT_RECENT_HOURS", DefaultRecentHoursValue),

		MaxResultsLimit: getEnvInt("MAX_RESULTS_LIMIT", MaxResultsLimitValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// Default returns the configuration used when no environment is set.
// Tests build on it and override individual fields.
func Default() *Config {
	return &Config{
		Root:               ".",
		CommandTimeout:     30 * time.Second,
		ExecTimeout:        30 * time.Second,
		ExecWorkers:        4,
		MaxOutputBytes:     MaxOutputBytesValue,
		ContentFormat:      ContentFormatText,
		HistorySize:        64,
		DefaultSearchLimit: DefaultSearchLimitValue,
		DefaultRecentLimit: DefaultRecentLimitValue,
		DefaultExecLimit:   DefaultExecLimitValue,
		DefaultRecentHours: DefaultRecentHoursValue,
		MaxResultsLimit:    MaxResultsLimitValue,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
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

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
