// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Database connections, populated on demand by LoadDatabases
	Snowflake *SnowflakeConfig
	Postgres  *PostgresConfig

	// HTTP adapter settings
	HTTPAddr            string
	MaxUploadMB         int
	PreviewRows         int
	DuplicateSampleRows int
	UploadRPS           float64 // uploads per second, 0 disables limiting
	UploadBurst         int

	// Export settings
	CSVBOM bool

	// Extra tokens read as missing on top of the built-in set
	NullTokens []string

	// Timeout applied to database table loads
	QueryTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		// Default values
		HTTPAddr:            getEnv("DATACLEANER_HTTP_ADDR", ":8080"),
		MaxUploadMB:         getEnvAsInt("DATACLEANER_MAX_UPLOAD_MB", 50),
		PreviewRows:         getEnvAsInt("DATACLEANER_PREVIEW_ROWS", 10),
		DuplicateSampleRows: getEnvAsInt("DATACLEANER_DUPLICATE_SAMPLE_ROWS", 20),
		UploadRPS:           getEnvAsFloat("DATACLEANER_UPLOAD_RPS", 0),
		UploadBurst:         getEnvAsInt("DATACLEANER_UPLOAD_BURST", 5),
		CSVBOM:              getEnvAsBool("DATACLEANER_CSV_BOM", false),
		NullTokens:          getEnvAsStringSlice("DATACLEANER_NULL_TOKENS", nil),
		QueryTimeout:        time.Duration(getEnvAsInt("DATACLEANER_QUERY_TIMEOUT_SECONDS", 120)) * time.Second,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabases loads the connection settings for the named database
// kinds. Only requested kinds must have their environment present.
func (c *Config) LoadDatabases(kinds ...string) error {
	for _, kind := range kinds {
		switch kind {
		case "postgres":
			pgConfig, err := LoadPostgresConfig()
			if err != nil {
				return errors.New("failed to load PostgreSQL configuration: " + err.Error())
			}
			c.Postgres = pgConfig
		case "snowflake":
			snowConfig, err := LoadSnowflakeConfig()
			if err != nil {
				return errors.New("failed to load Snowflake configuration: " + err.Error())
			}
			c.Snowflake = snowConfig
		default:
			return errors.New("unknown database kind: " + kind)
		}
	}
	return nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http address is required")
	}

	if c.MaxUploadMB <= 0 {
		return errors.New("max upload size must be positive")
	}

	if c.PreviewRows < 0 {
		return errors.New("preview rows cannot be negative")
	}

	if c.DuplicateSampleRows < 0 {
		return errors.New("duplicate sample rows cannot be negative")
	}

	if c.UploadRPS < 0 {
		return errors.New("upload rate cannot be negative")
	}

	if c.UploadRPS > 0 && c.UploadBurst <= 0 {
		return errors.New("upload burst must be positive when rate limiting is enabled")
	}

	if c.QueryTimeout <= 0 {
		return errors.New("query timeout must be positive")
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return errors.New("log format must be json or console")
	}

	return nil
}

// MaxUploadBytes returns the upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

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

// getEnvAsStringSlice parses a comma separated list, dropping empty items
func getEnvAsStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result []string
	for _, v := range strings.Split(value, ",") {
		v = strings.Trim(strings.TrimSpace(v), `"`)
		if v != "" {
			result = append(result, v)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
