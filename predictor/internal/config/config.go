package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service settings.
type Config struct {
	// Server settings
	HTTPPort        string
	GRPCPort        string
	ShutdownTimeout time.Duration
	AllowedOrigin   string

	// Assistant panel
	AssistantDelay time.Duration

	// Contact form
	ContactRatePerMinute int
	ContactBurst         int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment, falling back to defaults.
func Load() *Config {
	return &Config{
		HTTPPort:        getEnvString("HTTP_PORT", "8080"),
		GRPCPort:        getEnvString("GRPC_PORT", "50051"),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SEC", 30)) * time.Second,
		AllowedOrigin:   getEnvString("ALLOWED_ORIGIN", "*"),

		AssistantDelay: time.Duration(getEnvInt64("ASSISTANT_DELAY_MS", 1500)) * time.Millisecond,

		ContactRatePerMinute: getEnvInt("CONTACT_RATE_PER_MIN", 10),
		ContactBurst:         getEnvInt("CONTACT_BURST", 5),

		LogLevel:  getEnvString("LOG_LEVEL", "info"),
		LogFormat: getEnvString("LOG_FORMAT", "text"),
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
