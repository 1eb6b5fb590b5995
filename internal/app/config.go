package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/driveway/driveway/pkg/jwtx"
	"github.com/joho/godotenv"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	DatabaseFile string // Path to SQLite database file (default: ./driveway.db)
	PepperFile   string // Path to file containing pepper for password hashing (default: ./pepper)

	// Token secrets, one per kind. Required outside dev.
	AccessTokenSecret  string
	RefreshTokenSecret string
	ResetTokenSecret   string

	AccessTokenTTL  time.Duration // Access token lifetime (default: 1h)
	RefreshTokenTTL time.Duration // Refresh token lifetime (default: 30 days)
	ResetTokenTTL   time.Duration // Password reset token lifetime (default: 15m)

	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration from the environment, with a .env file as
// an optional local overlay. In dev the token secrets fall back to fixed
// placeholders; any other environment must provide all three.
func LoadConfig() (Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("PORT", 8080),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "driveway.db"),
		PepperFile:   getEnvOrDefault("PEPPER_FILE", "pepper"),

		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		ResetTokenSecret:   os.Getenv("RESET_TOKEN_SECRET"),

		AccessTokenTTL:  getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTTL),
		ResetTokenTTL:   getEnvDurationOrDefault("RESET_TOKEN_TTL", jwtx.DefaultResetTTL),

		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	missingSecrets := cfg.AccessTokenSecret == "" ||
		cfg.RefreshTokenSecret == "" ||
		cfg.ResetTokenSecret == ""
	if missingSecrets {
		if cfg.Env != "dev" {
			return Config{}, errors.New("ACCESS_TOKEN_SECRET, REFRESH_TOKEN_SECRET and RESET_TOKEN_SECRET are required outside dev")
		}
		cfg.AccessTokenSecret = "dev-access-token-secret"
		cfg.RefreshTokenSecret = "dev-refresh-token-secret"
		cfg.ResetTokenSecret = "dev-reset-token-secret"
	}

	return cfg, nil
}

// Dev reports whether this is a development configuration.
func (c Config) Dev() bool { return c.Env == "dev" }

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
