package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	ServerPort string
	ServerHost string

	Environment string

	RedisURL               string
	RateLimitEnabled       bool
	RateLimitIPAttempts    int
	RateLimitIPWindow      time.Duration
	RateLimitBlockDuration time.Duration

	LogLevel               string
	LogFormat              string
	LogCorrelationIDHeader string

	ImageStorePath    string
	ImageStoreBaseURL string

	TokenSweepSchedule  string
	TokenRetentionDays  int

	CORSEnabled        bool
	CORSAllowedOrigins []string
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is required")
	ErrInvalidTokenTTL    = errors.New("invalid token TTL format")
)

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		ServerPort:             getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:             getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
		Environment:            getEnvOrDefault("ENV", "development"),
		RedisURL:               getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RateLimitEnabled:       getEnvOrDefaultBool("RATE_LIMIT_ENABLED", true),
		RateLimitIPAttempts:    getEnvOrDefaultInt("RATE_LIMIT_IP_ATTEMPTS", 5),
		RateLimitIPWindow:      getEnvOrDefaultDuration("RATE_LIMIT_IP_WINDOW", 15*time.Minute),
		RateLimitBlockDuration: getEnvOrDefaultDuration("RATE_LIMIT_BLOCK_DURATION", 30*time.Minute),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		LogCorrelationIDHeader: getEnvOrDefault("LOG_CORRELATION_ID_HEADER", "X-Correlation-ID"),
		ImageStorePath:         getEnvOrDefault("IMAGE_STORE_PATH", "./data/images"),
		ImageStoreBaseURL:      getEnvOrDefault("IMAGE_STORE_BASE_URL", "/images"),
		TokenSweepSchedule:     getEnvOrDefault("TOKEN_SWEEP_SCHEDULE", "0 3 * * *"),
		TokenRetentionDays:     getEnvOrDefaultInt("TOKEN_RETENTION_DAYS", 30),
		CORSEnabled:            getEnvOrDefaultBool("CORS_ENABLED", true),
		CORSAllowedOrigins:     getEnvOrDefaultSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	var err error
	cfg.AccessTokenTTL, err = time.ParseDuration(getEnvOrDefault("ACCESS_TOKEN_TTL", "15m"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RefreshTokenTTL, err = time.ParseDuration(getEnvOrDefault("REFRESH_TOKEN_TTL", "168h"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvOrDefaultSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
