package config

import (
	"os"
	"strings"
	"time"

	"go-fleetpay/internal/shared/connection"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	Port                  string
	Env                   string
	DB                    connection.DBConfig
	RedisAddr             string
	KafkaBroker           string
	JWTSecret             string
	AdminUsername         string
	AdminPassword         string
	DefaultDriverPassword string
	StatementDir          string
	SettleLockTTL         time.Duration
	AllowedOrigins        []string
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env when present, then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "3000"),
		Env:  getEnv("APP_ENV", "development"),
		DB: connection.DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "fleetpay"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		KafkaBroker:           getEnv("KAFKA_BROKER", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		AdminUsername:         getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:         getEnv("ADMIN_PASSWORD", ""),
		DefaultDriverPassword: getEnv("DEFAULT_DRIVER_PASSWORD", "password123"),
		StatementDir:          getEnv("STATEMENT_DIR", "./storage/statements"),
		SettleLockTTL:         getDuration("SETTLE_LOCK_TTL", 30*time.Second),
		AllowedOrigins:        splitAndTrim(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// splitAndTrim turns a comma separated list into its non-empty parts.
func splitAndTrim(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
