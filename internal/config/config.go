package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the server
type Config struct {
	// Server settings
	Port        int
	CORSOrigins []string
	LogMode     string // "dev" or "prod"

	// Database
	DatabaseDSN    string
	DatabaseDriver string // "postgres" or "sqlite", auto-detected from DSN

	// Auth sessions
	SessionTTL time.Duration
	RedisAddr  string // when set, auth sessions live in Redis instead of the DB
	RedisDB    int

	// AI collaborator
	AIBaseURL string
	AIAPIKey  string // empty key enables demo mode
	AIModel   string
	AITimeout time.Duration

	// Seeding
	SeedDemo bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	// Server
	cfg.Port = getEnvInt("PORT", 8080)
	cfg.CORSOrigins = getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"})
	cfg.LogMode = getEnv("LOG_MODE", "dev")

	// Database
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "sqlite://./architect.db")
	cfg.DatabaseDriver = detectDriver(cfg.DatabaseDSN)

	// Auth sessions
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", 30*24*time.Hour)
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)

	// AI collaborator
	cfg.AIBaseURL = getEnv("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	cfg.AIAPIKey = getEnv("GEMINI_API_KEY", "")
	cfg.AIModel = getEnv("AI_MODEL", "gemini-pro")
	cfg.AITimeout = getEnvDuration("AI_TIMEOUT", 30*time.Second)

	// Seeding
	cfg.SeedDemo = getEnvBool("SEED_DEMO", false)

	return cfg, nil
}

// detectDriver determines the database driver from DSN
func detectDriver(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	if strings.HasPrefix(dsn, "sqlite3://") || strings.HasPrefix(dsn, "sqlite://") {
		return "sqlite"
	}
	// Default to sqlite for file paths
	if strings.HasSuffix(dsn, ".db") || strings.HasSuffix(dsn, ".sqlite") || dsn == ":memory:" {
		return "sqlite"
	}
	return "postgres"
}

// CleanDSN removes the driver prefix from DSN for the database driver
func (c *Config) CleanDSN() string {
	dsn := c.DatabaseDSN
	dsn = strings.TrimPrefix(dsn, "postgres://")
	dsn = strings.TrimPrefix(dsn, "postgresql://")
	dsn = strings.TrimPrefix(dsn, "sqlite3://")
	dsn = strings.TrimPrefix(dsn, "sqlite://")

	// For postgres, add the prefix back
	if c.DatabaseDriver == "postgres" {
		return "postgres://" + dsn
	}
	return dsn
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
