package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// BFF server
	Port string
	Env  string // development, staging, production

	// Gig backend
	API APIConfig

	// Session token storage
	Session SessionConfig

	// Redis (optional: session store + shared rate limit)
	Redis RedisConfig

	// Database (optional: dashboard snapshot archive)
	Database DatabaseConfig

	// Scheduled jobs
	Schedule ScheduleConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// APIConfig holds the Gig REST backend configuration
type APIConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  int // requests per second, 0 disables the limiter
	MaxRetries int
}

// SessionConfig selects where the session token lives
type SessionConfig struct {
	Store   string // file, redis, env
	File    string
	Profile string
	Token   string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ScheduleConfig holds cron expressions (with seconds field)
type ScheduleConfig struct {
	Sync     string
	Snapshot string
	Prune    string

	// Snapshots older than this are deleted by the prune job
	SnapshotRetention time.Duration
}

// Session store kinds
const (
	SessionStoreFile  = "file"
	SessionStoreRedis = "redis"
	SessionStoreEnv   = "env"
)

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		API: APIConfig{
			BaseURL:    getEnv("GIG_API_BASE_URL", "http://localhost:3000"),
			Timeout:    getEnvAsDuration("GIG_API_TIMEOUT", "15s"),
			RateLimit:  getEnvAsInt("GIG_API_RATE_LIMIT", 10),
			MaxRetries: getEnvAsInt("GIG_API_MAX_RETRIES", 2),
		},

		Session: SessionConfig{
			Store:   getEnv("SESSION_STORE", SessionStoreFile),
			File:    getEnv("SESSION_FILE", defaultSessionFile()),
			Profile: getEnv("SESSION_PROFILE", "default"),
			Token:   getEnv("GIG_TOKEN", ""),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 5),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Schedule: ScheduleConfig{
			Sync:     getEnv("SYNC_SCHEDULE", "0 */5 * * * *"),
			Snapshot: getEnv("SNAPSHOT_SCHEDULE", "0 0 3 * * *"),
			Prune:    getEnv("PRUNE_SCHEDULE", "0 30 3 * * 0"),

			SnapshotRetention: getEnvAsDuration("SNAPSHOT_RETENTION", "4320h"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("GIG_API_BASE_URL must be an absolute URL, got %q", c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("GIG_API_TIMEOUT must be positive")
	}

	switch c.Session.Store {
	case SessionStoreFile:
		if c.Session.File == "" {
			return fmt.Errorf("SESSION_FILE is required for the file session store")
		}
	case SessionStoreRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("SESSION_STORE=redis requires REDIS_ENABLED=true")
		}
	case SessionStoreEnv:
		if c.Session.Token == "" {
			return fmt.Errorf("SESSION_STORE=env requires GIG_TOKEN")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be one of: file, redis, env")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".gig/session.json"
	}
	return filepath.Join(home, ".gig", "session.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
