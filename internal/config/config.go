package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Debug       bool   `yaml:"debug"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	// Store configuration
	MongoURL             string `yaml:"mongo_db_url"`
	StoreBackend         string `yaml:"store_backend"` // "mongo" or "memory"
	EnforceUniqueIndexes bool   `yaml:"enforce_unique_indexes"`

	// HTTP edge
	AllowedOrigins  string        `yaml:"allowed_origins"`
	RedisURL        string        `yaml:"redis_url"` // optional, shares rate-limit counters across replicas
	RateLimitMax    int           `yaml:"rate_limit_max"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the built-in defaults
func Default() *Config {
	return &Config{
		Host:                 "127.0.0.1",
		Port:                 8000,
		Debug:                true,
		Environment:          "development",
		MongoURL:             "mongodb://localhost:27017/office_management_db",
		StoreBackend:         "mongo",
		EnforceUniqueIndexes: true,
		AllowedOrigins:       "http://localhost:5173,http://localhost:3000",
		RateLimitMax:         200,
		RateLimitWindow:      time.Minute,
		ShutdownTimeout:      10 * time.Second,
	}
}

// Load builds the configuration: defaults, then the YAML file named by CONFIG_FILE
// (if any), then environment variables. Environment variables always win.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Host = getEnv("HOST", cfg.Host)
	cfg.Port = getIntEnv("PORT", cfg.Port)
	cfg.Debug = getBoolEnv("DEBUG", cfg.Debug)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.MongoURL = getEnv("MONGO_DB_URL", cfg.MongoURL)
	cfg.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", cfg.StoreBackend))
	cfg.EnforceUniqueIndexes = getBoolEnv("ENFORCE_UNIQUE_INDEXES", cfg.EnforceUniqueIndexes)

	cfg.AllowedOrigins = getEnv("ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.RateLimitMax = getIntEnv("RATE_LIMIT_MAX", cfg.RateLimitMax)
	cfg.RateLimitWindow = getDurationEnv("RATE_LIMIT_WINDOW", cfg.RateLimitWindow)
	cfg.ShutdownTimeout = getDurationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays the YAML file at path onto cfg
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.StoreBackend {
	case "mongo":
		if c.MongoURL == "" {
			return fmt.Errorf("MONGO_DB_URL is required when STORE_BACKEND=mongo")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown store backend %q (supported: mongo, memory)", c.StoreBackend)
	}
	if c.RateLimitMax < 0 {
		return fmt.Errorf("invalid rate limit %d", c.RateLimitMax)
	}
	return nil
}

// Address returns host:port for the listener
func (c *Config) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// IsProduction reports whether ENVIRONMENT is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
