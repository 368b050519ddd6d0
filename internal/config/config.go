package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://localhost:5175",
}

var productionOrigins = []string{
	"https://*.netlify.app",
	"https://netlify.app",
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Env            string
	HTTPAddr       string
	StoreDriver    string
	DatabaseURL    string
	APIKey         string
	AllowedOrigins []string
	MaxBulkLines   int
	Auth           AuthConfig
	RateLimit      RateLimitConfig
	Logging        LoggingConfig
}

type AuthConfig struct {
	UsersFile              string
	SessionSecret          string
	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration
	LoginAttemptsPerMinute int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:            getenv("APP_ENV", getenv("ENVIRONMENT", "dev")),
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		StoreDriver:    strings.ToLower(getenv("STORE_DRIVER", StoreDriverPostgres)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		APIKey:         os.Getenv("API_KEY"),
		AllowedOrigins: parseList(getenv("ALLOWED_ORIGINS", strings.Join(defaultAllowedOrigins, ","))),
		MaxBulkLines:   getenvInt("MAX_BULK_LINES", 500),
		Auth: AuthConfig{
			UsersFile:              os.Getenv("AUTH_USERS_FILE"),
			SessionSecret:          os.Getenv("SESSION_SECRET"),
			SessionTTL:             getenvDuration("SESSION_TTL", 7*24*time.Hour),
			SessionCleanupInterval: getenvDuration("SESSION_CLEANUP_INTERVAL", 10*time.Minute),
			LoginAttemptsPerMinute: getenvInt("LOGIN_ATTEMPTS_PER_MINUTE", 10),
		},
		RateLimit: RateLimitConfig{
			RPS:   getenvFloat("RATE_LIMIT_RPS", 20),
			Burst: getenvInt("RATE_LIMIT_BURST", 40),
		},
		Logging: LoggingConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "text"),
			File:   os.Getenv("LOG_FILE"),
		},
	}
	if cfg.IsProduction() {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, productionOrigins...)
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	case StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY is required")
	}
	if cfg.Auth.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.Auth.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return parsed
}

func parseList(val string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
