package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Ghost         GhostConfig
	Cache         CacheConfig
	CORS          CORSConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// GhostConfig holds the Ghost site and API credentials.
// The admin key is kept in its combined "<id>:<secretHex>" form; it is parsed
// and validated when the signer is built, not here.
type GhostConfig struct {
	URL           string // site root, no trailing slash
	AdminKey      string
	ContentKey    string
	AcceptVersion string
	Audience      string
	TokenTTL      time.Duration
	Timeout       time.Duration
	UpcomingLimit int
}

// CacheConfig holds the post list cache settings. A zero TTL disables the cache.
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// Enabled reports whether list responses should be cached
func (c *CacheConfig) Enabled() bool {
	return c.TTL > 0
}

// CORSConfig holds the browser-facing CORS policy
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
		},
		Ghost: GhostConfig{
			URL:           strings.TrimRight(getEnvFirst("", "GHOST_ADMIN_URL", "GHOST_URL"), "/"),
			AdminKey:      getEnvFirst("", "GHOST_ADMIN_API_KEY", "GHOST_API_KEY", "GHOST_ADMIN_KEY"),
			ContentKey:    getEnv("GHOST_CONTENT_API_KEY", ""),
			AcceptVersion: getEnv("GHOST_ACCEPT_VERSION", "v5.0"),
			Audience:      getEnv("GHOST_TOKEN_AUDIENCE", "/admin/"),
			TokenTTL:      getEnvAsDuration("GHOST_TOKEN_TTL", 5*time.Minute),
			Timeout:       getEnvAsDuration("GHOST_TIMEOUT", 15*time.Second),
			UpcomingLimit: getEnvAsInt("GHOST_UPCOMING_LIMIT", 5),
		},
		Cache: CacheConfig{
			TTL:        getEnvAsDuration("POSTS_CACHE_TTL", 30*time.Second),
			MaxEntries: getEnvAsInt("POSTS_CACHE_SIZE", 64),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			MaxAge:         getEnvAsInt("CORS_MAX_AGE", 300),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings the process cannot start without.
// Missing Ghost credentials are not fatal: they surface per request.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if c.Ghost.URL != "" {
		u, err := url.Parse(c.Ghost.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("ghost URL must be an absolute URL: %q", c.Ghost.URL)
		}
	}

	if c.Ghost.TokenTTL <= 0 {
		return fmt.Errorf("ghost token TTL must be positive")
	}

	if c.Ghost.UpcomingLimit <= 0 {
		return fmt.Errorf("ghost upcoming limit must be positive")
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("posts cache TTL must not be negative")
	}

	if c.Cache.Enabled() && c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("posts cache size must be positive when the cache is enabled")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// AdminConfigured reports whether both the site URL and the admin key are set
func (g *GhostConfig) AdminConfigured() bool {
	return g.URL != "" && g.AdminKey != ""
}

// ContentConfigured reports whether the public Content API can be used
func (g *GhostConfig) ContentConfigured() bool {
	return g.URL != "" && g.ContentKey != ""
}

// AdminKeyID returns the id half of the admin key, safe for logging
func (g *GhostConfig) AdminKeyID() string {
	id, _, _ := strings.Cut(g.AdminKey, ":")
	return id
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFirst returns the first non-empty value among keys
func getEnvFirst(defaultValue string, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
