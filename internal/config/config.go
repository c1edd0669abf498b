// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Filter      FilterConfig
	Demo        DemoConfig
	Retention   RetentionConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Backend      string // "postgres" or "memory"
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	Subject        string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// FilterConfig holds the defaults for the event visibility pipeline
type FilterConfig struct {
	DefaultRadiusKm   float64
	DefaultTimeFilter string
	DefaultCategory   string
	DedupStrictness   string
}

// DemoConfig controls template (demo) event handling
type DemoConfig struct {
	Enabled       bool
	TemplatesFile string
}

// RetentionConfig controls the purge job for ended events
type RetentionConfig struct {
	MaxAge   time.Duration
	Schedule string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	environment := getEnv("APP_ENV", "development")

	config := Config{
		Environment: environment,
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Backend:      getEnv("STORAGE_BACKEND", defaultBackend(environment)),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "krwl"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			Subject:        getEnv("NATS_EVENTS_SUBJECT", "events.changed"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Filter: FilterConfig{
			DefaultRadiusKm:   getEnvAsFloat("FILTER_DEFAULT_RADIUS_KM", 5.0),
			DefaultTimeFilter: getEnv("FILTER_DEFAULT_TIME", "sunrise"),
			DefaultCategory:   getEnv("FILTER_DEFAULT_CATEGORY", "all"),
			DedupStrictness:   getEnv("DEDUP_STRICTNESS", "title_start_location"),
		},
		Demo: DemoConfig{
			Enabled:       getEnvAsBool("DEMO_EVENTS_ENABLED", environment == "development"),
			TemplatesFile: getEnv("DEMO_EVENTS_FILE", "static/events.demo.json"),
		},
		Retention: RetentionConfig{
			MaxAge:   getEnvAsDuration("RETENTION_MAX_AGE", 48*time.Hour),
			Schedule: getEnv("RETENTION_SCHEDULE", "17 * * * *"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	switch config.Database.Backend {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown storage backend %q", config.Database.Backend)
	}

	if config.Filter.DefaultRadiusKm < 0 {
		return fmt.Errorf("default radius must not be negative")
	}

	return nil
}

// defaultBackend keeps development runnable without a database.
func defaultBackend(environment string) string {
	if environment == "development" {
		return "memory"
	}
	return "postgres"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
