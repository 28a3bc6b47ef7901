// Package config loads the hub's configuration from environment variables,
// with a .env file as a development convenience.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Provider   ProviderConfig
	Encryption EncryptionConfig
	Ingest     IngestConfig
	Scheduler  SchedulerConfig
	Telemetry  TelemetryConfig
}

// TelemetryConfig controls the optional OpenTelemetry pipeline.
type TelemetryConfig struct {
	Enabled      bool
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

type ServerConfig struct {
	Port         string
	Host         string
	APIKey       string   // empty disables request authentication
	AllowedHosts []string // empty allows every CORS origin
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ProviderConfig holds the aggregation provider credentials.
type ProviderConfig struct {
	Environment string // sandbox, development or production
	ClientID    string
	Secret      string
	Timeout     time.Duration
}

// EncryptionConfig is the optional token encryption overlay. Leaving the
// passphrase empty stores access tokens in plaintext.
type EncryptionConfig struct {
	Passphrase string
	Salt       string
}

type IngestConfig struct {
	LookbackDays int
}

type SchedulerConfig struct {
	Enabled       bool
	ScheduleTimes []string
	WorkerCount   int
	JobDelay      time.Duration
	QueueSize     int
	RunOnStartup  bool
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	lookbackDays, err := strconv.Atoi(getEnv("INGEST_LOOKBACK_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid INGEST_LOOKBACK_DAYS: %w", err)
	}

	providerTimeout, err := time.ParseDuration(getEnv("PROVIDER_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
	}

	schedulerEnabled := getBoolEnv("SCHEDULER_ENABLED", true)
	schedulerTimes := strings.Split(getEnv("SCHEDULER_TIMES", "06:00"), ",")
	schedulerWorkers, err := strconv.Atoi(getEnv("SCHEDULER_WORKERS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_WORKERS: %w", err)
	}
	schedulerJobDelay, err := time.ParseDuration(getEnv("SCHEDULER_JOB_DELAY", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_JOB_DELAY: %w", err)
	}
	schedulerQueueSize, err := strconv.Atoi(getEnv("SCHEDULER_QUEUE_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_QUEUE_SIZE: %w", err)
	}
	schedulerRunOnStartup := getBoolEnv("SCHEDULER_RUN_ON_STARTUP", false)

	// Parse allowed hosts (comma-separated list)
	var allowedHosts []string
	for _, host := range strings.Split(getEnv("ALLOWED_HOSTS", ""), ",") {
		if host = strings.TrimSpace(host); host != "" {
			allowedHosts = append(allowedHosts, host)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			APIKey:       getEnv("API_KEY", ""),
			AllowedHosts: allowedHosts,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "finhub"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "finhub"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Provider: ProviderConfig{
			Environment: getEnv("PROVIDER_ENV", "sandbox"),
			ClientID:    getEnv("PROVIDER_CLIENT_ID", ""),
			Secret:      getEnv("PROVIDER_SECRET", ""),
			Timeout:     providerTimeout,
		},
		Encryption: EncryptionConfig{
			Passphrase: getEnv("ENCRYPTION_PASSPHRASE", ""),
			Salt:       getEnv("ENCRYPTION_SALT", "finhub-tokens"),
		},
		Ingest: IngestConfig{
			LookbackDays: lookbackDays,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("TELEMETRY_ENABLED", false),
			Environment:  getEnv("TELEMETRY_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTLP_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9090"),
		},
		Scheduler: SchedulerConfig{
			Enabled:       schedulerEnabled,
			ScheduleTimes: schedulerTimes,
			WorkerCount:   schedulerWorkers,
			JobDelay:      schedulerJobDelay,
			QueueSize:     schedulerQueueSize,
			RunOnStartup:  schedulerRunOnStartup,
		},
	}

	// Validate required fields
	if cfg.Provider.ClientID == "" {
		return nil, fmt.Errorf("PROVIDER_CLIENT_ID is required")
	}
	if cfg.Provider.Secret == "" {
		return nil, fmt.Errorf("PROVIDER_SECRET is required")
	}
	if cfg.Ingest.LookbackDays < 1 {
		return nil, fmt.Errorf("INGEST_LOOKBACK_DAYS must be positive, got %d", cfg.Ingest.LookbackDays)
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
