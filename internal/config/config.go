// Package config provides configuration management for the rental inventory server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default configuration values.
const (
	DefaultServerPort      = 8080
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMetricsEnabled  = true
	DefaultProbePort       = 9090
	DefaultGenAIModel      = "gemini-2.5-flash"
	DefaultToastDuration   = 3 * time.Second
	DefaultMaxUploadBytes  = 10 << 20
	DefaultSeedDemo        = true
	DefaultEventsBackend   = EventsBackendNone
	DefaultRedisAddr       = "localhost:6379"
	DefaultNATSURL         = "nats://127.0.0.1:4222"
)

// Event publishing backends.
const (
	EventsBackendNone  = "none"
	EventsBackendRedis = "redis"
	EventsBackendNATS  = "nats"
)

// Environment variable names.
const (
	EnvServerPort      = "APP_SERVER_PORT"
	EnvLogLevel        = "APP_LOG_LEVEL"
	EnvShutdownTimeout = "APP_SHUTDOWN_TIMEOUT"
	EnvMetricsEnabled  = "APP_METRICS_ENABLED"
	EnvProbePort       = "APP_PROBE_PORT"
	EnvGenAIAPIKey     = "APP_GENAI_API_KEY" //nolint:gosec // env var name, not a credential
	EnvLegacyAPIKey    = "API_KEY"           //nolint:gosec // env var name, not a credential
	EnvGenAIModel      = "APP_GENAI_MODEL"
	EnvToastDuration   = "APP_TOAST_DURATION"
	EnvMaxUploadBytes  = "APP_MAX_UPLOAD_BYTES"
	EnvSeedDemo        = "APP_SEED_DEMO"
	EnvEventsBackend   = "APP_EVENTS_BACKEND"
	EnvRedisAddr       = "APP_REDIS_ADDR"
	EnvRedisPassword   = "APP_REDIS_PASSWORD" //nolint:gosec // env var name, not a credential
	EnvRedisDB         = "APP_REDIS_DB"
	EnvNATSURL         = "APP_NATS_URL"
)

// Config holds the application configuration.
type Config struct {
	// Server settings.
	ServerPort      int
	ProbePort       int // Probe server port (0 = disabled).
	LogLevel        string
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
	MaxUploadBytes  int64

	// Description generation.
	GenAIAPIKey string
	GenAIModel  string

	// Inventory session.
	ToastDuration time.Duration
	SeedDemo      bool

	// Event publishing: none, redis, nats.
	EventsBackend string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	NATSURL       string
}

// Validation errors.
var (
	ErrInvalidServerPort      = errors.New("server port must be between 1 and 65535")
	ErrInvalidLogLevel        = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
	ErrInvalidProbePort       = errors.New(
		"probe port must be between 0 and 65535",
	)
	ErrProbePortConflict = errors.New(
		"probe port must differ from server port when probe port is not 0",
	)
	ErrMissingAPIKey = errors.New(
		"generation API key must be set (APP_GENAI_API_KEY or API_KEY)",
	)
	ErrInvalidToastDuration  = errors.New("toast duration must be positive")
	ErrInvalidMaxUploadBytes = errors.New("max upload bytes must be positive")
	ErrInvalidEventsBackend  = errors.New(
		"events backend must be one of: none, redis, nats",
	)
	ErrInvalidRedisConfig = errors.New(
		"redis address must be set when events backend is redis",
	)
	ErrInvalidNATSConfig = errors.New(
		"NATS URL must be set when events backend is nats",
	)
)

// LoadDotEnv loads variables from a .env file without overriding the real
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables with defaults.
// Environment variables have priority over default values.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:      DefaultServerPort,
		ProbePort:       DefaultProbePort,
		LogLevel:        DefaultLogLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
		MetricsEnabled:  DefaultMetricsEnabled,
		MaxUploadBytes:  DefaultMaxUploadBytes,
		GenAIModel:      DefaultGenAIModel,
		ToastDuration:   DefaultToastDuration,
		SeedDemo:        DefaultSeedDemo,
		EventsBackend:   DefaultEventsBackend,
		RedisAddr:       DefaultRedisAddr,
		NATSURL:         DefaultNATSURL,
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration values from environment variables.
func (c *Config) loadFromEnv() error {
	if err := c.loadServerEnv(); err != nil {
		return err
	}

	c.loadGenAIEnv()

	if err := c.loadInventoryEnv(); err != nil {
		return err
	}

	if err := c.loadEventsEnv(); err != nil {
		return err
	}

	return nil
}

// loadServerEnv loads server-related environment variables.
func (c *Config) loadServerEnv() error {
	if val := os.Getenv(EnvServerPort); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvServerPort, err)
		}
		c.ServerPort = port
	}

	if val := os.Getenv(EnvProbePort); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvProbePort, err)
		}
		c.ProbePort = port
	}

	if val := os.Getenv(EnvLogLevel); val != "" {
		c.LogLevel = val
	}

	if val := os.Getenv(EnvShutdownTimeout); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvShutdownTimeout, err)
		}
		c.ShutdownTimeout = timeout
	}

	if val := os.Getenv(EnvMetricsEnabled); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvMetricsEnabled, err)
		}
		c.MetricsEnabled = enabled
	}

	if val := os.Getenv(EnvMaxUploadBytes); val != "" {
		size, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvMaxUploadBytes, err)
		}
		c.MaxUploadBytes = size
	}

	return nil
}

// loadGenAIEnv loads the generation credential and model.
// APP_GENAI_API_KEY wins over the legacy API_KEY.
func (c *Config) loadGenAIEnv() {
	if val := os.Getenv(EnvLegacyAPIKey); val != "" {
		c.GenAIAPIKey = val
	}

	if val := os.Getenv(EnvGenAIAPIKey); val != "" {
		c.GenAIAPIKey = val
	}

	if val := os.Getenv(EnvGenAIModel); val != "" {
		c.GenAIModel = val
	}
}

// loadInventoryEnv loads session behaviour settings.
func (c *Config) loadInventoryEnv() error {
	if val := os.Getenv(EnvToastDuration); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvToastDuration, err)
		}
		c.ToastDuration = d
	}

	if val := os.Getenv(EnvSeedDemo); val != "" {
		seed, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvSeedDemo, err)
		}
		c.SeedDemo = seed
	}

	return nil
}

// loadEventsEnv loads event publishing settings.
func (c *Config) loadEventsEnv() error {
	if val := os.Getenv(EnvEventsBackend); val != "" {
		c.EventsBackend = val
	}

	if val := os.Getenv(EnvRedisAddr); val != "" {
		c.RedisAddr = val
	}

	if val := os.Getenv(EnvRedisPassword); val != "" {
		c.RedisPassword = val
	}

	if val := os.Getenv(EnvRedisDB); val != "" {
		db, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvRedisDB, err)
		}
		c.RedisDB = db
	}

	if val := os.Getenv(EnvNATSURL); val != "" {
		c.NATSURL = val
	}

	return nil
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if c.GenAIAPIKey == "" {
		return ErrMissingAPIKey
	}

	if c.ToastDuration <= 0 {
		return ErrInvalidToastDuration
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	return nil
}

// validateServer validates server-related configuration.
func (c *Config) validateServer() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return ErrInvalidServerPort
	}

	if c.ProbePort != 0 && (c.ProbePort < 1 || c.ProbePort > 65535) {
		return ErrInvalidProbePort
	}

	if c.ProbePort != 0 && c.ProbePort == c.ServerPort {
		return ErrProbePortConflict
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return ErrInvalidLogLevel
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	if c.MaxUploadBytes <= 0 {
		return ErrInvalidMaxUploadBytes
	}

	return nil
}

// eventsBackendOrDefault returns the events backend, defaulting to "none" if empty.
func (c *Config) eventsBackendOrDefault() string {
	if c.EventsBackend == "" {
		return DefaultEventsBackend
	}
	return c.EventsBackend
}

// validateEvents validates event publishing configuration.
func (c *Config) validateEvents() error {
	switch c.eventsBackendOrDefault() {
	case EventsBackendNone:
	case EventsBackendRedis:
		if c.RedisAddr == "" {
			return ErrInvalidRedisConfig
		}
	case EventsBackendNATS:
		if c.NATSURL == "" {
			return ErrInvalidNATSConfig
		}
	default:
		return ErrInvalidEventsBackend
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

// ProbeAddress returns the probe server address in host:port format.
func (c *Config) ProbeAddress() string {
	return fmt.Sprintf(":%d", c.ProbePort)
}
