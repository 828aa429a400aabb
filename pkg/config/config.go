package config

import (
	"errors"
	"fmt"
	"strings"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Environment  Environment
}

type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)

func (c Config) IsDevelopment() bool {
	return c.Environment == EnvironmentDevelopment
}
func (c Config) IsStaging() bool {
	return c.Environment == EnvironmentStaging
}
func (c Config) IsProd() bool {
	return c.Environment == EnvironmentProduction
}

func loadEnvironment(env *envReader) Environment {
	switch Environment(strings.ToLower(env.str("ENVIRONMENT", string(EnvironmentDevelopment)))) {
	case EnvironmentProduction:
		return EnvironmentProduction
	case EnvironmentStaging:
		return EnvironmentStaging
	default:
		return EnvironmentDevelopment
	}
}

// Load reads the configuration from the environment. Malformed values and
// failed validations are reported together.
func Load() (*Config, error) {
	env := &envReader{}
	cfg := &Config{
		Server:       loadServerConfig(env),
		Database:     loadDatabaseConfig(env),
		Redis:        loadRedisConfig(env),
		Auth:         loadAuthConfig(env),
		Notification: loadNotificationConfig(env),
		Environment:  loadEnvironment(env),
	}

	if err := errors.Join(append(env.errs, cfg.Validate()...)...); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate returns every problem found, or nil.
func (c *Config) Validate() []error {
	var problems []error

	switch {
	case c.Auth.JWT.SecretKey == "":
		problems = append(problems, errors.New("JWT_SECRET_KEY is required"))
	case len(c.Auth.JWT.SecretKey) < 32:
		problems = append(problems, errors.New("JWT_SECRET_KEY must be at least 32 characters"))
	}

	switch c.Notification.QueueBackend {
	case QueueBackendMemory, QueueBackendRedis:
	default:
		problems = append(problems, fmt.Errorf("NOTIFICATION_QUEUE_BACKEND must be %q or %q, got %q",
			QueueBackendMemory, QueueBackendRedis, c.Notification.QueueBackend))
	}
	if c.Notification.Workers < 1 {
		problems = append(problems, errors.New("NOTIFICATION_WORKERS must be at least 1"))
	}
	if c.Notification.TaskTimeout <= 0 {
		problems = append(problems, errors.New("NOTIFICATION_TASK_TIMEOUT must be positive"))
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		problems = append(problems, errors.New("DB_MAX_IDLE_CONNS cannot exceed DB_MAX_OPEN_CONNS"))
	}

	return problems
}
