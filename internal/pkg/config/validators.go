// internal/pkg/config/validators.go
package config

import (
	"errors"
	"fmt"
	"slices"
)

// ErrMissingRequiredConfig is returned when a setting required by the
// selected features is empty.
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// Validator checks one aspect of a Config
type Validator interface {
	Validate(cfg *Config) error
}

// BasicValidator performs basic configuration validation
type BasicValidator struct{}

// Validate performs basic validation
func (v *BasicValidator) Validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("%w: server port", ErrMissingRequiredConfig)
	}

	switch cfg.Persistence.Backend {
	case BackendFile:
		if cfg.Persistence.DataDir == "" {
			return fmt.Errorf("%w: DATA_DIR", ErrMissingRequiredConfig)
		}
	case BackendPostgres:
		if cfg.Database.Host == "" || cfg.Database.Name == "" {
			return fmt.Errorf("%w: database host and name", ErrMissingRequiredConfig)
		}
		if cfg.Database.MaxConnections < cfg.Database.MinConnections {
			return fmt.Errorf("database max_connections must be >= min_connections")
		}
	case BackendS3:
		if cfg.AWS.S3Bucket == "" {
			return fmt.Errorf("%w: AWS_S3_BUCKET", ErrMissingRequiredConfig)
		}
	default:
		return fmt.Errorf("unknown persistence backend %q", cfg.Persistence.Backend)
	}

	if cfg.Persistence.Timeout <= 0 {
		return fmt.Errorf("persistence timeout must be positive")
	}

	if cfg.Asynq.Enabled && !cfg.Redis.Enabled {
		return fmt.Errorf("background jobs require redis")
	}

	if cfg.Redis.Enabled && cfg.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis pool_size must be positive")
	}

	if cfg.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive")
	}
	if cfg.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm max retries cannot be negative")
	}

	if cfg.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate_limit_requests must be positive")
	}

	return nil
}

// ProductionValidator performs strict validation for production environments
type ProductionValidator struct{}

// Validate performs production-specific validation
func (v *ProductionValidator) Validate(cfg *Config) error {
	if cfg.Persistence.Backend == BackendPostgres && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("database SSL must be enabled in production")
	}

	if !cfg.Security.SecureHeaders {
		return fmt.Errorf("secure headers must be enabled in production")
	}

	if len(cfg.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed origins must be configured in production")
	}
	if slices.Contains(cfg.Security.AllowedOrigins, "*") {
		return fmt.Errorf("wildcard origin (*) not allowed in production")
	}

	return nil
}
