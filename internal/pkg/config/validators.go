// internal/pkg/config/validators.go
package config

import (
	"fmt"
	"strings"
)

// ErrMissingRequiredConfig indicates a required configuration value is absent
var ErrMissingRequiredConfig = fmt.Errorf("missing required configuration")

// Validator checks a loaded configuration for a deployment context
type Validator interface {
	Validate(cfg *Config) error
}

// BasicValidator performs basic configuration validation
type BasicValidator struct{}

// Validate performs basic validation
func (v *BasicValidator) Validate(cfg *Config) error {
	if cfg.Store.FilePath == "" {
		return fmt.Errorf("%w: store file path", ErrMissingRequiredConfig)
	}

	if cfg.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis pool_size must be positive")
	}

	if cfg.Asynq.Concurrency <= 0 {
		return fmt.Errorf("asynq concurrency must be positive")
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
	if !cfg.Security.SecureHeaders {
		return fmt.Errorf("secure headers must be enabled in production")
	}

	if len(cfg.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed origins must be configured in production")
	}

	for _, origin := range cfg.Security.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("wildcard origin (*) not allowed in production")
		}
	}

	if cfg.Alerts.Recipient != "" {
		if strings.Contains(cfg.Alerts.SMTPAddr, "localhost") {
			return fmt.Errorf("alerts SMTP address must point at a real relay in production")
		}
		if cfg.Alerts.SMTPUser == "" || cfg.Alerts.SMTPPassword == "" {
			return fmt.Errorf("%w: alerts SMTP credentials", ErrMissingRequiredConfig)
		}
	}

	return nil
}
