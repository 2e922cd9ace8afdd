package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// minProductionSecretLength is the shortest JWT secret accepted in production.
const minProductionSecretLength = 32

// ValidateConfig checks the configuration against the requirements of its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		add("SERVER_PORT", fmt.Sprintf("invalid port %q", cfg.ServerPort))
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for the sqlite driver")
		}
	case DriverPostgres:
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for the postgres driver")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for the postgres driver")
		}
		if cfg.DBPassword == "" && cfg.Environment != Development {
			add("db_password", "secret is required for the postgres driver")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.JWTSecret == "" {
		switch cfg.Environment {
		case Development, Test:
			// local runs get a throwaway secret
			cfg.JWTSecret = "dev-secret-change-me"
		default:
			add("jwt_secret", "secret is required")
		}
	}
	if cfg.Environment == Production && len(cfg.JWTSecret) < minProductionSecretLength {
		add("jwt_secret", fmt.Sprintf("must be at least %d characters in production", minProductionSecretLength))
	}

	if cfg.ArtifactDir == "" && cfg.S3Bucket == "" {
		add("ARTIFACT_DIR", "an artifact directory or S3 bucket is required")
	}

	if cfg.CheckupRateLimit < 0 {
		add("CHECKUP_RATE_LIMIT", "must not be negative")
	}
	if cfg.ChatRateLimit < 0 {
		add("CHAT_RATE_LIMIT", "must not be negative")
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "json", "text":
	default:
		add("LOG_FORMAT", fmt.Sprintf("unsupported format %q", cfg.LogFormat))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
