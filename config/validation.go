package config

import (
	"fmt"
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

func (errs ValidationErrors) Error() string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return "configuration validation failed:\n" + strings.Join(lines, "\n")
}

const minProductionSecretLen = 32

// ValidateConfig checks the configuration against the rules for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "is required"})
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		for field, value := range map[string]string{
			"DB_HOST":     cfg.DBHost,
			"DB_USER":     cfg.DBUser,
			"DB_PASSWORD": cfg.DBPassword,
			"DB_NAME":     cfg.DBName,
		} {
			if value == "" {
				errs = append(errs, ValidationError{field, "is required for the postgres driver"})
			}
		}
	case DriverSQLite:
		if cfg.Environment.IsProduction() {
			errs = append(errs, ValidationError{"DB_DRIVER", "sqlite is not allowed in production"})
		}
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"SQLITE_PATH", "is required for the sqlite driver"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWT_SECRET", "is required"})
	} else if cfg.Environment.IsProduction() && len(cfg.JWTSecret) < minProductionSecretLen {
		errs = append(errs, ValidationError{"JWT_SECRET", fmt.Sprintf("must be at least %d characters in production", minProductionSecretLen)})
	}

	if cfg.Environment.IsProduction() && !cfg.RedisEnabled() {
		errs = append(errs, ValidationError{"REDIS_URL", "redis is required in production"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
