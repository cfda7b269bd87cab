package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigError is the diagnostic error returned by LoadConfig.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// envLookup matches os.LookupEnv and is swapped in tests.
type envLookup func(key string) (string, bool)

// requiredEnv lists variables without defaults. They are checked before
// envconfig runs so a missing value is reported by name.
var requiredEnv = []string{"APP_ENV", "DATABASE_URL", "OPENWEATHER_API_KEY"}

// LoadConfig loads and validates the configuration.
//
//  1. Loads a .env file if present (non-fatal if missing).
//  2. Checks that required variables are present.
//  3. Processes envconfig tags to populate the Config struct.
//  4. Populates Config.Build from linker-injected variables.
//  5. Validates the struct and the configured timezone.
//
// time.Local is left alone; scoring converts instants to the configured zone itself.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return load(os.LookupEnv)
}

func load(lookup envLookup) (*Config, error) {
	var missing []string
	for _, key := range requiredEnv {
		if v, ok := lookup(key); !ok || v == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &ConfigError{
			Type:    ErrMissingEnv,
			Message: fmt.Sprintf("required environment variables not set: %v", missing),
		}
	}

	// The empty prefix makes envconfig use the exact tag values.
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	cfg.Build = NewBuildInfo()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate runs the struct validation rules and checks that the ranking
// timezone can be loaded.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}
	if _, err := time.LoadLocation(cfg.Ranking.Timezone); err != nil {
		return &ConfigError{
			Type:    ErrValidation,
			Message: fmt.Sprintf("unknown timezone %q", cfg.Ranking.Timezone),
			Err:     err,
		}
	}
	return nil
}

// Location returns the configured ranking timezone, or UTC if it cannot be
// loaded. LoadConfig has already rejected unknown zones.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Ranking.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
