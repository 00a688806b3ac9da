package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names
const (
	EnvMinLength = "STRONGPASS_MIN_LENGTH"
	EnvMaxLength = "STRONGPASS_MAX_LENGTH"
	EnvMaxRepeat = "STRONGPASS_MAX_REPEAT"
	EnvWorkers   = "STRONGPASS_WORKERS"
	EnvVerbose   = "STRONGPASS_VERBOSE"
)

// FromEnv reads configuration from environment variables. Unset variables
// leave their field zero so that MergeWithDefaults fills them.
func FromEnv() (Config, error) {
	var cfg Config
	fields := []struct {
		name string
		dst  *int
	}{
		{EnvMinLength, &cfg.Policy.MinLength},
		{EnvMaxLength, &cfg.Policy.MaxLength},
		{EnvMaxRepeat, &cfg.Policy.MaxRepeat},
		{EnvWorkers, &cfg.Workers},
	}

	for _, f := range fields {
		value := os.Getenv(f.name)
		if value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, &Error{Message: fmt.Sprintf("invalid %s", f.name), Cause: err}
		}
		*f.dst = n
	}

	if value := os.Getenv(EnvVerbose); value != "" {
		verbose, err := strconv.ParseBool(value)
		if err != nil {
			return Config{}, &Error{Message: fmt.Sprintf("invalid %s", EnvVerbose), Cause: err}
		}
		cfg.Verbose = verbose
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
