// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/strongpass/internal/policy"
	"github.com/jonathan/strongpass/internal/schemas"
	schemafiles "github.com/jonathan/strongpass/schemas"
	"gopkg.in/yaml.v3"
)

// DefaultWorkers is the batch worker count when nothing else is configured.
const DefaultWorkers = 4

// MaxWorkers caps the batch worker count.
const MaxWorkers = 256

// PolicyConfig holds the policy section of a config file.
// Zero values mean "not set" and fall through to the next source.
type PolicyConfig struct {
	MinLength int `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength int `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	MaxRepeat int `json:"max_repeat,omitempty" yaml:"max_repeat,omitempty"`
}

// Config represents the CLI configuration that can be loaded from a JSON or
// YAML file, the environment, or flags.
type Config struct {
	Policy  PolicyConfig `json:"policy,omitempty" yaml:"policy,omitempty"`
	Workers int          `json:"workers,omitempty" yaml:"workers,omitempty"` // Batch worker count
	Verbose bool         `json:"verbose,omitempty" yaml:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Policy: PolicyConfig{
			MinLength: policy.DefaultMinLength,
			MaxLength: policy.DefaultMaxLength,
			MaxRepeat: policy.DefaultMaxRepeat,
		},
		Workers: DefaultWorkers,
	}
}

// LoadConfig loads configuration from a JSON or YAML file. The document is
// checked against the embedded policy schema before it is decoded.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, &Error{Message: "config path is empty"}
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to read config file %s", path), Cause: err}
	}

	document, err := toJSON(path, data)
	if err != nil {
		return nil, err
	}

	if err := schemas.ValidateBytes(schemafiles.Policy, document); err != nil {
		return nil, &Error{Message: fmt.Sprintf("config file %s does not match schema", path), Cause: err}
	}

	var cfg Config
	if err := json.Unmarshal(document, &cfg); err != nil {
		return nil, &Error{Message: "failed to parse config JSON", Cause: err}
	}

	return &cfg, nil
}

// toJSON returns the file contents as JSON, converting YAML files by
// extension.
func toJSON(path string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &Error{Message: "failed to parse config YAML", Cause: err}
		}
		if doc == nil {
			doc = map[string]interface{}{}
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, &Error{Message: "failed to convert config YAML", Cause: err}
		}
		return out, nil
	default:
		if !json.Valid(data) {
			return nil, &Error{Message: "failed to parse config JSON: malformed document"}
		}
		return data, nil
	}
}

// Validate checks that the configuration has valid values.
// Unset policy fields are allowed; the resolved policy is checked by
// policy.Validate after merging.
func (c *Config) Validate() error {
	if c.Policy.MinLength < 0 {
		return &Error{Message: "'min_length' must be non-negative"}
	}
	if c.Policy.MaxLength < 0 {
		return &Error{Message: "'max_length' must be non-negative"}
	}
	if c.Policy.MaxRepeat < 0 {
		return &Error{Message: "'max_repeat' must be non-negative"}
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return &Error{Message: fmt.Sprintf("'workers' must be between 0 (default) and %d", MaxWorkers)}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Policy.MinLength == 0 {
		result.Policy.MinLength = defaults.Policy.MinLength
	}
	if result.Policy.MaxLength == 0 {
		result.Policy.MaxLength = defaults.Policy.MaxLength
	}
	if result.Policy.MaxRepeat == 0 {
		result.Policy.MaxRepeat = defaults.Policy.MaxRepeat
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}

	// Bools cannot distinguish unset from false, so any source enabling
	// verbose output wins.
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// PolicyValue returns the policy described by the configuration.
func (c *Config) PolicyValue() policy.Policy {
	return policy.Policy{
		MinLength: c.Policy.MinLength,
		MaxLength: c.Policy.MaxLength,
		MaxRepeat: c.Policy.MaxRepeat,
	}
}

// Resolve layers the configuration sources: built-in defaults, then the
// environment, then the config file at path (skipped when empty), then
// flags. The result is validated, including its policy.
func Resolve(path string, flags Config) (*Config, error) {
	env, err := FromEnv()
	if err != nil {
		return nil, err
	}
	merged := env.MergeWithDefaults(Defaults())

	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		if err := file.Validate(); err != nil {
			return nil, err
		}
		merged = file.MergeWithDefaults(merged)
	}

	if err := flags.Validate(); err != nil {
		return nil, err
	}
	merged = flags.MergeWithDefaults(merged)

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	if err := merged.PolicyValue().Validate(); err != nil {
		return nil, &Error{Message: "invalid policy", Cause: err}
	}

	return &merged, nil
}
