// Package config loads engine configuration from YAML with environment
// variable expansion and validation.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config is the top-level engine configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Model   ModelConfig   `yaml:"model" validate:"required"`
	Engine  EngineConfig  `yaml:"engine"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	// Format is text or json.
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// ModelConfig selects and parameterizes the language model collaborator.
type ModelConfig struct {
	Provider    string  `yaml:"provider" validate:"required,oneof=openai anthropic gemini mock"`
	Name        string  `yaml:"name"`
	Temperature float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	APIKey      string  `yaml:"api_key"`
	MaxTokens   int64   `yaml:"max_tokens" validate:"gte=0"`
}

// EngineConfig carries execution defaults applied to agents built from
// this configuration.
type EngineConfig struct {
	MaxIterations int `yaml:"max_iterations" validate:"gte=0"`
	MaxLoops      int `yaml:"max_loops" validate:"gte=0"`
}

// SetDefaults fills unset fields with the engine defaults.
func (c *Config) SetDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Model.Temperature == 0 {
		c.Model.Temperature = 0.7
	}
	if c.Engine.MaxIterations == 0 {
		c.Engine.MaxIterations = 10
	}
	if c.Engine.MaxLoops == 0 {
		c.Engine.MaxLoops = 3
	}
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Load reads a YAML config file, expanding ${VAR} and ${VAR:-default}
// references from the environment. A .env file alongside the process is
// honored when present.
func Load(path string) (*Config, error) {
	// Missing .env is fine; explicit config errors are not.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes raw YAML into a validated Config.
func Parse(data []byte) (*Config, error) {
	expanded := expandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	envWithDefault = regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*):-(.*?)\}`)
	envBraced      = regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`)
)

// expandEnv substitutes ${VAR} and ${VAR:-default} references.
func expandEnv(s string) string {
	s = envWithDefault.ReplaceAllStringFunc(s, func(match string) string {
		parts := envWithDefault.FindStringSubmatch(match)
		if val := os.Getenv(parts[1]); val != "" {
			return val
		}
		return parts[2]
	})
	s = envBraced.ReplaceAllStringFunc(s, func(match string) string {
		parts := envBraced.FindStringSubmatch(match)
		return os.Getenv(parts[1])
	})
	return s
}
