package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file looked up when no path is given.
const DefaultFileName = "chaossec.yaml"

// Environment variables overriding file values. API keys and tokens are
// environment-only.
const (
	EnvSafetyMode = "CHAOSSEC_SAFETY_MODE"
	EnvModelKey   = "CHAOSSEC_MODEL_API_KEY"
	EnvTwinToken  = "CHAOSSEC_TWIN_TOKEN"
	EnvRedisURL   = "CHAOSSEC_REDIS_URL"
)

// Config is the full chaossec.yaml configuration.
type Config struct {
	// SafetyMode controls whether fault injections are simulated.
	// Defaults to true; disabling it requires an explicit "false".
	SafetyMode bool `yaml:"safety_mode"`

	// Iterations is the number of loop iterations per run.
	Iterations int `yaml:"iterations"`

	// ProjectRoot is the directory handed to the static scanner.
	ProjectRoot string `yaml:"project_root"`

	// HistoryPath is the execution-history file location.
	HistoryPath string `yaml:"history_path"`

	// Cloud identifies the provider scope iterations run against.
	Cloud CloudConfig `yaml:"cloud"`

	// Model configures the decision model boundary.
	Model ModelConfig `yaml:"model"`

	// Twin configures the digital-twin service client.
	Twin TwinConfig `yaml:"twin"`

	// Evidence configures evidence sinks.
	Evidence EvidenceConfig `yaml:"evidence"`
}

// CloudConfig identifies the provider scope.
type CloudConfig struct {
	// Region is the provider region targeted by injections.
	Region string `yaml:"region"`

	// Account is the provider account identifier, used for labeling
	// evidence and audit lookups.
	Account string `yaml:"account,omitempty"`
}

// ModelConfig configures the decision model boundary.
type ModelConfig struct {
	// Provider selects the model backend.
	Provider string `yaml:"provider"`

	// Name is the model identifier sent to the provider.
	Name string `yaml:"name"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `yaml:"base_url,omitempty"`

	// APIKey is populated from the environment, never from the file.
	APIKey string `yaml:"-"`
}

// TwinConfig configures the digital-twin client.
type TwinConfig struct {
	// Enabled turns twin mirroring on.
	Enabled bool `yaml:"enabled"`

	// BaseURL is the twin service endpoint.
	BaseURL string `yaml:"base_url,omitempty"`

	// Workspace is the twin workspace to create twins in.
	Workspace string `yaml:"workspace,omitempty"`

	// Token is populated from the environment, never from the file.
	Token string `yaml:"-"`
}

// EvidenceConfig configures evidence sinks.
type EvidenceConfig struct {
	// Dir is the local evidence root directory.
	Dir string `yaml:"dir"`

	// RedisURL enables the Redis sink when non-empty.
	RedisURL string `yaml:"redis_url,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SafetyMode:  true,
		Iterations:  3,
		ProjectRoot: ".",
		HistoryPath: "chaossec_history.json",
		Cloud: CloudConfig{
			Region: "us-east-1",
		},
		Model: ModelConfig{
			Provider: "openai",
			Name:     "gpt-4o",
		},
		Evidence: EvidenceConfig{
			Dir: "evidence",
		},
	}
}

// Load reads the configuration file at path, layered over defaults and
// under environment overrides. A missing file is not an error; the
// defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultFileName
	}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults plus environment.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv layers environment overrides onto the configuration.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSafetyMode); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SafetyMode = b
		}
	}
	if v := os.Getenv(EnvModelKey); v != "" {
		c.Model.APIKey = v
	}
	if v := os.Getenv(EnvTwinToken); v != "" {
		c.Twin.Token = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Evidence.RedisURL = v
	}
}

// Validate checks the configuration for fatal problems. It is called at
// startup; a returned error aborts the run before any iteration starts.
func (c *Config) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	if c.HistoryPath == "" {
		return fmt.Errorf("history_path must not be empty")
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model.name must not be empty")
	}
	if c.Twin.Enabled {
		if c.Twin.BaseURL == "" {
			return fmt.Errorf("twin.base_url is required when twin is enabled")
		}
		if c.Twin.Workspace == "" {
			return fmt.Errorf("twin.workspace is required when twin is enabled")
		}
	}
	return nil
}
