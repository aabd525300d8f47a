// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// RenderConfig controls preview image generation.
type RenderConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// MinioConfig configures the optional S3-compatible artifact store. When
// Endpoint is empty the local filesystem store is used.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Config is the application configuration.
type Config struct {
	// Provider selects the model backend: "anthropic", "openai" or "mock".
	Provider string `yaml:"provider"`
	// ModelID overrides the provider's default model.
	ModelID string `yaml:"model_id"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`

	LogLevel     string       `yaml:"log_level"`
	Render       RenderConfig `yaml:"render"`
	ArtifactDir  string       `yaml:"artifact_dir"`
	SnapshotPath string       `yaml:"snapshot_path"`
	Minio        MinioConfig  `yaml:"minio"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider:     "anthropic",
		APIKeyEnv:    "ANTHROPIC_API_KEY",
		LogLevel:     "info",
		Render:       RenderConfig{Width: 512, Height: 512},
		ArtifactDir:  "artifacts",
		SnapshotPath: "pipeline.snapshot",
	}
}

// Load reads the YAML file at path over the defaults and applies environment
// overrides. An empty path skips the file; a missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv layers SAAGENT_* environment variables over the file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("SAAGENT_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("SAAGENT_MODEL_ID"); v != "" {
		c.ModelID = v
	}
	if v := os.Getenv("SAAGENT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SAAGENT_ARTIFACT_DIR"); v != "" {
		c.ArtifactDir = v
	}
	if v := os.Getenv("SAAGENT_SNAPSHOT_PATH"); v != "" {
		c.SnapshotPath = v
	}
	if v := os.Getenv("SAAGENT_RENDER_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Render.Width = n
		}
	}
	if v := os.Getenv("SAAGENT_RENDER_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Render.Height = n
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case "anthropic", "openai", "mock":
	default:
		return fmt.Errorf("unknown provider %q (want anthropic, openai or mock)", c.Provider)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	return nil
}

// APIKey resolves the provider API key from the configured environment
// variable, "" when unset.
func (c *Config) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}
