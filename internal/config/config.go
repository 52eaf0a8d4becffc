// Package config loads deskctl client configuration from
// ~/.deskctl/config.yaml with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opsdesk/deskctl/internal/errors"
)

// Environment variable overrides
const (
	EnvAPIURL   = "DESKCTL_API_URL"
	EnvTimeout  = "DESKCTL_TIMEOUT"
	EnvLogLevel = "DESKCTL_LOG_LEVEL"
	EnvHome     = "DESKCTL_HOME"
)

// DefaultAPIURL is used when neither the config file nor the environment
// provides one
const DefaultAPIURL = "http://localhost:8000"

// DefaultTimeout is the fixed per-request timeout for all platform calls
const DefaultTimeout = 15 * time.Second

// Config holds the deskctl client configuration
type Config struct {
	// APIURL is the base URL of the support platform API
	APIURL string `yaml:"api_url"`

	// TimeoutSeconds is the per-request HTTP timeout
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// LogFormat is one of text, json
	LogFormat string `yaml:"log_format"`
}

// Default returns the baked-in defaults
func Default() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		TimeoutSeconds: int(DefaultTimeout / time.Second),
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Timeout returns the per-request timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Home returns the deskctl home directory, ~/.deskctl unless overridden
// via DESKCTL_HOME
func Home() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".deskctl"
	}
	return filepath.Join(userHome, ".deskctl")
}

// Path returns the configuration file location
func Path() string {
	return filepath.Join(Home(), "config.yaml")
}

// Load reads the config file, applies environment overrides, and fills in
// defaults. A missing config file is not an error; a malformed one is.
func Load() (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeConfigUnmarshal,
				fmt.Sprintf("failed to parse config file: %s", Path()), err).
				WithSuggestion("Check the file for YAML syntax errors")
		}
	} else if !os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeConfigNotFound,
			fmt.Sprintf("failed to read config file: %s", Path()), err)
	}

	applyEnv(&cfg)

	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = int(DefaultTimeout / time.Second)
	}

	return cfg, nil
}

// applyEnv overlays environment variables onto the loaded config
func applyEnv(cfg *Config) {
	if url := os.Getenv(EnvAPIURL); url != "" {
		cfg.APIURL = url
	}
	if raw := os.Getenv(EnvTimeout); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			cfg.TimeoutSeconds = secs
		}
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}
}

// Save writes the configuration back to the config file
func Save(cfg Config) error {
	if err := os.MkdirAll(Home(), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to create config directory", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "failed to serialize configuration", err)
	}

	if err := os.WriteFile(Path(), data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed,
			fmt.Sprintf("failed to write config file: %s", Path()), err)
	}
	return nil
}
