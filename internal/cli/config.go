package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/evcraddock/plot-visits/internal/client"
)

// Defaults used when neither env nor config file set a value.
const (
	defaultPort           = 8080
	defaultRequestTimeout = 30 * time.Second
)

// Duration is a time.Duration stored as a string such as "30s".
type Duration time.Duration

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	v, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(v)
	return nil
}

// CLIConfig holds configuration persisted to disk.
type CLIConfig struct {
	BackendURL     string    `yaml:"backend_url,omitempty"`
	Port           int       `yaml:"port,omitempty"`
	RequestTimeout *Duration `yaml:"request_timeout,omitempty"`
	RenderWait     *Duration `yaml:"render_wait,omitempty"`
	SessionTTL     *Duration `yaml:"session_ttl,omitempty"`
	DevMode        bool      `yaml:"dev_mode,omitempty"`
}

// configPath returns the path to the config file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pv", "config.yaml"), nil
}

// loadConfig reads the config from disk.
// Returns a zero-value config if the file doesn't exist.
func loadConfig() (CLIConfig, error) {
	path, err := configPath()
	if err != nil {
		return CLIConfig{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return CLIConfig{}, nil
	}
	if err != nil {
		return CLIConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// saveConfig writes the config to disk.
func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// getBackendURL returns the backend URL from env var, config, or default.
func getBackendURL() string {
	if v := os.Getenv("PV_BACKEND_URL"); v != "" {
		return v
	}
	cfg, err := loadConfig()
	if err == nil && cfg.BackendURL != "" {
		return cfg.BackendURL
	}
	return client.DefaultBaseURL
}

// getPort returns the web UI port from env var, config, or default.
func getPort() int {
	if v := os.Getenv("PV_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			return p
		}
	}
	cfg, err := loadConfig()
	if err == nil && cfg.Port != 0 {
		return cfg.Port
	}
	return defaultPort
}

// getRequestTimeout returns the API request timeout. Zero disables it.
func getRequestTimeout() time.Duration {
	cfg, err := loadConfig()
	if err == nil && cfg.RequestTimeout != nil {
		return time.Duration(*cfg.RequestTimeout)
	}
	return defaultRequestTimeout
}

// getRenderWait returns how long the web UI waits before rendering. Zero
// means the web package default.
func getRenderWait() time.Duration {
	cfg, err := loadConfig()
	if err == nil && cfg.RenderWait != nil {
		return time.Duration(*cfg.RenderWait)
	}
	return 0
}

// getSessionTTL returns the idle session lifetime. Zero means the default.
func getSessionTTL() time.Duration {
	cfg, err := loadConfig()
	if err == nil && cfg.SessionTTL != nil {
		return time.Duration(*cfg.SessionTTL)
	}
	return 0
}

// getDevMode reports whether human-readable debug logging is on.
func getDevMode() bool {
	if v := os.Getenv("PV_DEV_MODE"); v != "" {
		return v == "true"
	}
	cfg, err := loadConfig()
	return err == nil && cfg.DevMode
}
