// Package config loads careerdeck configuration from YAML, .env and the
// process environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the config directory.
const FileName = "config.yaml"

// Config holds all careerdeck configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Polling PollingConfig `yaml:"polling"`
	Layout  LayoutConfig  `yaml:"layout"`
	UI      UIConfig      `yaml:"ui"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`

	// Token is never written to disk by Save; it comes from DECK_TOKEN or
	// the local store.
	Token string `yaml:"-"`
}

// StoreConfig configures the local SQLite store.
type StoreConfig struct {
	// DatabasePath is relative to the config directory unless absolute.
	DatabasePath string `yaml:"database_path"`
}

// MetricsConfig configures the optional prometheus endpoint.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"` // empty disables the endpoint
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API:     DefaultAPIConfig(),
		Polling: DefaultPollingConfig(),
		Layout:  DefaultLayoutConfig(),
		UI:      UIConfig{Theme: "dark"},
		Store:   StoreConfig{DatabasePath: "deck.db"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Dir returns the directory where config is stored: a workspace-local .deck
// directory when one exists above the working directory, otherwise
// ~/.careerdeck.
func Dir() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		dir := cwd
		for {
			local := filepath.Join(dir, ".deck")
			if stat, err := os.Stat(local); err == nil && stat.IsDir() {
				return local, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".careerdeck"), nil
}

// DefaultPath returns the full path to the config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load loads configuration from a YAML file. A missing file yields defaults.
// A .env file next to the config file, then one in the working directory,
// is loaded before environment overrides are applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	loadDotEnv(filepath.Join(filepath.Dir(path), ".env"), ".env")
	cfg.applyEnvOverrides()

	return cfg, nil
}

// loadDotEnv loads each existing .env file without overriding variables that
// are already set.
func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		_ = godotenv.Load(p)
	}
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("DECK_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if token := os.Getenv("DECK_TOKEN"); token != "" {
		c.Token = token
	}
	if theme := os.Getenv("DECK_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if v := os.Getenv("DECK_DEBUG"); v != "" {
		c.Logging.DebugMode = v == "1" || strings.EqualFold(v, "true")
	}
	if addr := os.Getenv("DECK_METRICS_ADDR"); addr != "" {
		c.Metrics.ListenAddr = addr
	}
}

// DatabasePath resolves the store path against dir.
func (c *Config) DatabasePath(dir string) string {
	if filepath.IsAbs(c.Store.DatabasePath) {
		return c.Store.DatabasePath
	}
	return filepath.Join(dir, c.Store.DatabasePath)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url must be set (or DECK_API_URL)")
	}
	if err := c.Polling.validate(); err != nil {
		return err
	}
	if err := c.Layout.validate(); err != nil {
		return err
	}
	switch c.UI.Theme {
	case "", "light", "dark":
	default:
		return fmt.Errorf("ui.theme must be light or dark, got %q", c.UI.Theme)
	}
	return nil
}
