package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SourceConfig holds the configuration for a single inbound message source.
type SourceConfig struct {
	// ID is the unique identifier for this source instance.
	ID string `mapstructure:"id" yaml:"id"`

	// Type identifies the source kind (e.g., "email").
	Type string `mapstructure:"type" yaml:"type"`

	// Name is the user-defined label for this source instance.
	Name string `mapstructure:"name" yaml:"name"`

	// BaseURL is the root address of the source service, where applicable.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Enabled controls whether this source is actively polled.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// PollIntervalSec is how often (in seconds) to fetch new messages.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// Config holds source-specific key-value settings
	// (e.g., IMAP host/port, mailbox name, username).
	Config map[string]string `mapstructure:"config" yaml:"config"`
}

// DisplayConfig holds inbox listing preferences.
type DisplayConfig struct {
	// PageSize caps how many conversations an inbox listing returns.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// ShowArchived includes archived conversations in listings.
	ShowArchived bool `mapstructure:"show_archived" yaml:"show_archived"`
}

// AIConfig controls the optional message analyzer.
type AIConfig struct {
	// Enabled turns on analysis of messages that arrive without hints.
	// The API key comes from the system keyring.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Model overrides the default Claude model name.
	Model string `mapstructure:"model" yaml:"model"`

	// MaxTokens caps the response size per analysis call.
	MaxTokens int `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// DBPath is the SQLite database file location.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	Sources []SourceConfig `mapstructure:"sources" yaml:"sources"`
	Display DisplayConfig  `mapstructure:"display" yaml:"display"`
	AI      AIConfig       `mapstructure:"ai" yaml:"ai"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/comsierge/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "comsierge", "config.yaml")
}

// defaultDBPath returns the default SQLite database location next to the
// configuration file.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "comsierge.db")
	}
	return filepath.Join(home, ".config", "comsierge", "comsierge.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DBPath:  defaultDBPath(),
		Sources: []SourceConfig{},
		Display: DisplayConfig{
			PageSize: 50,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("db_path", defaultDBPath())
	v.SetDefault("display.page_size", 50)
	v.SetDefault("display.show_archived", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Apply defaults for each source entry.
	for i := range cfg.Sources {
		if cfg.Sources[i].PollIntervalSec == 0 {
			cfg.Sources[i].PollIntervalSec = 120
		}
		if !cfg.Sources[i].Enabled {
			// Viper unmarshals missing bools as false; treat unset as true.
			key := fmt.Sprintf("sources.%d.enabled", i)
			if !v.IsSet(key) {
				cfg.Sources[i].Enabled = true
			}
		}
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("db_path", cfg.DBPath)
	v.Set("sources", cfg.Sources)
	v.Set("display", cfg.Display)
	v.Set("ai", cfg.AI)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
