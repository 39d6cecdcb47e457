package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// HeaderPair is one user-configured static header sent with every API
// request (unless the server host is on a private network).
type HeaderPair struct {
	Key   string `mapstructure:"key" yaml:"key"`
	Value string `mapstructure:"value" yaml:"value"`
}

// ServerConfig holds the connection settings for the Mealie instance.
// The bearer token is deliberately absent: it lives in the system
// keyring, never in the YAML file.
type ServerConfig struct {
	// URL is the root URL of the Mealie instance.
	URL string `mapstructure:"url" yaml:"url"`

	// HouseholdID is the Mealie household the client operates in.
	HouseholdID string `mapstructure:"household_id" yaml:"household_id"`

	// ShoppingListID selects the single active shopping list; all
	// shopping operations implicitly target it.
	ShoppingListID string `mapstructure:"shopping_list_id" yaml:"shopping_list_id"`

	// SendOptionalHeaders enables the static header pairs below.
	SendOptionalHeaders bool `mapstructure:"send_optional_headers" yaml:"send_optional_headers"`

	// OptionalHeaders holds up to three static header pairs, e.g. for a
	// reverse proxy in front of a public instance.
	OptionalHeaders []HeaderPair `mapstructure:"optional_headers" yaml:"optional_headers"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	// Language is a BCP 47 tag used for locale-aware sorting and the
	// translateLanguage hint on image uploads.
	Language string `mapstructure:"language" yaml:"language"`

	// ShowCompleted controls whether checked items are visible.
	ShowCompleted bool `mapstructure:"show_completed" yaml:"show_completed"`

	// CollapsedCategories lists category names whose groups render
	// collapsed, keyed by the raw (unstripped) label name.
	CollapsedCategories []string `mapstructure:"collapsed_categories" yaml:"collapsed_categories"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server   ServerConfig  `mapstructure:"server" yaml:"server"`
	Display  DisplayConfig `mapstructure:"display" yaml:"display"`
	LogLevel string        `mapstructure:"log_level" yaml:"log_level"`
}

// Configured reports whether enough settings exist to talk to a server.
func (c *AppConfig) Configured() bool {
	return c.Server.URL != "" && c.Server.ShoppingListID != ""
}

// CategoryCollapsed reports whether the named category is collapsed.
func (c *AppConfig) CategoryCollapsed(name string) bool {
	for _, n := range c.Display.CollapsedCategories {
		if n == name {
			return true
		}
	}
	return false
}

// ToggleCategoryCollapsed flips the collapse state for a category name.
func (c *AppConfig) ToggleCategoryCollapsed(name string) {
	for i, n := range c.Display.CollapsedCategories {
		if n == name {
			c.Display.CollapsedCategories = append(
				c.Display.CollapsedCategories[:i],
				c.Display.CollapsedCategories[i+1:]...,
			)
			return
		}
	}
	c.Display.CollapsedCategories = append(c.Display.CollapsedCategories, name)
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/mealieterm/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "mealieterm", "config.yaml")
}

// DefaultLogPath returns the default path for the log file, next to the
// configuration file so log output never touches the terminal UI.
func DefaultLogPath() string {
	return filepath.Join(filepath.Dir(DefaultConfigPath()), "mealieterm.log")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			HouseholdID: "Family",
		},
		Display: DisplayConfig{
			Language:      "de",
			ShowCompleted: true,
		},
		LogLevel: "info",
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.household_id", "Family")
	v.SetDefault("display.language", "de")
	v.SetDefault("display.show_completed", true)
	v.SetDefault("log_level", "info")

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

	if !cfg.Display.ShowCompleted {
		// Viper unmarshals missing bools as false; treat unset as true.
		if !v.IsSet("display.show_completed") {
			cfg.Display.ShowCompleted = true
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

	v.Set("server", cfg.Server)
	v.Set("display", cfg.Display)
	v.Set("log_level", cfg.LogLevel)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
