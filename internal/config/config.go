// Package config provides configuration management for emojikit using Viper
// for flexible loading from files, environment variables, and command-line
// flags.
//
// The configuration system supports YAML files (.emojikit.yml), environment
// variable overrides with the EMOJIKIT_ prefix, and validation. It manages
// the demo server settings, picker geometry and category selection,
// suggestion behavior, storage backend, and locale.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/chitchat/emojikit/internal/emoji"
	"github.com/chitchat/emojikit/internal/picker"
)

type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Picker      PickerConfig      `yaml:"picker" mapstructure:"picker"`
	Suggestions SuggestionsConfig `yaml:"suggestions" mapstructure:"suggestions"`
	Storage     StorageConfig     `yaml:"storage" mapstructure:"storage"`
	Locale      string            `yaml:"locale" mapstructure:"locale"`
}

type ServerConfig struct {
	Port int    `yaml:"port" mapstructure:"port"`
	Host string `yaml:"host" mapstructure:"host"`
}

type PickerConfig struct {
	ViewportWidth      float64  `yaml:"viewport_width" mapstructure:"viewport_width"`
	EmojiSize          float64  `yaml:"emoji_size" mapstructure:"emoji_size"`
	ItemSizeMultiplier float64  `yaml:"item_size_multiplier" mapstructure:"item_size_multiplier"`
	Categories         []string `yaml:"categories" mapstructure:"categories"`
	SkintoneSetting    string   `yaml:"skintone_setting" mapstructure:"skintone_setting"`
	CategoryHeaders    bool     `yaml:"category_headers" mapstructure:"category_headers"`
}

type SuggestionsConfig struct {
	Mode       string `yaml:"mode" mapstructure:"mode"`
	Limit      int    `yaml:"limit" mapstructure:"limit"`
	AutoUpdate bool   `yaml:"auto_update" mapstructure:"auto_update"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // "memory" or "sqlite"
	Path   string `yaml:"path" mapstructure:"path"`
}

// Load builds the configuration from viper's current state, applying
// defaults and validating the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Server.Port == 0 {
		config.Server.Port = 8791
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}

	if config.Picker.ViewportWidth == 0 {
		config.Picker.ViewportWidth = picker.DefaultViewportWidth
	}
	if config.Picker.EmojiSize == 0 {
		config.Picker.EmojiSize = picker.DefaultEmojiSize
	}
	if config.Picker.ItemSizeMultiplier == 0 {
		config.Picker.ItemSizeMultiplier = picker.DefaultItemSizeMultiplier
	}
	if len(config.Picker.Categories) == 0 {
		if set := viper.GetStringSlice("picker.categories"); len(set) > 0 {
			config.Picker.Categories = set
		} else {
			for _, cat := range emoji.Categories {
				config.Picker.Categories = append(config.Picker.Categories, string(cat))
			}
		}
	}
	if config.Picker.SkintoneSetting == "" {
		config.Picker.SkintoneSetting = string(emoji.SkintoneSettingBoth)
	}
	if !viper.IsSet("picker.category_headers") {
		config.Picker.CategoryHeaders = true
	}

	if config.Suggestions.Mode == "" {
		config.Suggestions.Mode = string(emoji.SuggestionModeRecent)
	}
	if config.Suggestions.Limit == 0 {
		config.Suggestions.Limit = picker.DefaultSuggestionLimit
	}
	if !viper.IsSet("suggestions.auto_update") {
		config.Suggestions.AutoUpdate = true
	}

	if config.Storage.Driver == "" {
		config.Storage.Driver = "sqlite"
	}
	if config.Storage.Path == "" {
		config.Storage.Path = ".emojikit/emojis.db"
	}

	if config.Locale == "" {
		config.Locale = "en"
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// PickerSettings converts the configuration into session settings.
func (c *Config) PickerSettings() picker.Settings {
	settings := picker.DefaultSettings()
	settings.ViewportWidth = c.Picker.ViewportWidth
	settings.EmojiSize = c.Picker.EmojiSize
	settings.ItemSizeMultiplier = c.Picker.ItemSizeMultiplier
	settings.GenerateHeaders = c.Picker.CategoryHeaders
	settings.SkintoneSetting = emoji.SkintoneSetting(c.Picker.SkintoneSetting)
	settings.SuggestionMode = emoji.SuggestionMode(c.Suggestions.Mode)
	settings.SuggestionLimit = c.Suggestions.Limit
	settings.AutoUpdateSuggestions = c.Suggestions.AutoUpdate

	settings.Categories = settings.Categories[:0]
	for _, cat := range c.Picker.Categories {
		settings.Categories = append(settings.Categories, emoji.Category(cat))
	}
	return settings
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := validatePickerConfig(&config.Picker); err != nil {
		return fmt.Errorf("picker config: %w", err)
	}
	if err := validateSuggestionsConfig(&config.Suggestions); err != nil {
		return fmt.Errorf("suggestions config: %w", err)
	}
	if err := validateStorageConfig(&config.Storage); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}
	return nil
}

func validateServerConfig(config *ServerConfig) error {
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %s", char)
			}
		}
	}

	return nil
}

func validatePickerConfig(config *PickerConfig) error {
	if config.ViewportWidth <= 0 {
		return fmt.Errorf("viewport_width must be positive, got %v", config.ViewportWidth)
	}
	if config.EmojiSize <= 0 {
		return fmt.Errorf("emoji_size must be positive, got %v", config.EmojiSize)
	}
	if config.ItemSizeMultiplier <= 0 {
		return fmt.Errorf("item_size_multiplier must be positive, got %v", config.ItemSizeMultiplier)
	}
	for _, cat := range config.Categories {
		if !emoji.IsValidCategory(emoji.Category(cat)) {
			return fmt.Errorf("unknown category %q", cat)
		}
	}
	if !emoji.IsValidSkintoneSetting(emoji.SkintoneSetting(config.SkintoneSetting)) {
		return fmt.Errorf("unknown skintone_setting %q", config.SkintoneSetting)
	}
	return nil
}

func validateSuggestionsConfig(config *SuggestionsConfig) error {
	if !emoji.IsValidSuggestionMode(emoji.SuggestionMode(config.Mode)) {
		return fmt.Errorf("unknown mode %q", config.Mode)
	}
	if config.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", config.Limit)
	}
	return nil
}

func validateStorageConfig(config *StorageConfig) error {
	if config.Driver != "memory" && config.Driver != "sqlite" {
		return fmt.Errorf("unknown driver %q", config.Driver)
	}
	if config.Driver == "sqlite" {
		cleanPath := filepath.Clean(config.Path)
		if strings.Contains(cleanPath, "..") {
			return fmt.Errorf("path contains traversal: %s", config.Path)
		}
	}
	return nil
}
