// Package config provides YAML configuration parsing for stackwatch.
//
// This package enables running stackwatch as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	site: stackoverflow
//	tags: [go, rust]
//	poll_minutes: 5
//	api_key: ${SO_API_KEY:-}
//
//	notify:
//	  enabled: true
//	  icon: /usr/share/icons/stackwatch.png
//
// The tags field also accepts the comma-separated form the original
// settings UI used:
//
//	tags: "go, rust"
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/higuaro/stackwatch"
)

const (
	defaultSite        = "stackoverflow"
	defaultPollMinutes = 5
)

// Config is the root configuration structure for stackwatch.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Site is the Stack Exchange site identifier. Defaults to
	// "stackoverflow".
	Site string `yaml:"site"`

	// Tags are the watched tags: either a YAML sequence or a single
	// comma-separated string. Normalized (trimmed, deduplicated) during
	// parsing.
	Tags TagList `yaml:"tags"`

	// PollMinutes is the poll interval and search window in whole
	// minutes. Defaults to 5.
	PollMinutes int `yaml:"poll_minutes"`

	// APIKey is the optional Stack Exchange API key.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}.
	APIKey string `yaml:"api_key"`

	// Dedupe suppresses re-delivery of questions already reported in an
	// earlier cycle. Zero disables it; a positive value is the number of
	// delivered ids remembered.
	Dedupe int `yaml:"dedupe"`

	// Debug lowers the log level to debug.
	Debug bool `yaml:"debug"`

	// Notify configures desktop notifications.
	Notify NotifyConfig `yaml:"notify"`
}

// NotifyConfig configures the CLI's desktop notification spawning.
type NotifyConfig struct {
	// Enabled spawns one notify-send per newly reported question.
	Enabled bool `yaml:"enabled"`

	// Icon is the notification icon path. Supports environment variable
	// substitution.
	Icon string `yaml:"icon"`
}

// TagList is a tag set that unmarshals from either a YAML sequence or a
// comma-separated scalar.
type TagList []string

// UnmarshalYAML implements yaml.Unmarshaler for TagList.
func (t *TagList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*t = stackwatch.ParseTagList(s)
		return nil
	case yaml.SequenceNode:
		var tags []string
		if err := node.Decode(&tags); err != nil {
			return err
		}
		*t = stackwatch.NormalizeTags(tags)
		return nil
	default:
		return fmt.Errorf("tags must be a string or a sequence, got %v", node.Kind)
	}
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded after parsing. Returns
// an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in Site, APIKey, and Notify.Icon.
// Defaults are applied for Site ("stackoverflow") and PollMinutes (5).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Site == "" {
		cfg.Site = defaultSite
	}
	if cfg.PollMinutes == 0 {
		cfg.PollMinutes = defaultPollMinutes
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	expanded, err := expandEnvVars(c.Site)
	if err != nil {
		return fmt.Errorf("site: %w", err)
	}
	c.Site = expanded
	if c.Site == "" {
		return fmt.Errorf("site cannot be empty")
	}

	if c.PollMinutes < 1 {
		return fmt.Errorf("poll_minutes must be at least 1, got %d", c.PollMinutes)
	}

	expanded, err = expandEnvVars(c.APIKey)
	if err != nil {
		return fmt.Errorf("api_key: %w", err)
	}
	c.APIKey = expanded

	if c.Dedupe < 0 {
		return fmt.Errorf("dedupe cannot be negative, got %d", c.Dedupe)
	}

	expanded, err = expandEnvVars(c.Notify.Icon)
	if err != nil {
		return fmt.Errorf("notify.icon: %w", err)
	}
	c.Notify.Icon = expanded

	return nil
}
