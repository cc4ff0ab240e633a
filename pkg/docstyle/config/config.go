// Package config loads docstyle settings from YAML files.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Page-break policies.
const (
	PageBreaksDensity = "density"
	PageBreaksNone    = "none"
)

// DefaultOutputFilename is the name given to restyled documents.
const DefaultOutputFilename = "formatted_chat.docx"

// Config is the top-level configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Style  StyleConfig  `yaml:"style"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error disabled"`
	JSON  bool   `yaml:"json"`
}

// InputConfig controls input handling.
type InputConfig struct {
	TempDir     string `yaml:"temp_dir"`
	MaxSize     int64  `yaml:"max_size" validate:"gt=0"`
	StripMarkup *bool  `yaml:"strip_markup"`
}

// OutputConfig controls the produced document.
type OutputConfig struct {
	Filename   string `yaml:"filename" validate:"required,endswith=.docx"`
	PageBreaks string `yaml:"page_breaks" validate:"oneof=density none"`
	RolePrefix *bool  `yaml:"role_prefix"`
}

// StyleConfig overrides extracted styling.
type StyleConfig struct {
	// DefaultFont overrides every extracted font when set.
	DefaultFont *FontConfig `yaml:"default_font"`
}

// FontConfig is a font override. Zero fields keep the extracted value.
type FontConfig struct {
	Name  string  `yaml:"name"`
	Size  float64 `yaml:"size" validate:"gte=0,lte=400"`
	Color string  `yaml:"color" validate:"omitempty,hexadecimal,len=6"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads and validates a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Input.MaxSize <= 0 {
		c.Input.MaxSize = 50 << 20
	}
	if c.Output.Filename == "" {
		c.Output.Filename = DefaultOutputFilename
	}
	if c.Output.PageBreaks == "" {
		c.Output.PageBreaks = PageBreaksDensity
	}
}

// StripMarkup reports whether HTML markup is removed from content.
func (c *Config) StripMarkup() bool {
	if c.Input.StripMarkup != nil {
		return *c.Input.StripMarkup
	}
	return true
}

// RolePrefix reports whether role labels prefix each message.
func (c *Config) RolePrefix() bool {
	if c.Output.RolePrefix != nil {
		return *c.Output.RolePrefix
	}
	return true
}
