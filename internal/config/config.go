// Package config loads md2docx settings from a YAML file with environment
// overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chriserin/md2docx/convert"
	"github.com/chriserin/md2docx/docx"
	"github.com/chriserin/md2docx/plugins"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = ".md2docx.yaml"

// EnvPrefix prefixes environment overrides, e.g. MD2DOCX_IMAGE_SCALE.
const EnvPrefix = "MD2DOCX"

type Config struct {
	UseTitle   bool           `yaml:"use_title" mapstructure:"use_title"`
	Plugins    []string       `yaml:"plugins" mapstructure:"plugins"`
	Format     string         `yaml:"format" mapstructure:"format"`
	Resolution string         `yaml:"resolution" mapstructure:"resolution"`
	LogLevel   string         `yaml:"log_level" mapstructure:"log_level"`
	OutputDir  string         `yaml:"output_dir" mapstructure:"output_dir"`
	Document   DocumentConfig `yaml:"document" mapstructure:"document"`
	Styles     StylesConfig   `yaml:"styles" mapstructure:"styles"`
	Image      ImageConfig    `yaml:"image" mapstructure:"image"`
}

// DocumentConfig holds metadata used when front matter leaves it unset.
type DocumentConfig struct {
	Title       string   `yaml:"title" mapstructure:"title"`
	Creator     string   `yaml:"creator" mapstructure:"creator"`
	Description string   `yaml:"description" mapstructure:"description"`
	Subject     string   `yaml:"subject" mapstructure:"subject"`
	Keywords    []string `yaml:"keywords,omitempty" mapstructure:"keywords"`
}

// StylesConfig overrides the default style bundle. Spacing is in twentieths
// of a point, line spacing in 240ths of a line and run size in half-points.
type StylesConfig struct {
	SpacingBefore        int    `yaml:"spacing_before" mapstructure:"spacing_before"`
	LineSpacing          int    `yaml:"line_spacing" mapstructure:"line_spacing"`
	Alignment            string `yaml:"alignment" mapstructure:"alignment"`
	RunSize              int    `yaml:"run_size" mapstructure:"run_size"`
	HeadingSpacingBefore int    `yaml:"heading_spacing_before" mapstructure:"heading_spacing_before"`
}

type ImageConfig struct {
	Remote       bool          `yaml:"remote" mapstructure:"remote"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Scale        float64       `yaml:"scale" mapstructure:"scale"`
	CacheEnabled bool          `yaml:"cache_enabled" mapstructure:"cache_enabled"`
	CachePath    string        `yaml:"cache_path" mapstructure:"cache_path"`
}

// Default returns the settings used when no file sets them.
func Default() *Config {
	return &Config{
		UseTitle:   true,
		Plugins:    append([]string(nil), plugins.DefaultNames...),
		Format:     string(docx.FormatJSON),
		Resolution: string(convert.ResolutionBestEffort),
		LogLevel:   "warn",
		Styles: StylesConfig{
			SpacingBefore:        175,
			LineSpacing:          300,
			Alignment:            "thaiDistribute",
			RunSize:              24,
			HeadingSpacingBefore: 350,
		},
		Image: ImageConfig{
			Remote:       true,
			Timeout:      10 * time.Second,
			Scale:        1,
			CacheEnabled: true,
			CachePath:    filepath.Join(".md2docx", "cache.db"),
		},
	}
}

// Load reads FileName from the working directory. A missing file leaves the
// defaults in place.
func Load() (*Config, error) {
	return LoadFromPath(FileName)
}

// LoadFromPath reads the config at path over the defaults and applies
// environment overrides. Unlike Write it never creates the file.
func LoadFromPath(path string) (*Config, error) {
	defaults, err := yaml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("marshaling defaults: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("reading defaults: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Write saves c to path as YAML, creating the directory.
func (c *Config) Write(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, err := docx.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if _, err := convert.ParseResolution(c.Resolution); err != nil {
		return fmt.Errorf("resolution: %w", err)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	if c.Image.Scale < 0 {
		return fmt.Errorf("image.scale cannot be negative")
	}
	return nil
}

// Properties returns the document properties the config describes.
func (c *Config) Properties() docx.Properties {
	props := docx.DefaultProperties()
	props.Title = c.Document.Title
	props.Creator = c.Document.Creator
	props.Description = c.Document.Description
	props.Subject = c.Document.Subject
	props.Keywords = strings.Join(c.Document.Keywords, ", ")

	s := c.Styles
	doc := props.Styles.Document
	if s.SpacingBefore != 0 || s.LineSpacing != 0 {
		doc.Paragraph.Spacing = &docx.Spacing{Before: s.SpacingBefore, Line: s.LineSpacing}
	}
	if s.Alignment != "" {
		doc.Paragraph.Alignment = s.Alignment
	}
	if s.RunSize != 0 {
		doc.Run = &docx.RunProps{Size: s.RunSize}
	}
	props.Styles.Document = doc
	if s.HeadingSpacingBefore != 0 {
		for name := range props.Styles.Headings {
			props.Styles.Headings[name] = docx.StyleDef{
				Paragraph: &docx.ParaProps{Spacing: &docx.Spacing{Before: s.HeadingSpacingBefore}},
			}
		}
	}
	return props
}
