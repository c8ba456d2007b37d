// Package config handles 3dstool configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/max3ds/pkg/encoding"
	"github.com/Faultbox/max3ds/pkg/formats"
)

// Config holds all tool settings.
type Config struct {
	Import  ImportConfig  `yaml:"import"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ImportConfig holds decoder settings.
type ImportConfig struct {
	IgnorePivot bool     `yaml:"ignore_pivot"`
	Keyframes   bool     `yaml:"keyframes"` // decode animation tracks
	Charset     string   `yaml:"charset"`   // code page of chunk strings
	TextureDirs []string `yaml:"texture_dirs,omitempty"`
}

// OutputConfig holds report settings.
type OutputConfig struct {
	Format string `yaml:"format"` // "text" or "yaml"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Import: ImportConfig{
			IgnorePivot: false,
			Keyframes:   true,
			Charset:     string(encoding.DefaultCharset),
		},
		Output: OutputConfig{
			Format: FormatText,
		},
		Logging: LoggingConfig{
			Level:   "warn",
			LogFile: "",
		},
	}
}

// Validate checks values that cannot be caught while unmarshaling.
func (c *Config) Validate() error {
	if _, err := encoding.ParseCharset(c.Import.Charset); err != nil {
		return fmt.Errorf("import.charset: %w", err)
	}
	switch c.Output.Format {
	case FormatText, FormatYAML:
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	return nil
}

// Options converts the import settings to decoder options.
func (c ImportConfig) Options(log *zap.Logger) (formats.Options, error) {
	charset, err := encoding.ParseCharset(c.Charset)
	if err != nil {
		return formats.Options{}, err
	}
	return formats.Options{
		Logger:        log,
		IgnorePivot:   c.IgnorePivot,
		SkipKeyframes: !c.Keyframes,
		Charset:       charset,
	}, nil
}
