// Package config loads dlisgraph configuration: fallback string encodings,
// logging and output settings, the catalog location, and the type registry
// customizations (record type bindings plus variant-global attribute and
// linkage overrides) that are applied to every session.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/dlisgraph/pkg/linkage"
	"github.com/leapstack-labs/dlisgraph/pkg/valuetype"
)

// Default configuration values.
const (
	DefaultStateFile = ".dlisgraph/catalog.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=json
	DefaultLogLevel  = "warn"
)

// Output formats.
const (
	OutputAuto = "auto"
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds all configuration options.
type Config struct {
	Encodings []string `koanf:"encodings"`
	LogLevel  string   `koanf:"log_level"`
	Verbose   bool     `koanf:"verbose"`
	Output    string   `koanf:"output"`
	StatePath string   `koanf:"state_path"`

	// Types maps a record type to a variant name; "unknown" unbinds it.
	Types map[string]string `koanf:"types"`
	// Attributes maps variant name to label to coercer tag.
	Attributes map[string]map[string]CoercerTag `koanf:"attributes"`
	// Linkage maps variant name to label to linkage tag.
	Linkage map[string]map[string]LinkageTag `koanf:"linkage"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
	// Root is the directory relative paths are resolved against.
	Root string `koanf:"-"`
}

// CoercerTag is a coercer named in configuration. The tag "mask" removes
// the label from the variant's schema.
type CoercerTag struct {
	Coercer valuetype.Coercer
	Masked  bool
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *CoercerTag) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if strings.EqualFold(s, "mask") {
		*t = CoercerTag{Masked: true}
		return nil
	}
	c, err := valuetype.Parse(s)
	if err != nil {
		return err
	}
	*t = CoercerTag{Coercer: c}
	return nil
}

func (t CoercerTag) String() string {
	if t.Masked {
		return "mask"
	}
	if t.Coercer == nil {
		return ""
	}
	return t.Coercer.String()
}

// LinkageTag is a linkage rule named in configuration. The rule "none"
// removes the label from the variant's linkage schema.
type LinkageTag struct {
	Rule linkage.Rule
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *LinkageTag) UnmarshalText(text []byte) error {
	r, err := linkage.Parse(string(text))
	if err != nil {
		return err
	}
	t.Rule = r
	return nil
}

func (t LinkageTag) String() string {
	if t.Rule == nil {
		return ""
	}
	return t.Rule.String()
}

// Level returns the configured log level. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputAuto, OutputText, OutputJSON:
	default:
		return fmt.Errorf("invalid output format %q\nHint: Use one of auto, text, json", c.Output)
	}
	if c.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return fmt.Errorf("invalid log_level %q\nHint: Use one of debug, info, warn, error", c.LogLevel)
		}
	}
	for recordType, name := range c.Types {
		if strings.TrimSpace(recordType) == "" || strings.TrimSpace(name) == "" {
			return fmt.Errorf("types: record type and variant name are required (got %q: %q)", recordType, name)
		}
	}
	return nil
}
