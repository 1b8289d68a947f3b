package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/agentic-research/nestree/internal/nestedset"
	"github.com/agentic-research/nestree/internal/source"
)

// Driver names a tree data source implementation.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Config is the complete nestree configuration.
type Config struct {
	Source  SourceConfig
	Glyphs  nestedset.Glyphs
	Outline OutlineConfig
	Logging LoggingConfig
}

// SourceConfig locates the records.
type SourceConfig struct {
	Driver string
	Path   string
	Table  string // sqlite only
	// Selector is the JSONPath of the record objects (file only).
	Selector string
	Columns  source.Columns
}

// OutlineConfig drives the sortable outline.
type OutlineConfig struct {
	Exclude   int64 // absolute root left out of the outline
	Group     int64 // group outlined on its own; 0 outlines every group
	Baseline  int   // level of the top-level items
	UpdateURL string
	DeleteURL string
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string
	Format string
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Driver:   DriverSQLite,
			Path:     "tree.db",
			Table:    "tree",
			Selector: "$[*]",
			Columns:  source.DefaultColumns(),
		},
		Glyphs: nestedset.DefaultGlyphs(),
		Outline: OutlineConfig{
			Exclude:   1,
			Baseline:  1,
			UpdateURL: "update?id=%d",
			DeleteURL: "delete?id=%d",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load decodes the HCL (or HCL-flavoured JSON) file at path over Default().
// A missing file yields the defaults unless required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	var fc fileConfig
	if err := hclsimple.DecodeFile(path, nil, &fc); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	fc.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Source.Driver {
	case DriverSQLite:
		if !source.ValidIdentifier(c.Source.Table) {
			return &ConfigError{Field: "source.table", Message: fmt.Sprintf("invalid identifier %q", c.Source.Table)}
		}
		if err := c.Source.Columns.Validate(); err != nil {
			return &ConfigError{Field: "source.columns", Message: err.Error()}
		}
	case DriverFile:
		if c.Source.Selector == "" {
			return &ConfigError{Field: "source.selector", Message: "must not be empty"}
		}
	default:
		return &ConfigError{Field: "source.driver", Message: fmt.Sprintf("unknown driver %q", c.Source.Driver)}
	}
	if c.Source.Path == "" {
		return &ConfigError{Field: "source.path", Message: "must not be empty"}
	}
	if c.Outline.Group < 0 {
		return &ConfigError{Field: "outline.group", Message: "must not be negative"}
	}
	if c.Outline.Baseline < 0 {
		return &ConfigError{Field: "outline.baseline", Message: "must not be negative"}
	}
	if c.Glyphs.Indent == "" {
		return &ConfigError{Field: "glyphs.indent", Message: "must not be empty"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
