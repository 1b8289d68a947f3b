package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nestree.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.hcl")

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, true)
	assert.Error(t, err)
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	path := writeConfig(t, `
source {
  path  = "catalog.db"
  table = "category"
  columns {
    title = "label"
  }
}

glyphs {
  indent = "-"
}

outline {
  exclude  = 7
  group    = 7
  baseline = 2
}

logging {
  level = "debug"
}
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Source.Driver)
	assert.Equal(t, "catalog.db", cfg.Source.Path)
	assert.Equal(t, "category", cfg.Source.Table)
	assert.Equal(t, "label", cfg.Source.Columns.Title)
	assert.Equal(t, "lft", cfg.Source.Columns.Left)

	assert.Equal(t, "-", cfg.Glyphs.Indent)
	assert.Equal(t, "›", cfg.Glyphs.Arrow)

	assert.Equal(t, int64(7), cfg.Outline.Exclude)
	assert.Equal(t, int64(7), cfg.Outline.Group)
	assert.Equal(t, 2, cfg.Outline.Baseline)
	assert.Equal(t, "update?id=%d", cfg.Outline.UpdateURL)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown driver", `source { driver = "redis" }`, "source.driver"},
		{"bad table", `source { table = "tree; drop" }`, "source.table"},
		{"bad column", `source {
  columns {
    left = "1lft"
  }
}`, "source.columns"},
		{"negative baseline", `outline { baseline = -1 }`, "outline.baseline"},
		{"negative group", `outline { group = -3 }`, "outline.group"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), true)
			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	_, err := Load(writeConfig(t, `source {`), true)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.NotErrorAs(t, err, &cfgErr)
}
