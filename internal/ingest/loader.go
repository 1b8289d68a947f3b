package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/agentic-research/nestree/api"
)

// DefaultSelector picks every element of a top-level array.
const DefaultSelector = "$[*]"

// LoadOptions configures Load and Parse.
type LoadOptions struct {
	// Selector is a JSONPath expression selecting the record objects.
	Selector string
	Fields   FieldMap
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.Selector == "" {
		o.Selector = DefaultSelector
	}
	if o.Fields == (FieldMap{}) {
		o.Fields = DefaultFieldMap()
	}
	return o
}

// Load reads a JSON or YAML file from fsys and decodes the records selected by
// opts.Selector. The format is chosen by file extension.
func Load(fsys billy.Filesystem, path string, opts LoadOptions) ([]api.Record, error) {
	data, err := util.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	records, err := Parse(data, formatFor(path), opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return records, nil
}

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Parse decodes data ("json" or "yaml") and maps every selected object to a Record.
func Parse(data []byte, format string, opts LoadOptions) ([]api.Record, error) {
	opts = opts.withDefaults()

	var doc any
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case "json":
		parsed, err := oj.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		doc = parsed
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	x, err := jp.ParseString(opts.Selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", opts.Selector, err)
	}

	matches := x.Get(doc)
	records := make([]api.Record, 0, len(matches))
	for i, m := range matches {
		obj, ok := m.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("match %d: expected object, got %T", i, m)
		}
		r, err := opts.Fields.toRecord(obj)
		if err != nil {
			return nil, fmt.Errorf("match %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}
