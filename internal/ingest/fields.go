package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agentic-research/nestree/api"
	"github.com/agentic-research/nestree/internal/source"
)

// FieldMap names the keys of a source object that carry each record attribute.
type FieldMap struct {
	ID     string
	Title  string
	Left   string
	Right  string // optional
	Level  string
	Root   string
	Active string // optional
}

// DefaultFieldMap mirrors source.DefaultColumns.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		ID:     "id",
		Title:  "name",
		Left:   "lft",
		Right:  "rgt",
		Level:  "level",
		Root:   "root",
		Active: "active",
	}
}

// toRecord maps one decoded object onto a Record.
func (f FieldMap) toRecord(obj map[string]any) (api.Record, error) {
	r := api.Record{Active: true, ChildCount: -1}

	id, err := requiredInt(obj, f.ID)
	if err != nil {
		return r, err
	}
	r.ID = api.ID(id)

	if v, ok := obj[f.Title]; ok && v != nil {
		r.Title = fmt.Sprint(v)
	}

	left, err := requiredInt(obj, f.Left)
	if err != nil {
		return r, err
	}
	r.Left = int(left)

	level, err := requiredInt(obj, f.Level)
	if err != nil {
		return r, err
	}
	r.Level = int(level)

	root, err := requiredInt(obj, f.Root)
	if err != nil {
		return r, err
	}
	r.Root = api.ID(root)

	if f.Right != "" {
		if v, ok := obj[f.Right]; ok && v != nil {
			right, err := asInt(v)
			if err != nil {
				return r, fmt.Errorf("field %q: %w", f.Right, err)
			}
			r.Right = int(right)
		}
	}

	if f.Active != "" {
		if v, ok := obj[f.Active]; ok && v != nil {
			active, err := asBool(v)
			if err != nil {
				return r, fmt.Errorf("field %q: %w", f.Active, err)
			}
			r.Active = active
		}
	}
	return r, nil
}

func requiredInt(obj map[string]any, key string) (int64, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("missing field %q", key)
	}
	n, err := asInt(v)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return n, nil
}

func asInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("not an integer: %v", n)
		}
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func asBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, fmt.Errorf("not a boolean: %q", b)
		}
		return parsed, nil
	default:
		n, err := asInt(v)
		if err != nil {
			return false, err
		}
		return n != 0, nil
	}
}

// FieldsFromColumns uses the storage column names as record field keys, so a
// JSON export of a table loads with the same configuration that reads it.
func FieldsFromColumns(c source.Columns) FieldMap {
	return FieldMap{
		ID:     c.ID,
		Title:  c.Title,
		Left:   c.Left,
		Right:  c.Right,
		Level:  c.Level,
		Root:   c.Root,
		Active: c.Active,
	}
}
