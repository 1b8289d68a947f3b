package source

import (
	"fmt"
	"regexp"
	"strings"
)

// Columns names the storage columns that carry each record attribute.
type Columns struct {
	ID     string
	Title  string
	Left   string
	Right  string
	Level  string
	Root   string
	Active string // optional; records are active when empty
}

// DefaultColumns matches the conventional nested-set table layout.
func DefaultColumns() Columns {
	return Columns{
		ID:     "id",
		Title:  "name",
		Left:   "lft",
		Right:  "rgt",
		Level:  "level",
		Root:   "root",
		Active: "active",
	}
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s can be used as a bare SQL identifier.
func ValidIdentifier(s string) bool {
	return identRe.MatchString(s)
}

// Validate checks that every required column is a plain identifier.
func (c Columns) Validate() error {
	required := map[string]string{
		"id": c.ID, "title": c.Title, "left": c.Left,
		"right": c.Right, "level": c.Level, "root": c.Root,
	}
	for field, col := range required {
		if !ValidIdentifier(col) {
			return fmt.Errorf("column %s: invalid identifier %q", field, col)
		}
	}
	if c.Active != "" && !ValidIdentifier(c.Active) {
		return fmt.Errorf("column active: invalid identifier %q", c.Active)
	}
	return nil
}

// selectList renders the SELECT column list in Record field order.
func (c Columns) selectList() string {
	active := "1"
	if c.Active != "" {
		active = quote(c.Active)
	}
	return strings.Join([]string{
		quote(c.ID), quote(c.Title), quote(c.Left), quote(c.Right),
		quote(c.Level), quote(c.Root), active,
	}, ", ")
}

func quote(ident string) string {
	return `"` + ident + `"`
}
