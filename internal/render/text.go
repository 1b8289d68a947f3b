package render

import (
	"strconv"
	"strings"

	"github.com/agentic-research/nestree/api"
	"github.com/agentic-research/nestree/internal/nestedset"
)

// Text renders an indented bullet outline for terminals. Structural markers
// are empty, so the raw outline carries blank lines; pass it through Compact.
type Text struct {
	Baseline int
	Indent   string
	NoCounts bool
}

var _ nestedset.CountingMarkup = Text{}

// NewText returns a Text markup indenting by two spaces per level below baseline.
func NewText(baseline int) Text {
	return Text{Baseline: baseline, Indent: "  "}
}

func (Text) OpenContainer() string      { return "" }
func (Text) CloseContainer() string     { return "" }
func (Text) OpenList(int) string        { return "" }
func (Text) CloseList() string          { return "" }
func (Text) OpenItem(api.Record) string { return "" }
func (Text) CloseItem() string          { return "" }

func (t Text) CountsDescendants() bool { return !t.NoCounts }

func (t Text) Fragment(_ int, r api.Record) string {
	var sb strings.Builder
	if depth := r.Level - t.Baseline; depth > 0 {
		sb.WriteString(strings.Repeat(t.Indent, depth))
	}
	sb.WriteString("- ")
	sb.WriteString(r.Title)
	if !t.NoCounts && r.ChildCount > 0 {
		sb.WriteString(" (" + strconv.Itoa(r.ChildCount) + ")")
	}
	if !r.Active {
		sb.WriteString(" [inactive]")
	}
	sb.WriteByte('\n')
	return sb.String()
}

// Compact drops the blank lines left by empty markers.
func Compact(out string) string {
	lines := strings.Split(out, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, "\n") + "\n"
}
