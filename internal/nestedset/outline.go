package nestedset

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentic-research/nestree/api"
)

// Markup supplies the markers of a nested outline. The outline renderer only
// decides where markers go; what they look like belongs to the Markup.
type Markup interface {
	OpenContainer() string
	CloseContainer() string
	// OpenList opens a nested list whose items sit at level+1.
	OpenList(level int) string
	CloseList() string
	OpenItem(r api.Record) string
	CloseItem() string
	// Fragment renders the body of an item. index is the record's position in
	// the sequence. Fragments carry their own trailing newlines.
	Fragment(index int, r api.Record) string
}

// CountingMarkup is a Markup that displays descendant counts. Builder.Outline
// fills Record.ChildCount before rendering when CountsDescendants is true.
type CountingMarkup interface {
	Markup
	CountsDescendants() bool
}

// CheckSequence verifies that records form a pre-order sequence whose first
// record sits at baseline, that never rises more than one level at a time and
// never drops below baseline.
func CheckSequence(records []api.Record, baseline int) error {
	prev := baseline - 1
	for i, r := range records {
		if r.Level > prev+1 || r.Level < baseline {
			return &SequenceError{Index: i, ID: r.ID, Prev: prev, Level: r.Level}
		}
		prev = r.Level
	}
	return nil
}

// RenderOutline renders a Left-ordered flat sequence as a nested outline.
// baseline is the level of the top-level items. Malformed sequences are
// rejected before anything is rendered; an empty sequence renders as "".
func RenderOutline(records []api.Record, baseline int, m Markup) (string, error) {
	if len(records) == 0 {
		return "", nil
	}
	if err := CheckSequence(records, baseline); err != nil {
		return "", err
	}

	var sb strings.Builder
	line := func(s string) {
		sb.WriteString(s)
		sb.WriteByte('\n')
	}

	line(m.OpenContainer())

	// prev counts open lists; levels are taken relative to baseline-1.
	prev := 0
	for i, r := range records {
		level := r.Level - baseline + 1
		switch {
		case level == prev:
			line(m.CloseItem())
		case level > prev:
			line(m.OpenList(r.Level - 1))
		default:
			line(m.CloseItem())
			for n := prev - level; n > 0; n-- {
				line(m.CloseList())
				line(m.CloseItem())
			}
		}
		line(m.OpenItem(r))
		sb.WriteString(m.Fragment(i, r))
		prev = level
	}

	for ; prev > 0; prev-- {
		line(m.CloseItem())
		line(m.CloseList())
	}
	sb.WriteString(m.CloseContainer())
	return sb.String(), nil
}

// Outline fetches every record except exclude in pre-order and renders it.
// Groups follow one another, so every group must reach down to baseline.
func (b *Builder) Outline(ctx context.Context, exclude api.ID, baseline int, m Markup) (string, error) {
	records, err := b.src.Flat(ctx, exclude)
	if err != nil {
		return "", fmt.Errorf("fetch flat sequence: %w", err)
	}
	return b.outline(ctx, records, baseline, m)
}

// GroupOutline renders the records of one group except exclude. A zero group
// outlines every group, like Outline.
func (b *Builder) GroupOutline(ctx context.Context, group, exclude api.ID, baseline int, m Markup) (string, error) {
	if group == 0 {
		return b.Outline(ctx, exclude, baseline, m)
	}
	scoped, err := b.src.Scoped(ctx, Scope{Self: group, Group: group})
	if err != nil {
		return "", fmt.Errorf("fetch group %d: %w", group, err)
	}
	records := scoped[:0]
	for _, r := range scoped {
		if r.ID != exclude {
			records = append(records, r)
		}
	}
	return b.outline(ctx, records, baseline, m)
}

func (b *Builder) outline(ctx context.Context, records []api.Record, baseline int, m Markup) (string, error) {
	if cm, ok := m.(CountingMarkup); ok && cm.CountsDescendants() {
		for i := range records {
			n, err := b.src.CountDescendants(ctx, records[i].ID)
			if err != nil {
				return "", fmt.Errorf("count descendants of %d: %w", records[i].ID, err)
			}
			records[i].ChildCount = n
		}
	}
	b.logger.Debug("render outline", "records", len(records), "baseline", baseline)
	return RenderOutline(records, baseline, m)
}
