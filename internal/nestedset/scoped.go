package nestedset

import (
	"context"
	"fmt"

	"github.com/agentic-research/nestree/api"
)

// ScopedList lists every record sharing the anchor's group, in Left order,
// with level-based indentation. An unknown anchor is ErrNotFound.
func (b *Builder) ScopedList(ctx context.Context, anchor api.ID) (OptionMap, error) {
	r, ok, err := b.loc.ByID(ctx, anchor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("scoped list anchor %d: %w", anchor, ErrNotFound)
	}

	records, err := b.src.Scoped(ctx, Scope{Self: r.ID, Group: r.Root})
	if err != nil {
		return nil, fmt.Errorf("scoped list anchor %d: %w", anchor, err)
	}

	out := NewOrderedMap[api.ID, string]()
	for _, rec := range records {
		out.Add(rec.ID, b.glyphs.ScopedLabel(rec))
	}
	return out, nil
}
