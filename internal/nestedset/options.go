package nestedset

import (
	"context"

	"github.com/agentic-research/nestree/api"
)

// Options builds an indented option list starting at spec, descending at most
// depth levels. Unresolvable IDs contribute nothing.
func (b *Builder) Options(ctx context.Context, spec RootSpec, depth Depth) (OptionMap, error) {
	out := NewOrderedMap[api.ID, string]()
	starts, budget, err := b.starts(ctx, spec, depth)
	if err != nil {
		return nil, err
	}
	for _, r := range starts {
		sub, err := b.optionsFrom(ctx, r, budget)
		if err != nil {
			return nil, err
		}
		out.Merge(sub)
	}
	return out, nil
}

func (b *Builder) optionsFrom(ctx context.Context, r api.Record, depth Depth) (OptionMap, error) {
	out := NewOrderedMap[api.ID, string]()
	out.Add(r.ID, b.glyphs.OptionLabel(r))
	if !depth.Allows() {
		return out, nil
	}
	children, err := b.loc.Children(ctx, r)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		sub, err := b.optionsFrom(ctx, c, depth.Next())
		if err != nil {
			return nil, err
		}
		out.Merge(sub)
	}
	return out, nil
}

// Entries lists m as ordered Options.
func Entries(m OptionMap) []api.Option {
	out := make([]api.Option, 0, m.Len())
	for id, label := range m.All() {
		out = append(out, api.Option{ID: id, Label: label})
	}
	return out
}
