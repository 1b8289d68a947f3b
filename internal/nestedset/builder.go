package nestedset

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/agentic-research/nestree/api"
)

// OptionMap maps record IDs to display labels in traversal order.
type OptionMap = *OrderedMap[api.ID, string]

// Glyphs are the indentation markers used in labels.
type Glyphs struct {
	Indent      string // repeated once per level
	Arrow       string // appended after the indent of nested option labels
	ScopedArrow string // appended after the indent of scoped list labels
}

// DefaultGlyphs returns the em-dash indentation used by the select widgets.
func DefaultGlyphs() Glyphs {
	return Glyphs{Indent: "—", Arrow: "›", ScopedArrow: "> "}
}

// OptionLabel renders r for an option list: one indent per level below the
// first, an arrow for nested records, then the title.
func (g Glyphs) OptionLabel(r api.Record) string {
	if r.Level <= 1 {
		return r.Title
	}
	return strings.Repeat(g.Indent, r.Level-1) + g.Arrow + r.Title
}

// ScopedLabel renders r for a scoped list: one indent per level, then the arrow.
// Level 0 records get no prefix.
func (g Glyphs) ScopedLabel(r api.Record) string {
	if r.Level <= 0 {
		return r.Title
	}
	return strings.Repeat(g.Indent, r.Level) + g.ScopedArrow + r.Title
}

// Builder produces option maps, outlines, scoped lists and tree structures
// from a Source. A Builder holds no per-call state and is safe for concurrent use.
type Builder struct {
	src    Source
	loc    *Locator
	glyphs Glyphs
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithGlyphs overrides the label glyphs.
func WithGlyphs(g Glyphs) Option {
	return func(b *Builder) { b.glyphs = g }
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder returns a Builder reading from src.
func NewBuilder(src Source, opts ...Option) *Builder {
	b := &Builder{
		src:    src,
		loc:    NewLocator(src),
		glyphs: DefaultGlyphs(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Locator returns the locator bound to the builder's source.
func (b *Builder) Locator() *Locator { return b.loc }

// starts expands spec into the records a traversal begins at, together with
// the depth budget left for each of them.
func (b *Builder) starts(ctx context.Context, spec RootSpec, depth Depth) ([]api.Record, Depth, error) {
	switch spec.kind {
	case kindResolved:
		return []api.Record{spec.record}, depth, nil
	case kindByID:
		r, ok, err := b.loc.ByID(ctx, spec.id)
		if err != nil {
			return nil, depth, err
		}
		if !ok {
			b.logger.Debug("skip unresolved root", "id", spec.id)
			return nil, depth, nil
		}
		return []api.Record{r}, depth, nil
	default:
		// Roots sit one level below the virtual super-root.
		if !depth.Allows() {
			return nil, depth, nil
		}
		roots, err := b.loc.Roots(ctx)
		if err != nil {
			return nil, depth, err
		}
		return roots, depth.Next(), nil
	}
}
