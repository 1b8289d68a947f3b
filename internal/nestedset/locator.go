package nestedset

import (
	"context"
	"errors"

	"github.com/agentic-research/nestree/api"
)

// Locator resolves root specifiers and children against a Source.
type Locator struct {
	src Source
}

// NewLocator wraps src.
func NewLocator(src Source) *Locator {
	return &Locator{src: src}
}

// Roots returns every root, grouped and ordered by Left.
func (l *Locator) Roots(ctx context.Context) ([]api.Record, error) {
	return l.src.Roots(ctx)
}

// Children returns the direct children of r in Left order.
func (l *Locator) Children(ctx context.Context, r api.Record) ([]api.Record, error) {
	return l.src.Children(ctx, r)
}

// ByID resolves id. A missing record is reported as ok == false, not an error.
func (l *Locator) ByID(ctx context.Context, id api.ID) (api.Record, bool, error) {
	r, err := l.src.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return api.Record{}, false, nil
	}
	if err != nil {
		return api.Record{}, false, err
	}
	return r, true, nil
}
