package nestedset

import (
	"context"

	"github.com/agentic-research/nestree/api"
)

// Scope selects the records of a scoped list. A record is in scope when its
// Root equals Self or equals Group; both predicates are kept because groups
// are keyed inconsistently upstream (a tree root carries its own ID as Root
// in some schemas and a parent group in others).
type Scope struct {
	Self  api.ID
	Group api.ID
}

// Matches reports whether r falls inside the scope.
func (s Scope) Matches(r api.Record) bool {
	return r.Root == s.Self || r.Root == s.Group
}

// Source is the tree data source every builder reads from.
// Left values are only comparable within a group. Returned slices belong to
// the caller.
type Source interface {
	// Roots returns every record with Left == 1.
	Roots(ctx context.Context) ([]api.Record, error)
	// Children returns the direct children of parent.
	Children(ctx context.Context, parent api.Record) ([]api.Record, error)
	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id api.ID) (api.Record, error)
	// Flat returns every record except exclude in pre-order: grouped by Root,
	// then by Left within each group.
	Flat(ctx context.Context, exclude api.ID) ([]api.Record, error)
	// Scoped returns the records matching scope, sorted by Left.
	Scoped(ctx context.Context, scope Scope) ([]api.Record, error)
	// CountDescendants returns the number of descendants of id.
	CountDescendants(ctx context.Context, id api.ID) (int, error)
}
