package source

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/nestree/api"
	"github.com/agentic-research/nestree/internal/nestedset"
)

// MemoryStore is an in-memory tree data source.
//
// Records are kept sorted by (Root, Left). Each group owns a roaring bitmap of
// record positions, so group scans and scoped unions never touch records of
// other groups. Positions are rebuilt on every Add; the store is meant to be
// loaded once and read many times.
type MemoryStore struct {
	mu      sync.RWMutex
	records []api.Record
	index   map[api.ID]uint32          // record ID -> position
	groups  map[api.ID]*roaring.Bitmap // group -> positions
}

// NewMemoryStore returns a store holding records.
func NewMemoryStore(records ...api.Record) *MemoryStore {
	s := &MemoryStore{}
	s.Add(records...)
	return s
}

// Add inserts records. A record whose ID is already present replaces the old one.
func (s *MemoryStore) Add(records ...api.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[api.ID]api.Record, len(s.records)+len(records))
	for _, r := range s.records {
		byID[r.ID] = r
	}
	for _, r := range records {
		byID[r.ID] = r
	}

	all := make([]api.Record, 0, len(byID))
	for _, r := range byID {
		all = append(all, r)
	}
	slices.SortFunc(all, func(a, b api.Record) int {
		if c := cmp.Compare(a.Root, b.Root); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Left, b.Left); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	s.records = all
	s.index = make(map[api.ID]uint32, len(all))
	s.groups = make(map[api.ID]*roaring.Bitmap)
	for i, r := range all {
		pos := uint32(i)
		s.index[r.ID] = pos
		bm, ok := s.groups[r.Root]
		if !ok {
			bm = roaring.New()
			s.groups[r.Root] = bm
		}
		bm.Add(pos)
	}
}

// Len returns the number of records held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Roots implements nestedset.Source.
func (s *MemoryStore) Roots(ctx context.Context) ([]api.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []api.Record
	for _, r := range s.records {
		if r.IsRoot() {
			out = append(out, r)
		}
	}
	return out, nil
}

// Children implements nestedset.Source. It scans the parent's group in Left
// order and stops at the first record that leaves the parent's subtree.
func (s *MemoryStore) Children(ctx context.Context, parent api.Record) ([]api.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bm, ok := s.groups[parent.Root]
	if !ok {
		return nil, nil
	}
	var out []api.Record
	s.walkSubtree(bm, parent, func(r api.Record) {
		if r.Level == parent.Level+1 {
			out = append(out, r)
		}
	})
	return out, nil
}

// walkSubtree calls fn for every descendant of parent, in Left order.
// Must be called with s.mu held.
func (s *MemoryStore) walkSubtree(group *roaring.Bitmap, parent api.Record, fn func(api.Record)) {
	it := group.Iterator()
	for it.HasNext() {
		r := s.records[it.Next()]
		if r.Left <= parent.Left {
			continue
		}
		if parent.Right > 0 && r.Left >= parent.Right {
			return
		}
		if r.Level <= parent.Level {
			return
		}
		fn(r)
	}
}

// Get implements nestedset.Source.
func (s *MemoryStore) Get(ctx context.Context, id api.ID) (api.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return api.Record{}, fmt.Errorf("record %d: %w", id, nestedset.ErrNotFound)
	}
	return s.records[pos], nil
}

// Flat implements nestedset.Source.
func (s *MemoryStore) Flat(ctx context.Context, exclude api.ID) ([]api.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// s.records is already in (Root, Left) order.
	out := make([]api.Record, 0, len(s.records))
	for _, r := range s.records {
		if r.ID != exclude {
			out = append(out, r)
		}
	}
	return out, nil
}

// Scoped implements nestedset.Source. Both scope predicates resolve to group
// bitmaps; their union holds every matching position exactly once.
func (s *MemoryStore) Scoped(ctx context.Context, scope nestedset.Scope) ([]api.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	union := roaring.New()
	if bm, ok := s.groups[scope.Self]; ok {
		union.Or(bm)
	}
	if bm, ok := s.groups[scope.Group]; ok {
		union.Or(bm)
	}

	out := make([]api.Record, 0, union.GetCardinality())
	it := union.Iterator()
	for it.HasNext() {
		out = append(out, s.records[it.Next()])
	}
	sortByLeft(out)
	return out, nil
}

// CountDescendants implements nestedset.Source.
func (s *MemoryStore) CountDescendants(ctx context.Context, id api.ID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return 0, fmt.Errorf("record %d: %w", id, nestedset.ErrNotFound)
	}
	r := s.records[pos]
	if n, ok := r.Descendants(); ok {
		return n, nil
	}
	n := 0
	s.walkSubtree(s.groups[r.Root], r, func(api.Record) { n++ })
	return n, nil
}

// sortByLeft orders records by Left, keeping group order for ties.
func sortByLeft(records []api.Record) {
	slices.SortStableFunc(records, func(a, b api.Record) int {
		return cmp.Compare(a.Left, b.Left)
	})
}

// Verify interface compliance at compile time.
var _ nestedset.Source = (*MemoryStore)(nil)
