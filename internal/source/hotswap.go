package source

import (
	"context"
	"sync"

	"github.com/agentic-research/nestree/api"
	"github.com/agentic-research/nestree/internal/nestedset"
)

// HotSwap is a thread-safe Source wrapper whose underlying source can be
// replaced while readers are running. A single Builder call may observe the
// swap between two source calls; each individual call sees one source.
type HotSwap struct {
	mu      sync.RWMutex
	current *generation
}

// generation counts the calls running on one installed source.
type generation struct {
	src      nestedset.Source
	inflight sync.WaitGroup
}

// NewHotSwap wraps initial.
func NewHotSwap(initial nestedset.Source) *HotSwap {
	return &HotSwap{current: &generation{src: initial}}
}

// Swap installs next and returns the previous source. wait blocks until every
// call that started on the previous source has returned; close it only after.
func (h *HotSwap) Swap(next nestedset.Source) (prev nestedset.Source, wait func()) {
	h.mu.Lock()
	old := h.current
	h.current = &generation{src: next}
	h.mu.Unlock()
	return old.src, old.inflight.Wait
}

// acquire pins the current generation. Swap takes the write lock, so no call
// can join a generation once it has been replaced.
func (h *HotSwap) acquire() *generation {
	h.mu.RLock()
	defer h.mu.RUnlock()
	g := h.current
	g.inflight.Add(1)
	return g
}

// Roots delegates to the current source.
func (h *HotSwap) Roots(ctx context.Context) ([]api.Record, error) {
	g := h.acquire()
	defer g.inflight.Done()
	return g.src.Roots(ctx)
}

// Children delegates to the current source.
func (h *HotSwap) Children(ctx context.Context, parent api.Record) ([]api.Record, error) {
	g := h.acquire()
	defer g.inflight.Done()
	return g.src.Children(ctx, parent)
}

// Get delegates to the current source.
func (h *HotSwap) Get(ctx context.Context, id api.ID) (api.Record, error) {
	g := h.acquire()
	defer g.inflight.Done()
	return g.src.Get(ctx, id)
}

// Flat delegates to the current source.
func (h *HotSwap) Flat(ctx context.Context, exclude api.ID) ([]api.Record, error) {
	g := h.acquire()
	defer g.inflight.Done()
	return g.src.Flat(ctx, exclude)
}

// Scoped delegates to the current source.
func (h *HotSwap) Scoped(ctx context.Context, scope nestedset.Scope) ([]api.Record, error) {
	g := h.acquire()
	defer g.inflight.Done()
	return g.src.Scoped(ctx, scope)
}

// CountDescendants delegates to the current source.
func (h *HotSwap) CountDescendants(ctx context.Context, id api.ID) (int, error) {
	g := h.acquire()
	defer g.inflight.Done()
	return g.src.CountDescendants(ctx, id)
}

var _ nestedset.Source = (*HotSwap)(nil)
