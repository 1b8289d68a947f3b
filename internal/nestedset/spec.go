package nestedset

import (
	"fmt"

	"github.com/agentic-research/nestree/api"
)

type rootKind uint8

const (
	kindAllRoots rootKind = iota
	kindByID
	kindResolved
)

// RootSpec names where a traversal starts: every tree, one record by ID, or a
// record the caller already holds.
type RootSpec struct {
	kind   rootKind
	id     api.ID
	record api.Record
}

// AllRoots starts from every root of every group.
func AllRoots() RootSpec { return RootSpec{kind: kindAllRoots} }

// ByID starts from the record with the given ID. Unknown IDs contribute nothing.
// ID 0 is the all-roots sentinel.
func ByID(id api.ID) RootSpec {
	if id == 0 {
		return AllRoots()
	}
	return RootSpec{kind: kindByID, id: id}
}

// Resolved starts from a record that has already been fetched.
func Resolved(r api.Record) RootSpec { return RootSpec{kind: kindResolved, record: r} }

func (s RootSpec) String() string {
	switch s.kind {
	case kindByID:
		return fmt.Sprintf("id:%d", s.id)
	case kindResolved:
		return fmt.Sprintf("record:%d", s.record.ID)
	default:
		return "all"
	}
}

// Depth bounds how many levels below the start a traversal descends.
// The zero value is Limit(0).
type Depth struct {
	n         int
	unbounded bool
}

// Unbounded descends without limit.
func Unbounded() Depth { return Depth{unbounded: true} }

// Limit descends at most n levels. Negative n is treated as 0.
func Limit(n int) Depth {
	if n < 0 {
		n = 0
	}
	return Depth{n: n}
}

// DepthFromFlag maps a CLI-style value (negative means unbounded) to a Depth.
func DepthFromFlag(n int) Depth {
	if n < 0 {
		return Unbounded()
	}
	return Limit(n)
}

// Allows reports whether one more level may be visited.
func (d Depth) Allows() bool { return d.unbounded || d.n > 0 }

// Next returns the budget for the level below.
func (d Depth) Next() Depth {
	if d.unbounded {
		return d
	}
	return Limit(d.n - 1)
}

func (d Depth) String() string {
	if d.unbounded {
		return "unbounded"
	}
	return fmt.Sprintf("%d", d.n)
}
