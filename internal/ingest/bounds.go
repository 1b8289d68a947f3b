package ingest

import (
	"cmp"
	"slices"

	"github.com/agentic-research/nestree/api"
)

// FillRight derives missing Right boundaries from Left/Level order.
// Within a group a record's subtree ends just before the next record at the
// same or a shallower level; Right is then Left + 2*descendants + 1.
// Records that already carry a Right are left untouched. The input slice is
// not modified.
func FillRight(records []api.Record) []api.Record {
	out := slices.Clone(records)
	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if c := cmp.Compare(out[a].Root, out[b].Root); c != 0 {
			return c
		}
		return cmp.Compare(out[a].Left, out[b].Left)
	})

	for pos, i := range order {
		if out[i].Right != 0 {
			continue
		}
		descendants := 0
		for _, j := range order[pos+1:] {
			if out[j].Root != out[i].Root || out[j].Level <= out[i].Level {
				break
			}
			descendants++
		}
		out[i].Right = out[i].Left + 2*descendants + 1
	}
	return out
}
