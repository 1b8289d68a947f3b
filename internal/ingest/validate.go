package ingest

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/agentic-research/nestree/api"
)

// Issue is one violation of the nested-set encoding.
type Issue struct {
	ID      api.ID
	Root    api.ID
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("group %d, record %d: %s", i.Root, i.ID, i.Message)
}

// ValidationError lists every issue found by Validate.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "invalid nested set: " + e.Issues[0].String()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid nested set: %d issues", len(e.Issues))
	for _, i := range e.Issues {
		sb.WriteString("\n  ")
		sb.WriteString(i.String())
	}
	return sb.String()
}

// Validate checks the encoding group by group: IDs are unique, every group
// opens with a root at Left 1, Left strictly increases, levels never rise by
// more than one between neighbours, and Right (when present) exceeds Left.
// It returns a *ValidationError or nil.
func Validate(records []api.Record) error {
	var issues []Issue

	seen := make(map[api.ID]bool, len(records))
	for _, r := range records {
		if seen[r.ID] {
			issues = append(issues, Issue{ID: r.ID, Root: r.Root, Message: "duplicate id"})
		}
		seen[r.ID] = true
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b api.Record) int {
		if c := cmp.Compare(a.Root, b.Root); c != 0 {
			return c
		}
		return cmp.Compare(a.Left, b.Left)
	})

	rootLevel := 0
	for i, r := range sorted {
		if r.Right != 0 && r.Right <= r.Left {
			issues = append(issues, Issue{ID: r.ID, Root: r.Root,
				Message: fmt.Sprintf("right %d not greater than left %d", r.Right, r.Left)})
		}
		if r.Level < 0 {
			issues = append(issues, Issue{ID: r.ID, Root: r.Root, Message: fmt.Sprintf("negative level %d", r.Level)})
		}

		if i == 0 || sorted[i-1].Root != r.Root {
			rootLevel = r.Level
			if !r.IsRoot() {
				issues = append(issues, Issue{ID: r.ID, Root: r.Root,
					Message: fmt.Sprintf("group starts at left %d, want 1", r.Left)})
			}
			continue
		}

		prev := sorted[i-1]
		if r.Left == prev.Left {
			issues = append(issues, Issue{ID: r.ID, Root: r.Root,
				Message: fmt.Sprintf("left %d shared with record %d", r.Left, prev.ID)})
		}
		if r.Level > prev.Level+1 {
			issues = append(issues, Issue{ID: r.ID, Root: r.Root,
				Message: fmt.Sprintf("level jumps from %d to %d", prev.Level, r.Level)})
		}
		if r.Level <= rootLevel {
			issues = append(issues, Issue{ID: r.ID, Root: r.Root,
				Message: fmt.Sprintf("level %d not below the group root", r.Level)})
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
