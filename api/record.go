package api

// ID identifies a tree record. IDs are minted by the persistence layer;
// nothing in nestree creates them.
type ID int64

// Record is one node of a nested-set encoded tree.
// Forests are partitioned by Root: boundary comparisons are only meaningful
// between records that share the same Root.
type Record struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
	// Left is the nested-set left boundary (pre-order position). Roots have Left == 1.
	Left int `json:"lft"`
	// Right is the nested-set right boundary, or 0 when the source does not carry it.
	Right int `json:"rgt,omitempty"`
	// Level is the depth from the root of the record's tree.
	Level int `json:"level"`
	// Root identifies the tree (group) the boundaries are scoped to.
	Root   ID   `json:"root"`
	Active bool `json:"active"`
	// ChildCount is the number of descendants, or -1 when not computed.
	ChildCount int `json:"child_count,omitempty"`
}

// IsRoot reports whether the record opens its group.
func (r Record) IsRoot() bool {
	return r.Left == 1
}

// Descendants returns the descendant count implied by the boundaries.
// The second return is false when Right is unknown.
func (r Record) Descendants() (int, bool) {
	if r.Right <= r.Left {
		return 0, false
	}
	return (r.Right - r.Left - 1) / 2, true
}

// TreeNode is the key/children structure consumed by tree widgets.
type TreeNode struct {
	Key  ID     `json:"key"`
	Name string `json:"name"`
	// Folder is set when at least one child contributed to Children.
	Folder   bool       `json:"folder,omitempty"`
	Children []TreeNode `json:"children,omitempty"`
}

// Option is one entry of an option list, as serialized for clients that do
// not preserve object key order.
type Option struct {
	ID    ID     `json:"id"`
	Label string `json:"label"`
}
