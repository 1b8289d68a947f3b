package nestedset

import (
	"context"

	"github.com/agentic-research/nestree/api"
)

// Branch is the key-addressed intermediate form of a tree node.
type Branch struct {
	Key      api.ID
	Name     string
	Folder   bool
	Children *OrderedMap[api.ID, *Branch] // nil until a child contributes
}

// Prepare builds the key-addressed tree for spec, using the same traversal and
// merge rules as Options.
func (b *Builder) Prepare(ctx context.Context, spec RootSpec, depth Depth) (*OrderedMap[api.ID, *Branch], error) {
	out := NewOrderedMap[api.ID, *Branch]()
	starts, budget, err := b.starts(ctx, spec, depth)
	if err != nil {
		return nil, err
	}
	for _, r := range starts {
		sub, err := b.prepareFrom(ctx, r, budget)
		if err != nil {
			return nil, err
		}
		out.Merge(sub)
	}
	return out, nil
}

func (b *Builder) prepareFrom(ctx context.Context, r api.Record, depth Depth) (*OrderedMap[api.ID, *Branch], error) {
	node := &Branch{Key: r.ID, Name: r.Title}
	out := NewOrderedMap[api.ID, *Branch]()
	out.Add(r.ID, node)
	if !depth.Allows() {
		return out, nil
	}

	children, err := b.loc.Children(ctx, r)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		sub, err := b.prepareFrom(ctx, c, depth.Next())
		if err != nil {
			return nil, err
		}
		if sub.Len() == 0 {
			continue
		}
		node.Folder = true
		if node.Children == nil {
			node.Children = NewOrderedMap[api.ID, *Branch]()
		}
		node.Children.Merge(sub)
	}
	return out, nil
}

// Materialize turns the key-addressed form into ordered TreeNode slices.
// Children are materialized before their parent is appended.
func Materialize(prepared *OrderedMap[api.ID, *Branch]) []api.TreeNode {
	if prepared.Len() == 0 {
		return nil
	}
	out := make([]api.TreeNode, 0, prepared.Len())
	for _, br := range prepared.All() {
		var children []api.TreeNode
		if br.Children.Len() > 0 {
			children = Materialize(br.Children)
		}
		out = append(out, api.TreeNode{
			Key:      br.Key,
			Name:     br.Name,
			Folder:   br.Folder,
			Children: children,
		})
	}
	return out
}

// Tree is Prepare followed by Materialize.
func (b *Builder) Tree(ctx context.Context, spec RootSpec, depth Depth) ([]api.TreeNode, error) {
	prepared, err := b.Prepare(ctx, spec, depth)
	if err != nil {
		return nil, err
	}
	return Materialize(prepared), nil
}

// Flatten lists the keys of nodes in pre-order.
func Flatten(nodes []api.TreeNode) []api.ID {
	var out []api.ID
	var walk func([]api.TreeNode)
	walk = func(ns []api.TreeNode) {
		for _, n := range ns {
			out = append(out, n.Key)
			walk(n.Children)
		}
	}
	walk(nodes)
	return out
}
