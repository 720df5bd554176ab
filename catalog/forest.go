// Package catalog holds the pure catalog logic: the category forest and bundle pricing.
// Nothing in here talks to the database; services load rows and hand them over.
package catalog

import (
	"cmp"
	"errors"
	"slices"

	"github.com/google/uuid"
)

var ErrCycle = errors.New("category hierarchy contains a cycle")

// CategoryNode is the minimal shape the forest needs from a category row.
type CategoryNode struct {
	ID        uuid.UUID
	ParentID  *uuid.UUID
	Name      string
	SortOrder int
}

// FlatCategory is one entry of a flattened forest, ready for a select list.
type FlatCategory struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Depth int       `json:"depth"`
}

// TreeNode is the nested view of the forest used by JSON responses. HasChildren
// tells the admin list which categories can be deleted.
type TreeNode struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	SortOrder   int         `json:"sort_order"`
	Depth       int         `json:"depth"`
	HasChildren bool        `json:"has_children"`
	Children    []*TreeNode `json:"children"`
}

// Forest is an arena of categories keyed by id with explicit child index lists.
type Forest struct {
	nodes    []CategoryNode
	index    map[uuid.UUID]int
	children [][]int
	roots    []int
}

// BuildForest indexes the nodes once. Siblings are sorted by SortOrder, then
// Name. A node whose parent is unknown is treated as a root.
func BuildForest(nodes []CategoryNode) *Forest {
	f := &Forest{
		nodes:    make([]CategoryNode, len(nodes)),
		index:    make(map[uuid.UUID]int, len(nodes)),
		children: make([][]int, len(nodes)),
	}
	copy(f.nodes, nodes)

	for i, n := range f.nodes {
		f.index[n.ID] = i
	}

	for i, n := range f.nodes {
		if n.ParentID == nil {
			f.roots = append(f.roots, i)
			continue
		}
		parent, ok := f.index[*n.ParentID]
		if !ok {
			f.roots = append(f.roots, i)
			continue
		}
		f.children[parent] = append(f.children[parent], i)
	}

	f.sortSiblings(f.roots)
	for i := range f.children {
		f.sortSiblings(f.children[i])
	}

	return f
}

// sortSiblings orders by (SortOrder, Name). Full ties keep input order.
func (f *Forest) sortSiblings(idx []int) {
	slices.SortStableFunc(idx, func(a, b int) int {
		na, nb := f.nodes[a], f.nodes[b]
		return cmp.Or(cmp.Compare(na.SortOrder, nb.SortOrder), cmp.Compare(na.Name, nb.Name))
	})
}

func (f *Forest) Len() int {
	return len(f.nodes)
}

func (f *Forest) Has(id uuid.UUID) bool {
	_, ok := f.index[id]
	return ok
}

func (f *Forest) HasChildren(id uuid.UUID) bool {
	i, ok := f.index[id]
	return ok && len(f.children[i]) > 0
}

type frame struct {
	node  int
	depth int
	skip  bool
}

// Flatten walks the forest in pre-order and returns (id, name, depth) entries with
// parents before children. When exclude is set, that node and its subtree are left
// out. Nodes that cannot be reached from a root, or that are reached twice, mean
// the parent pointers form a cycle: the walk stops and returns ErrCycle together
// with the entries produced so far.
func (f *Forest) Flatten(exclude *uuid.UUID) ([]FlatCategory, error) {
	out := make([]FlatCategory, 0, len(f.nodes))
	visited := make([]bool, len(f.nodes))
	seen := 0

	excluded := -1
	if exclude != nil {
		if i, ok := f.index[*exclude]; ok {
			excluded = i
		}
	}

	stack := make([]frame, 0, len(f.roots))
	for i := len(f.roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: f.roots[i]})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[top.node] {
			return out, ErrCycle
		}
		visited[top.node] = true
		seen++

		skip := top.skip || top.node == excluded
		if !skip {
			n := f.nodes[top.node]
			out = append(out, FlatCategory{ID: n.ID, Name: n.Name, Depth: top.depth})
		}

		kids := f.children[top.node]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: kids[i], depth: top.depth + 1, skip: skip})
		}
	}

	if seen != len(f.nodes) {
		return out, ErrCycle
	}

	return out, nil
}

// Descendants returns every node below id, in breadth-first order.
func (f *Forest) Descendants(id uuid.UUID) []uuid.UUID {
	start, ok := f.index[id]
	if !ok {
		return nil
	}

	var out []uuid.UUID
	visited := map[int]bool{start: true}
	queue := append([]int(nil), f.children[start]...)

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if visited[i] {
			continue
		}
		visited[i] = true
		out = append(out, f.nodes[i].ID)
		queue = append(queue, f.children[i]...)
	}

	return out
}

// CanBeParent reports whether parentID may become the parent of id.
// A nil parent (making id a root) is always allowed.
func (f *Forest) CanBeParent(id uuid.UUID, parentID *uuid.UUID) bool {
	if parentID == nil {
		return true
	}
	if *parentID == id || !f.Has(*parentID) {
		return false
	}
	for _, d := range f.Descendants(id) {
		if d == *parentID {
			return false
		}
	}
	return true
}

// Tree returns the nested view reachable from the roots.
func (f *Forest) Tree() []*TreeNode {
	visited := make([]bool, len(f.nodes))

	var build func(i, depth int) *TreeNode
	build = func(i, depth int) *TreeNode {
		visited[i] = true
		n := f.nodes[i]
		node := &TreeNode{
			ID:          n.ID,
			Name:        n.Name,
			SortOrder:   n.SortOrder,
			Depth:       depth,
			HasChildren: len(f.children[i]) > 0,
			Children:    []*TreeNode{},
		}
		for _, c := range f.children[i] {
			if visited[c] {
				continue
			}
			node.Children = append(node.Children, build(c, depth+1))
		}
		return node
	}

	out := make([]*TreeNode, 0, len(f.roots))
	for _, r := range f.roots {
		if visited[r] {
			continue
		}
		out = append(out, build(r, 0))
	}
	return out
}
