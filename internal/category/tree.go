// Package category turns a flat list of named categories into a validated tree
// and applies structural edits to the flat list.
package category

import (
	"sort"

	"qatrack/internal/utils"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MaxDepth bounds every parent-chain walk so malformed input always terminates
const MaxDepth = 10

// DefaultLocale is used for ordering names when no locale is given
var DefaultLocale = language.German

// Record is a flat category as supplied by storage. Parent is empty for top-level categories.
type Record struct {
	Name   string `json:"name" yaml:"name"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Count  int    `json:"count" yaml:"count"`
}

// Node is a derived tree node. Path runs from the top-most ancestor to the node itself.
type Node struct {
	Name      string   `json:"name" yaml:"name"`
	Count     int      `json:"count" yaml:"count"`
	Depth     int      `json:"depth" yaml:"depth"`
	Path      []string `json:"path" yaml:"path"`
	Truncated bool     `json:"truncated,omitempty" yaml:"truncated,omitempty"` // depth walk hit a cycle or MaxDepth
	Children  []*Node  `json:"children,omitempty" yaml:"children,omitempty"`
}

// Tree is the result of Build. Nodes are kept in an arena indexed by position.
type Tree struct {
	Roots []*Node

	nodes  []*Node
	index  map[string]int
	parent []int // arena index of the parent, -1 for roots
}

// Option configures Build
type Option func(*buildOptions)

type buildOptions struct {
	locale language.Tag
}

// WithLocale sets the collation locale used to order siblings
func WithLocale(tag language.Tag) Option {
	return func(o *buildOptions) {
		o.locale = tag
	}
}

// Build converts records into a tree. Records whose parent is unknown become roots.
// Duplicate names keep the first record.
func Build(records []Record, opts ...Option) *Tree {
	options := buildOptions{locale: DefaultLocale}
	for _, opt := range opts {
		opt(&options)
	}

	t := &Tree{
		nodes:  make([]*Node, 0, len(records)),
		index:  make(map[string]int, len(records)),
		parent: make([]int, 0, len(records)),
	}

	// Pass 1: name -> index
	var kept []Record
	for _, r := range records {
		if _, dup := t.index[r.Name]; dup {
			utils.Debugf("category: ignoring duplicate record %q", r.Name)
			continue
		}
		t.index[r.Name] = len(t.nodes)
		t.nodes = append(t.nodes, &Node{Name: r.Name, Count: r.Count})
		kept = append(kept, r)
	}

	// Pass 2: link parents by index
	for _, r := range kept {
		p := -1
		if r.Parent != "" {
			if idx, ok := t.index[r.Parent]; ok {
				p = idx
			} else {
				utils.Debugf("category: parent %q of %q not found, treating as root", r.Parent, r.Name)
			}
		}
		t.parent = append(t.parent, p)
	}

	coll := collate.New(options.locale)
	less := func(a, b *Node) bool {
		if c := coll.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.Name < b.Name
	}

	t.breakCycles(less)

	for i, node := range t.nodes {
		node.Path, node.Truncated = t.walkPath(i)
		node.Depth = len(node.Path)
		if node.Truncated {
			node.Depth = MaxDepth
		}
	}

	for i, node := range t.nodes {
		if p := t.parent[i]; p >= 0 {
			t.nodes[p].Children = append(t.nodes[p].Children, node)
		} else {
			t.Roots = append(t.Roots, node)
		}
	}

	sortNodes(t.Roots, less)
	return t
}

// breakCycles promotes one member of every parent cycle to a root so that
// cycle members stay reachable. The promoted member is the first in collation order.
// Cycle members are flagged Truncated so their depth is reported capped.
func (t *Tree) breakCycles(less func(a, b *Node) bool) {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make([]int, len(t.nodes))
	cyclic := make([]bool, len(t.nodes))

	for start := range t.nodes {
		if state[start] != unvisited {
			continue
		}

		var chain []int
		cur := start
		for cur >= 0 && state[cur] == unvisited {
			state[cur] = inProgress
			chain = append(chain, cur)
			cur = t.parent[cur]
		}

		if cur >= 0 && state[cur] == inProgress {
			// cur is on the chain: everything from cur onwards is the cycle
			var members []int
			for i := len(chain) - 1; i >= 0; i-- {
				members = append(members, chain[i])
				if chain[i] == cur {
					break
				}
			}
			head := members[0]
			for _, m := range members[1:] {
				if less(t.nodes[m], t.nodes[head]) {
					head = m
				}
			}
			for _, m := range members {
				cyclic[m] = true
			}
			utils.Debugf("category: parent cycle through %q, promoting it to root", t.nodes[head].Name)
			t.parent[head] = -1
		}

		for _, idx := range chain {
			state[idx] = done
		}
	}

	for i, c := range cyclic {
		if c {
			t.nodes[i].Truncated = true
		}
	}
}

// walkPath walks at most MaxDepth parent links from i. The bool reports whether
// the walk was cut short or the node sat on a cycle.
func (t *Tree) walkPath(i int) ([]string, bool) {
	visited := make([]bool, len(t.nodes))
	truncated := t.nodes[i].Truncated

	var reversed []string
	cur := i
	for cur >= 0 {
		if visited[cur] || len(reversed) == MaxDepth {
			truncated = true
			break
		}
		visited[cur] = true
		reversed = append(reversed, t.nodes[cur].Name)
		cur = t.parent[cur]
	}

	path := make([]string, len(reversed))
	for j, name := range reversed {
		path[len(reversed)-1-j] = name
	}
	return path, truncated
}

func sortNodes(nodes []*Node, less func(a, b *Node) bool) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return less(nodes[i], nodes[j])
	})
	for _, n := range nodes {
		sortNodes(n.Children, less)
	}
}

// Find returns the node with the given name
func (t *Tree) Find(name string) (*Node, bool) {
	idx, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.nodes[idx], true
}

// Len returns the number of nodes in the tree
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Walk visits every node in pre-order, roots and children in sorted order.
// Returning false from fn skips the node's children.
func (t *Tree) Walk(fn func(n *Node) bool) {
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			if fn(n) {
				visit(n.Children)
			}
		}
	}
	visit(t.Roots)
}

// Subtree returns the names of node name and all of its descendants in the derived tree
func (t *Tree) Subtree(name string) map[string]bool {
	result := make(map[string]bool)
	root, ok := t.Find(name)
	if !ok {
		return result
	}

	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if result[n.Name] {
			continue
		}
		result[n.Name] = true
		stack = append(stack, n.Children...)
	}
	return result
}
