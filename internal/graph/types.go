// Package graph provides the table relation graph of a dataset and the
// parent-first ordering used when merging tables.
package graph

import "github.com/elliotchance/orderedmap/v2"

// Node represents a table in the relation graph.
type Node struct {
	Name string
}

// Edge represents a parent -> child relationship between tables.
type Edge struct {
	From string // Parent table name
	To   string // Child table name
}

// EdgeMeta describes one relation behind an edge. Several relations may
// connect the same pair of tables.
type EdgeMeta struct {
	Relation      string
	ParentColumns []string
	ChildColumns  []string
}

// Graph is a directed graph of tables. Nodes keep insertion order so every
// traversal is deterministic.
type Graph struct {
	nodes    *orderedmap.OrderedMap[string, *Node]
	children map[string][]string
	parents  map[string][]string
	edgeMeta map[Edge][]EdgeMeta
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    orderedmap.NewOrderedMap[string, *Node](),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
		edgeMeta: make(map[Edge][]EdgeMeta),
	}
}

// AddNode adds a table node. Adding an existing table is a no-op.
func (g *Graph) AddNode(name string) {
	if _, exists := g.nodes.Get(name); exists {
		return
	}
	g.nodes.Set(name, &Node{Name: name})
}

// AddEdge adds a parent -> child edge, creating missing nodes. A repeated
// pair only appends metadata. Self references are recorded as metadata but
// never become edges, since a table cannot be ordered before itself.
func (g *Graph) AddEdge(parent, child string, meta EdgeMeta) {
	g.AddNode(parent)
	g.AddNode(child)

	edge := Edge{From: parent, To: child}
	metas, known := g.edgeMeta[edge]
	if !hasRelation(metas, meta.Relation) {
		g.edgeMeta[edge] = append(metas, meta)
	}
	if known || parent == child {
		return
	}
	g.children[parent] = append(g.children[parent], child)
	g.parents[child] = append(g.parents[child], parent)
}

// GetChildren returns all direct children of a table.
func (g *Graph) GetChildren(parent string) []string {
	return g.children[parent]
}

// GetParents returns all direct parents of a table.
func (g *Graph) GetParents(child string) []string {
	return g.parents[child]
}

// GetEdgeMeta returns the relations behind an edge.
func (g *Graph) GetEdgeMeta(parent, child string) []EdgeMeta {
	return g.edgeMeta[Edge{From: parent, To: child}]
}

// HasNode returns true if the graph contains a node with the given name.
func (g *Graph) HasNode(name string) bool {
	_, exists := g.nodes.Get(name)
	return exists
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return g.nodes.Len()
}

// EdgeCount returns the number of ordering edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.children {
		count += len(children)
	}
	return count
}

// AllNodes returns table names in insertion order.
func (g *Graph) AllNodes() []string {
	return g.nodes.Keys()
}

// AllEdges returns the ordering edges, grouped by parent in node order.
func (g *Graph) AllEdges() []Edge {
	var edges []Edge
	for _, parent := range g.AllNodes() {
		for _, child := range g.children[parent] {
			edges = append(edges, Edge{From: parent, To: child})
		}
	}
	return edges
}

// RootNodes returns tables without parents, in node order.
func (g *Graph) RootNodes() []string {
	var roots []string
	for _, name := range g.AllNodes() {
		if len(g.parents[name]) == 0 {
			roots = append(roots, name)
		}
	}
	return roots
}

// LeafNodes returns tables without children, in node order.
func (g *Graph) LeafNodes() []string {
	var leaves []string
	for _, name := range g.AllNodes() {
		if len(g.children[name]) == 0 {
			leaves = append(leaves, name)
		}
	}
	return leaves
}

// InDegree returns the number of incoming edges (parents) for a node.
func (g *Graph) InDegree(name string) int {
	return len(g.parents[name])
}

// OutDegree returns the number of outgoing edges (children) for a node.
func (g *Graph) OutDegree(name string) int {
	return len(g.children[name])
}

func hasRelation(metas []EdgeMeta, name string) bool {
	if name == "" {
		return false
	}
	for _, m := range metas {
		if m.Relation == name {
			return true
		}
	}
	return false
}
