// Package graph builds the node/edge description of an entity-relationship diagram.
package graph

import (
	"github.com/dbsmedya/sql2erd/internal/schema"
)

// Node represents a table in the diagram.
type Node struct {
	Name    string          // Table name
	Schema  string          // Schema the table belongs to
	Columns []schema.Column // Columns listed in the record label
	Label   string          // Record-style label: {Name|col: type\l...}
}

// Edge represents a foreign key relationship between tables.
type Edge struct {
	From      string // Owning table (holds the FK column)
	To        string // Referenced table
	Label     string // FK column name
	RefColumn string // Referenced column
}

// Graph holds nodes and edges in the order they were added.
type Graph struct {
	Nodes    map[string]*Node    // table name -> node
	Children map[string][]string // table name -> referenced table names (outgoing edges)
	Parents  map[string][]string // table name -> referencing table names (incoming edges)
	order    []string
	edges    []Edge
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:    make(map[string]*Node),
		Children: make(map[string][]string),
		Parents:  make(map[string][]string),
	}
}

// AddNode adds a table node to the graph.
// Adding a name twice replaces the node but keeps its original position.
func (g *Graph) AddNode(node *Node) {
	if _, exists := g.Nodes[node.Name]; !exists {
		g.order = append(g.order, node.Name)
	}
	g.Nodes[node.Name] = node
}

// AddEdge adds a directed edge and maintains the reverse mapping.
// The target does not have to be a node of the graph.
func (g *Graph) AddEdge(e Edge) {
	g.edges = append(g.edges, e)
	g.Children[e.From] = append(g.Children[e.From], e.To)
	g.Parents[e.To] = append(g.Parents[e.To], e.From)
}

// GetChildren returns the tables referenced by a table.
func (g *Graph) GetChildren(name string) []string {
	return g.Children[name]
}

// GetParents returns the tables referencing a table.
func (g *Graph) GetParents(name string) []string {
	return g.Parents[name]
}

// GetNode returns the node for a given table name, or nil if not found.
func (g *Graph) GetNode(name string) *Node {
	return g.Nodes[name]
}

// HasNode returns true if the graph contains a node with the given name.
func (g *Graph) HasNode(name string) bool {
	_, exists := g.Nodes[name]
	return exists
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// AllNodes returns table names in insertion order.
func (g *Graph) AllNodes() []string {
	nodes := make([]string, len(g.order))
	copy(nodes, g.order)
	return nodes
}

// AllEdges returns edges in insertion order.
func (g *Graph) AllEdges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// DanglingEdges returns edges whose target is not a node of the graph.
func (g *Graph) DanglingEdges() []Edge {
	var dangling []Edge
	for _, e := range g.edges {
		if !g.HasNode(e.To) {
			dangling = append(dangling, e)
		}
	}
	return dangling
}

// InDegree returns the number of incoming edges for a table.
func (g *Graph) InDegree(name string) int {
	return len(g.Parents[name])
}

// OutDegree returns the number of outgoing edges for a table.
func (g *Graph) OutDegree(name string) int {
	return len(g.Children[name])
}
