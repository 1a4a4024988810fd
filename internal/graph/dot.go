package graph

import (
	"fmt"
	"strings"
)

// DOT returns the Graphviz source describing the graph.
// Edges to tables that are not nodes are emitted as-is; Graphviz creates
// an empty node for them.
func (g *Graph) DOT() string {
	var sb strings.Builder

	sb.WriteString("digraph G {\n")
	sb.WriteString("\tnode [shape=record]\n")

	for _, name := range g.order {
		node := g.Nodes[name]
		sb.WriteString(fmt.Sprintf("\t%s [label=%s]\n", quoteID(node.Name), quoteID(node.Label)))
	}

	for _, e := range g.edges {
		sb.WriteString(fmt.Sprintf("\t%s -> %s [label=%s]\n", quoteID(e.From), quoteID(e.To), quoteID(e.Label)))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// quoteID wraps s in double quotes. Backslashes are kept so that record
// escapes and \l line breaks survive.
func quoteID(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
