package graph

import (
	"fmt"
	"regexp"
	"strings"
)

// Mermaid returns a Mermaid erDiagram describing the graph.
func (g *Graph) Mermaid() string {
	var sb strings.Builder

	sb.WriteString("erDiagram\n")

	for _, name := range g.order {
		node := g.Nodes[name]
		id := sanitizeNodeID(node.Name)
		if len(node.Columns) == 0 {
			sb.WriteString(fmt.Sprintf("    %s\n", id))
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s {\n", id))
		for _, c := range node.Columns {
			sb.WriteString(fmt.Sprintf("        %s %s %q\n", baseType(c.Type), sanitizeNodeID(c.Name), c.Type))
		}
		sb.WriteString("    }\n")
	}

	for _, e := range g.edges {
		// Many rows of the owning table point at exactly one referenced row.
		sb.WriteString(fmt.Sprintf("    %s }o--|| %s : %q\n", sanitizeNodeID(e.From), sanitizeNodeID(e.To), e.Label))
	}

	return sb.String()
}

// sanitizeNodeID ensures table names are valid mermaid identifiers.
func sanitizeNodeID(table string) string {
	return strings.NewReplacer(
		".", "_",
		"-", "_",
		" ", "_",
	).Replace(table)
}

var baseTypePattern = regexp.MustCompile(`^\w+`)

// baseType strips precision and scale: "decimal(10,2)" -> "decimal".
func baseType(t string) string {
	if base := baseTypePattern.FindString(t); base != "" {
		return base
	}
	return "unknown"
}
