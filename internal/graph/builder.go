package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dbsmedya/sql2erd/internal/schema"
)

// BuildOptions controls optional strictness of the builder.
type BuildOptions struct {
	// RejectDangling fails the build when a foreign key references a table
	// that is not part of the schema graph.
	RejectDangling bool
}

// ErrDanglingReference is matched by DanglingReferenceError.
var ErrDanglingReference = errors.New("foreign key references unknown table")

// DanglingReferenceError lists foreign keys pointing at unknown tables.
type DanglingReferenceError struct {
	Edges []Edge
}

func (e *DanglingReferenceError) Error() string {
	refs := make([]string, 0, len(e.Edges))
	for _, edge := range e.Edges {
		refs = append(refs, fmt.Sprintf("%s.%s -> %s.%s", edge.From, edge.Label, edge.To, edge.RefColumn))
	}
	return fmt.Sprintf("%d foreign key(s) reference unknown tables: %s", len(e.Edges), strings.Join(refs, ", "))
}

// Is allows errors.Is(err, ErrDanglingReference).
func (e *DanglingReferenceError) Is(target error) bool {
	return target == ErrDanglingReference
}

// Builder constructs a diagram graph from a schema graph.
type Builder struct {
	schema *schema.SchemaGraph
	opts   BuildOptions
}

// NewBuilder creates a new graph builder for the given schema graph.
func NewBuilder(sg *schema.SchemaGraph, opts BuildOptions) *Builder {
	return &Builder{schema: sg, opts: opts}
}

// Build creates one record node per table and one edge per foreign key.
func (b *Builder) Build() (*Graph, error) {
	if b.schema == nil {
		return nil, fmt.Errorf("schema graph is nil")
	}

	g := NewGraph()
	tables := b.schema.Tables()

	for _, t := range tables {
		g.AddNode(&Node{
			Name:    t.Name,
			Schema:  t.Schema,
			Columns: t.Columns,
			Label:   RecordLabel(t.Name, t.Columns),
		})
	}

	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			if fk.IsEmpty() {
				continue
			}
			g.AddEdge(Edge{
				From:      t.Name,
				To:        fk.RefTable,
				Label:     fk.Column,
				RefColumn: fk.RefColumn,
			})
		}
	}

	if b.opts.RejectDangling {
		if dangling := g.DanglingEdges(); len(dangling) > 0 {
			return nil, &DanglingReferenceError{Edges: dangling}
		}
	}

	return g, nil
}

// BuildFromSchema is a convenience function that builds a graph directly from a schema graph.
func BuildFromSchema(sg *schema.SchemaGraph, opts BuildOptions) (*Graph, error) {
	return NewBuilder(sg, opts).Build()
}

// RecordLabel renders a Graphviz record label with the table name as the
// header field and one left-justified line per column.
func RecordLabel(table string, columns []schema.Column) string {
	var sb strings.Builder
	sb.WriteString("{")
	sb.WriteString(escapeRecord(table))
	sb.WriteString("|")
	for _, c := range columns {
		sb.WriteString(escapeRecord(c.Name))
		sb.WriteString(": ")
		sb.WriteString(escapeRecord(c.Type))
		sb.WriteString(`\l`)
	}
	sb.WriteString("}")
	return sb.String()
}

// recordEscaper escapes characters that carry meaning inside record labels.
var recordEscaper = strings.NewReplacer(
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

func escapeRecord(s string) string {
	return recordEscaper.Replace(s)
}
