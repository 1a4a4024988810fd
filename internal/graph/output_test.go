package graph

import (
	"strings"
	"testing"

	"github.com/dbsmedya/sql2erd/internal/schema"
)

func TestDOT_TwoTables(t *testing.T) {
	g, err := BuildFromSchema(twoTableSchema(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	want := "digraph G {\n" +
		"\tnode [shape=record]\n" +
		"\t\"A\" [label=\"{A|id: int(4)\\l}\"]\n" +
		"\t\"B\" [label=\"{B|id: int(4)\\la_id: int(4)\\l}\"]\n" +
		"\t\"B\" -> \"A\" [label=\"a_id\"]\n" +
		"}\n"

	if got := g.DOT(); got != want {
		t.Errorf("DOT() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDOT_DanglingEdgeIsEmitted(t *testing.T) {
	sg := schema.NewSchemaGraph()
	sg.Add(&schema.Table{
		Name:        "Orders",
		ForeignKeys: []schema.ForeignKey{{Column: "CustomerId", RefTable: "Customers", RefColumn: "Id"}},
	})

	g, err := BuildFromSchema(sg, BuildOptions{})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	dot := g.DOT()
	if !strings.Contains(dot, `"Orders" -> "Customers" [label="CustomerId"]`) {
		t.Errorf("DOT output missing dangling edge:\n%s", dot)
	}
	for _, line := range strings.Split(dot, "\n") {
		if strings.HasPrefix(line, "\t\"Customers\" [") {
			t.Errorf("DOT output should not declare the dangling target: %q", line)
		}
	}
	if strings.Count(dot, `"Customers"`) != 1 {
		t.Errorf("DOT output should not declare the dangling target:\n%s", dot)
	}
}

func TestQuoteID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Orders", `"Orders"`},
		{`say "hi"`, `"say \"hi\""`},
		{`{A|x\l}`, `"{A|x\l}"`},
	}

	for _, tt := range tests {
		if got := quoteID(tt.input); got != tt.want {
			t.Errorf("quoteID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMermaid_TwoTables(t *testing.T) {
	g, err := BuildFromSchema(twoTableSchema(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	want := "erDiagram\n" +
		"    A {\n" +
		"        int id \"int(4)\"\n" +
		"    }\n" +
		"    B {\n" +
		"        int id \"int(4)\"\n" +
		"        int a_id \"int(4)\"\n" +
		"    }\n" +
		"    B }o--|| A : \"a_id\"\n"

	if got := g.Mermaid(); got != want {
		t.Errorf("Mermaid() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestMermaid_TableWithoutColumns(t *testing.T) {
	g := NewGraph()
	g.AddNode(&Node{Name: "audit-log"})

	got := g.Mermaid()
	if !strings.Contains(got, "    audit_log\n") {
		t.Errorf("Expected bare sanitized entity, got:\n%s", got)
	}
}

func TestBaseType(t *testing.T) {
	tests := map[string]string{
		"int(4)":        "int",
		"decimal(10,2)": "decimal",
		"varchar(50)":   "varchar",
		"(weird)":       "unknown",
	}
	for input, want := range tests {
		if got := baseType(input); got != want {
			t.Errorf("baseType(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSanitizeNodeID(t *testing.T) {
	tests := map[string]string{
		"orders":      "orders",
		"dbo.orders":  "dbo_orders",
		"order-items": "order_items",
		"my table":    "my_table",
	}
	for input, want := range tests {
		if got := sanitizeNodeID(input); got != want {
			t.Errorf("sanitizeNodeID(%q) = %q, want %q", input, got, want)
		}
	}
}
