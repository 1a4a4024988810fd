// Package schema holds the table model extracted from CREATE TABLE scripts.
package schema

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Column is a single column declaration.
type Column struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"` // e.g. "varchar(50)", "decimal(10,2)"
}

// ForeignKey is an outgoing reference from a column of the owning table.
type ForeignKey struct {
	Column    string `json:"column" yaml:"column"`         // FK column in the owning table
	RefSchema string `json:"ref_schema" yaml:"ref_schema"` // Schema of the referenced table
	RefTable  string `json:"ref_table" yaml:"ref_table"`   // Referenced table name
	RefColumn string `json:"ref_column" yaml:"ref_column"` // Referenced column name
}

// IsEmpty reports whether the foreign key carries no data at all.
func (fk ForeignKey) IsEmpty() bool {
	return fk == ForeignKey{}
}

// Table is one parsed CREATE TABLE declaration.
type Table struct {
	Schema      string       `json:"schema" yaml:"schema"`
	Name        string       `json:"name" yaml:"name"`
	Columns     []Column     `json:"columns" yaml:"columns"`
	ForeignKeys []ForeignKey `json:"foreign_keys" yaml:"foreign_keys"`
	Source      string       `json:"source,omitempty" yaml:"source,omitempty"` // file the table was read from
}

// SchemaGraph maps table names to tables, preserving the order in which
// tables were added.
type SchemaGraph struct {
	tables *orderedmap.OrderedMap[string, *Table]
}

// NewSchemaGraph creates an empty schema graph.
func NewSchemaGraph() *SchemaGraph {
	return &SchemaGraph{
		tables: orderedmap.NewOrderedMap[string, *Table](),
	}
}

// Add stores the table under its name. If a table with the same name is
// already present it is replaced in place and the previous one is returned.
func (sg *SchemaGraph) Add(t *Table) (replaced *Table) {
	if prev, ok := sg.tables.Get(t.Name); ok {
		replaced = prev
	}
	sg.tables.Set(t.Name, t)
	return replaced
}

// Get returns the table with the given name, or nil if not found.
func (sg *SchemaGraph) Get(name string) *Table {
	t, _ := sg.tables.Get(name)
	return t
}

// Has returns true if a table with the given name exists.
func (sg *SchemaGraph) Has(name string) bool {
	_, ok := sg.tables.Get(name)
	return ok
}

// Len returns the number of tables.
func (sg *SchemaGraph) Len() int {
	return sg.tables.Len()
}

// Names returns table names in insertion order.
func (sg *SchemaGraph) Names() []string {
	return sg.tables.Keys()
}

// Tables returns tables in insertion order.
func (sg *SchemaGraph) Tables() []*Table {
	tables := make([]*Table, 0, sg.tables.Len())
	for el := sg.tables.Front(); el != nil; el = el.Next() {
		tables = append(tables, el.Value)
	}
	return tables
}
