// Package extractor pulls table definitions out of T-SQL CREATE TABLE scripts.
package extractor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/dbsmedya/sql2erd/internal/schema"
)

// Extractor turns the text of one schema file into a table definition.
type Extractor interface {
	Extract(text string) (*schema.Table, error)
}

// ident matches a bracketed identifier body: letters, digits and underscores
// in any script.
const ident = `([\p{L}\p{N}_]+)`

var (
	// tablePattern matches CREATE TABLE [schema].[name].
	tablePattern = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+\[` + ident + `\]\.\[` + ident + `\]`)

	// columnPattern matches "[name] type(p)" and "[name] type(p,s)".
	// Types without a parenthesized precision are not matched.
	columnPattern = regexp.MustCompile(`\[` + ident + `\] (\w+\(\d+(?:,\d+)?\))`)

	// foreignKeyPattern matches FOREIGN KEY ([col]) REFERENCES [schema].[table] ([refcol]).
	foreignKeyPattern = regexp.MustCompile(`(?i)FOREIGN\s+KEY\s*\(\[` + ident + `\]\)\s*REFERENCES\s+\[` +
		ident + `\]\.\[` + ident + `\]\s*\(\[` + ident + `\]\)`)
)

// RegexExtractor extracts tables with regular expressions.
type RegexExtractor struct{}

// NewRegexExtractor creates a regex based extractor.
func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{}
}

// Extract parses the CREATE TABLE declaration, its columns and its foreign keys.
// Returns a MissingTableDeclarationError if no CREATE TABLE statement is found.
func (e *RegexExtractor) Extract(text string) (*schema.Table, error) {
	m := tablePattern.FindStringSubmatch(text)
	if m == nil {
		return nil, &MissingTableDeclarationError{}
	}

	table := &schema.Table{
		Schema:      m[1],
		Name:        m[2],
		Columns:     extractColumns(text),
		ForeignKeys: extractForeignKeys(text),
	}
	return table, nil
}

func extractColumns(text string) []schema.Column {
	matches := columnPattern.FindAllStringSubmatch(text, -1)
	columns := make([]schema.Column, 0, len(matches))
	for _, m := range matches {
		columns = append(columns, schema.Column{Name: m[1], Type: m[2]})
	}
	return columns
}

func extractForeignKeys(text string) []schema.ForeignKey {
	matches := foreignKeyPattern.FindAllStringSubmatch(text, -1)
	fks := make([]schema.ForeignKey, 0, len(matches))
	for _, m := range matches {
		fks = append(fks, schema.ForeignKey{
			Column:    m[1],
			RefSchema: m[2],
			RefTable:  m[3],
			RefColumn: m[4],
		})
	}
	return fks
}

// ExtractFile reads the file at path and extracts its table.
// The file is always closed before returning.
func ExtractFile(ex Extractor, path string) (*schema.Table, error) {
	text, err := readFile(path)
	if err != nil {
		return nil, err
	}

	table, err := ex.Extract(text)
	if err != nil {
		var missing *MissingTableDeclarationError
		if errors.As(err, &missing) {
			missing.Path = path
			return nil, missing
		}
		return nil, fmt.Errorf("failed to extract %s: %w", path, err)
	}

	table.Source = path
	return table, nil
}

func readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", &FileAccessError{Path: path, Err: err}
	}
	return string(data), nil
}
