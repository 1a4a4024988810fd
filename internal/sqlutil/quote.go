// Package sqlutil provides T-SQL identifier helpers for sql2erd.
package sqlutil

import (
	"regexp"
	"strings"
)

// QuoteIdentifier quotes a T-SQL identifier (schema, table, column) with brackets.
// It escapes any closing bracket by doubling it.
// Example: "Orders" -> "[Orders]"
// Example: "odd]name" -> "[odd]]name]"
func QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// UnquoteIdentifier removes surrounding brackets and un-doubles escaped
// closing brackets. Names without brackets are returned unchanged.
func UnquoteIdentifier(name string) string {
	if len(name) >= 2 && strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		return strings.ReplaceAll(name[1:len(name)-1], "]]", "]")
	}
	return name
}

// QualifiedName returns "[schema].[name]", or "[name]" when schema is empty.
func QualifiedName(schema, name string) string {
	if schema == "" {
		return QuoteIdentifier(name)
	}
	return QuoteIdentifier(schema) + "." + QuoteIdentifier(name)
}

// validIdentifierRegex matches the identifiers the extractor recognizes.
var validIdentifierRegex = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)

// IsValidIdentifier checks if a name only contains letters, digits and underscores.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// ParseQualifiedName splits "[schema].[name]", "schema.name", "[name]" or
// "name" into its parts. Schema is empty when not given.
// Returns an error if a part contains invalid characters.
func ParseQualifiedName(s string) (schema, name string, err error) {
	parts := splitQualified(strings.TrimSpace(s))
	switch len(parts) {
	case 1:
		name = UnquoteIdentifier(parts[0])
	case 2:
		schema = UnquoteIdentifier(parts[0])
		name = UnquoteIdentifier(parts[1])
	default:
		return "", "", &InvalidIdentifierError{Name: s}
	}

	if schema != "" && !IsValidIdentifier(schema) {
		return "", "", &InvalidIdentifierError{Name: schema}
	}
	if !IsValidIdentifier(name) {
		return "", "", &InvalidIdentifierError{Name: name}
	}
	return schema, name, nil
}

// splitQualified splits on dots that are outside brackets.
func splitQualified(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '.':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only letters, digits and underscores)"
}
