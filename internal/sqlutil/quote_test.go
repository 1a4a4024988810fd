package sqlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple table name",
			input:    "Orders",
			expected: "[Orders]",
		},
		{
			name:     "Table with underscore",
			input:    "Order_Items",
			expected: "[Order_Items]",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "[]",
		},
		{
			name:     "Closing bracket is doubled",
			input:    "odd]name",
			expected: "[odd]]name]",
		},
		{
			name:     "Opening bracket is kept",
			input:    "odd[name",
			expected: "[odd[name]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteIdentifier(tt.input))
		})
	}
}

func TestUnquoteIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[Orders]", "Orders"},
		{"[odd]]name]", "odd]name"},
		{"Orders", "Orders"},
		{"[", "["},
		{"[]", ""},
		{"[half", "[half"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, UnquoteIdentifier(tt.input))
		})
	}
}

func TestQuoteUnquoteRoundTrip(t *testing.T) {
	for _, name := range []string{"Orders", "a]b", "]]", "x y"} {
		assert.Equal(t, name, UnquoteIdentifier(QuoteIdentifier(name)))
	}
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "[dbo].[Orders]", QualifiedName("dbo", "Orders"))
	assert.Equal(t, "[Orders]", QualifiedName("", "Orders"))
	assert.Equal(t, "[sales].[Invoices]", QualifiedName("sales", "Invoices"))
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"Orders", "order_items", "T1", "_x", "Größe", "客户"}
	for _, name := range valid {
		assert.True(t, IsValidIdentifier(name), name)
	}

	invalid := []string{"", "my table", "a-b", "a.b", "[x]", "x;DROP"}
	for _, name := range invalid {
		assert.False(t, IsValidIdentifier(name), name)
	}
}

func TestParseQualifiedName(t *testing.T) {
	tests := []struct {
		input      string
		wantSchema string
		wantName   string
	}{
		{"Orders", "", "Orders"},
		{"[Orders]", "", "Orders"},
		{"dbo.Orders", "dbo", "Orders"},
		{"[dbo].[Orders]", "dbo", "Orders"},
		{"  [sales].Invoices ", "sales", "Invoices"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			schema, name, err := ParseQualifiedName(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSchema, schema)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestParseQualifiedName_Invalid(t *testing.T) {
	for _, input := range []string{"", "a.b.c", "[bad name]", "dbo.[x-y]", "[a.b]"} {
		_, _, err := ParseQualifiedName(input)
		require.Error(t, err, input)

		var invalid *InvalidIdentifierError
		require.ErrorAs(t, err, &invalid)
		assert.Contains(t, err.Error(), "invalid identifier")
	}
}
