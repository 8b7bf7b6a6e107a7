package sqlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Simple table name", input: "users", expected: "`users`"},
		{name: "Mixed case", input: "MyTable", expected: "`MyTable`"},
		{name: "Empty string", input: "", expected: "``"},
		{name: "Single backtick", input: "my`table", expected: "`my``table`"},
		{name: "Injection attempt", input: "users`; DROP TABLE users; --", expected: "`users``; DROP TABLE users; --`"},
		{name: "Space in name", input: "order items", expected: "`order items`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteIdentifier(tt.input))
		})
	}
}

func TestQuoteIdentifiers(t *testing.T) {
	assert.Equal(t, "`a`, `b``c`", QuoteIdentifiers([]string{"a", "b`c"}))
	assert.Equal(t, "", QuoteIdentifiers(nil))
}

func TestSelectAll(t *testing.T) {
	tests := []struct {
		name     string
		table    string
		columns  []string
		orderBy  []string
		expected string
	}{
		{
			name:     "ordered by key",
			table:    "orders",
			columns:  []string{"Id", "Name"},
			orderBy:  []string{"Id"},
			expected: "SELECT `Id`, `Name` FROM `orders` ORDER BY `Id`",
		},
		{
			name:     "unordered",
			table:    "audit log",
			columns:  []string{"Message"},
			expected: "SELECT `Message` FROM `audit log`",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectAll(tt.table, tt.columns, tt.orderBy))
		})
	}
}
