package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"uppercase ASC", "ASC", "ASC"},
		{"lowercase asc", "asc", "ASC"},
		{"padded asc", "  asc  ", "ASC"},
		{"uppercase DESC", "DESC", "DESC"},
		{"empty defaults to DESC", "", "DESC"},
		{"garbage defaults to DESC", "sideways", "DESC"},
		{"injection attempt defaults to DESC", "ASC; DROP TABLE sales", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	t.Run("accepts whitelisted field", func(t *testing.T) {
		got := ValidateSortField("receipt_number", SaleSortFields, "sold_at")
		assert.Equal(t, "receipt_number", got)
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		got := ValidateSortField("1; DELETE FROM sales", SaleSortFields, "sold_at")
		assert.Equal(t, "sold_at", got)
	})

	t.Run("empty falls back to default", func(t *testing.T) {
		got := ValidateSortField("", ProductSortFields, "created_at")
		assert.Equal(t, "created_at", got)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		got := ValidateSortField("  sku  ", ProductSortFields, "created_at")
		assert.Equal(t, "sku", got)
	})
}
