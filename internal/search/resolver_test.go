// internal/search/resolver_test.go
package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-sales-assistant/internal/catalog"
	"car-sales-assistant/internal/common/logger"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Entry{
		{Brand: "Toyota", Model: "Corolla", Year: 2020, PriceCents: 31500000, StockID: "A1"},
		{Brand: "Toyota", Model: "Corolla", Year: 2019, PriceCents: 28999900, StockID: "A2"},
		{Brand: "Toyota", Model: "Camry", Year: 2021, PriceCents: 45500000, StockID: "A3"},
		{Brand: "Nissan", Model: "Versa", Year: 2021, PriceCents: 24500000, StockID: "B1"},
		{Brand: "Nissan", Model: "Sentra", Year: 2020, PriceCents: 28200000, StockID: "B2"},
		{Brand: "Volkswagen", Model: "Jetta", Year: 2020, PriceCents: 33000000, StockID: "C1"},
	})
}

func TestResolver_Resolve(t *testing.T) {
	resolver := NewResolver(testCatalog(), logger.NewNoOpLogger())

	tests := []struct {
		name           string
		brand          string
		model          string
		expectedStocks []string
	}{
		{
			name:           "exact brand and model",
			brand:          "Toyota",
			model:          "Corolla",
			expectedStocks: []string{"A2", "A1"},
		},
		{
			name:           "misspelled brand and model",
			brand:          "Toyot",
			model:          "Corola",
			expectedStocks: []string{"A2", "A1"},
		},
		{
			name:           "typo table brand",
			brand:          "nisan",
			model:          "Sentra",
			expectedStocks: []string{"B2"},
		},
		{
			name:           "brand abbreviation",
			brand:          "vw",
			model:          "Jetta",
			expectedStocks: []string{"C1"},
		},
		{
			name:           "brand only returns whole brand sorted by price",
			brand:          "Toyota",
			model:          "",
			expectedStocks: []string{"A2", "A1", "A3"},
		},
		{
			name:           "model of another brand does not cross over",
			brand:          "Toyota",
			model:          "Versa",
			expectedStocks: []string{},
		},
		{
			name:           "unknown brand",
			brand:          "Ferrari",
			model:          "Corolla",
			expectedStocks: []string{},
		},
		{
			name:           "no filters returns full catalog",
			brand:          "",
			model:          "",
			expectedStocks: []string{"B1", "B2", "A2", "A1", "C1", "A3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := resolver.Resolve(tt.brand, tt.model)

			require.Len(t, entries, len(tt.expectedStocks))
			for i, stockID := range tt.expectedStocks {
				assert.Equal(t, stockID, entries[i].StockID)
			}
		})
	}
}

func TestResolver_Resolve_PriceOrdering(t *testing.T) {
	resolver := NewResolver(testCatalog(), logger.NewNoOpLogger())

	entries := resolver.Resolve("", "")
	require.NotEmpty(t, entries)
	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, entries[i-1].PriceCents, entries[i].PriceCents)
	}
}

func TestResolver_Resolve_ModelNoiseTolerated(t *testing.T) {
	resolver := NewResolver(testCatalog(), logger.NewNoOpLogger())

	// The typo table strips trailing trim/year noise from known models.
	entries := resolver.Resolve("Toyota", "corolla 2020 le")
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, "Corolla", e.Model)
	}
}
