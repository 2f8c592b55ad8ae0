// internal/catalog/catalog_test.go
package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `make,model,year,price,km,version,bluetooth,car_play,stock_id
Toyota,Corolla,2020,315000,45210,LE CVT,Sí,Sí,KAV-1
Nissan,Versa,2021,245000.50,28900,Advance,Sí,No,KAV-2
Nissan,Sentra,2020,282000,44000,Exclusive,No,No,KAV-3
`

// ==========================
// Parsing Tests
// ==========================

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	entries := c.Entries()
	assert.Equal(t, "Toyota", entries[0].Brand)
	assert.Equal(t, "Corolla", entries[0].Model)
	assert.Equal(t, 2020, entries[0].Year)
	assert.Equal(t, int64(31500000), entries[0].PriceCents)
	assert.Equal(t, 45210, entries[0].Kilometers)
	assert.True(t, entries[0].Bluetooth)
	assert.True(t, entries[0].CarPlay)

	// Fractional prices survive the centavo conversion exactly.
	assert.Equal(t, int64(24500050), entries[1].PriceCents)
	assert.False(t, entries[1].CarPlay)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "missing required column",
			csv:  "make,model,year,price\nToyota,Corolla,2020,315000\n",
		},
		{
			name: "invalid year",
			csv:  "make,model,year,price,km,version,bluetooth,car_play,stock_id\nToyota,Corolla,veinte,315000,1,LE,Sí,Sí,K1\n",
		},
		{
			name: "negative price",
			csv:  "make,model,year,price,km,version,bluetooth,car_play,stock_id\nToyota,Corolla,2020,-5,1,LE,Sí,Sí,K1\n",
		},
		{
			name: "empty brand",
			csv:  "make,model,year,price,km,version,bluetooth,car_play,stock_id\n,Corolla,2020,315000,1,LE,Sí,Sí,K1\n",
		},
		{
			name: "empty file",
			csv:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.csv))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "CATALOG_LOAD_FAILED")
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("does-not-exist.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_LOAD_FAILED")
}

func TestParseYes(t *testing.T) {
	assert.True(t, parseYes("Sí"))
	assert.True(t, parseYes("si"))
	assert.True(t, parseYes(" yes "))
	assert.True(t, parseYes("1"))
	assert.False(t, parseYes("No"))
	assert.False(t, parseYes(""))
}

// ==========================
// Catalog Query Tests
// ==========================

func TestCatalog_Queries(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"Toyota", "Nissan"}, c.Brands())
	assert.Equal(t, []string{"Versa", "Sentra"}, c.ModelsFor("Nissan"))
	assert.Len(t, c.FilterBrand("Nissan"), 2)
	assert.Len(t, c.UnderPrice(30000000), 2)
	assert.Empty(t, c.FilterBrand("Ferrari"))
}

func TestCatalog_BrandCounts(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	counts := c.BrandCounts()
	require.Len(t, counts, 2)
	assert.Equal(t, BrandCount{Brand: "Nissan", Count: 2}, counts[0])
	assert.Equal(t, BrandCount{Brand: "Toyota", Count: 1}, counts[1])
}

func TestSortByPrice_TiesByYear(t *testing.T) {
	entries := []Entry{
		{StockID: "newer", PriceCents: 100, Year: 2021},
		{StockID: "older", PriceCents: 100, Year: 2019},
		{StockID: "cheap", PriceCents: 50, Year: 2022},
	}

	SortByPrice(entries)

	assert.Equal(t, "cheap", entries[0].StockID)
	assert.Equal(t, "older", entries[1].StockID)
	assert.Equal(t, "newer", entries[2].StockID)
}
