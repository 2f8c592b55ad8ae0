// internal/catalog/catalog.go
package catalog

import (
	"sort"
)

// Entry is a single sellable vehicle record. Entries are immutable after load
// and safe to share across concurrent resolutions.
type Entry struct {
	Brand      string
	Model      string
	Year       int
	PriceCents int64 // MXN centavos
	Kilometers int
	Version    string
	Bluetooth  bool
	CarPlay    bool
	StockID    string
}

// PricePesos returns the price in whole pesos for display.
func (e Entry) PricePesos() float64 {
	return float64(e.PriceCents) / 100
}

// Catalog holds the full in-memory vehicle inventory. It is read-only after
// construction; reloads build a new Catalog.
type Catalog struct {
	entries []Entry
}

// New builds a catalog from already-parsed entries. Used by tests and by the
// CSV loader.
func New(entries []Entry) *Catalog {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return &Catalog{entries: copied}
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of all entries.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Brands returns the distinct brands in first-seen order. The stable order
// matters: fuzzy matching breaks score ties by iteration order.
func (c *Catalog) Brands() []string {
	seen := make(map[string]bool)
	var brands []string
	for _, e := range c.entries {
		if !seen[e.Brand] {
			seen[e.Brand] = true
			brands = append(brands, e.Brand)
		}
	}
	return brands
}

// ModelsFor returns the distinct models of one brand in first-seen order.
func (c *Catalog) ModelsFor(brand string) []string {
	seen := make(map[string]bool)
	var models []string
	for _, e := range c.entries {
		if e.Brand == brand && !seen[e.Model] {
			seen[e.Model] = true
			models = append(models, e.Model)
		}
	}
	return models
}

// FilterBrand returns all entries of the given exact brand.
func (c *Catalog) FilterBrand(brand string) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.Brand == brand {
			out = append(out, e)
		}
	}
	return out
}

// UnderPrice returns all entries at or below the given price in centavos.
func (c *Catalog) UnderPrice(maxCents int64) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.PriceCents <= maxCents {
			out = append(out, e)
		}
	}
	return out
}

// BrandCounts returns brands ordered by descending inventory count, count
// ties broken by first-seen order.
func (c *Catalog) BrandCounts() []BrandCount {
	counts := make(map[string]int)
	for _, e := range c.entries {
		counts[e.Brand]++
	}

	brands := c.Brands()
	out := make([]BrandCount, 0, len(brands))
	for _, b := range brands {
		out = append(out, BrandCount{Brand: b, Count: counts[b]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// BrandCount pairs a brand with its inventory count.
type BrandCount struct {
	Brand string
	Count int
}

// SortByPrice orders entries ascending by price, ties by ascending model
// year. The sort is stable so paginated results are deterministic run-to-run.
func SortByPrice(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].PriceCents != entries[j].PriceCents {
			return entries[i].PriceCents < entries[j].PriceCents
		}
		return entries[i].Year < entries[j].Year
	})
}
