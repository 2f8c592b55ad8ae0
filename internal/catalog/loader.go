// internal/catalog/loader.go
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	apperrors "car-sales-assistant/internal/common/errors"
)

// requiredColumns are the columns the catalog source must provide.
var requiredColumns = []string{
	"make", "model", "year", "price", "km", "version", "bluetooth", "car_play", "stock_id",
}

// Load reads the full catalog CSV into memory. A missing or unreadable source
// is a hard load error surfaced to the operator, not a resolver failure.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewCatalogLoadError(fmt.Sprintf("open %s: %v", path, err))
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads catalog CSV data from a reader.
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewCatalogLoadError(fmt.Sprintf("read header: %v", err))
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, apperrors.NewCatalogLoadError(fmt.Sprintf("missing column %q", required))
		}
	}

	var entries []Entry
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, apperrors.NewCatalogLoadError(fmt.Sprintf("line %d: %v", line, err))
		}

		entry, err := parseRecord(record, cols)
		if err != nil {
			return nil, apperrors.NewCatalogLoadError(fmt.Sprintf("line %d: %v", line, err))
		}
		entries = append(entries, entry)
	}

	return New(entries), nil
}

func parseRecord(record []string, cols map[string]int) (Entry, error) {
	field := func(name string) string {
		idx := cols[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	year, err := strconv.Atoi(field("year"))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid year %q", field("year"))
	}

	price, err := strconv.ParseFloat(field("price"), 64)
	if err != nil || price < 0 {
		return Entry{}, fmt.Errorf("invalid price %q", field("price"))
	}

	km, err := strconv.Atoi(field("km"))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid km %q", field("km"))
	}

	brand := field("make")
	model := field("model")
	if brand == "" || model == "" {
		return Entry{}, fmt.Errorf("empty make or model")
	}

	return Entry{
		Brand:      brand,
		Model:      model,
		Year:       year,
		PriceCents: int64(math.Round(price * 100)),
		Kilometers: km,
		Version:    field("version"),
		Bluetooth:  parseYes(field("bluetooth")),
		CarPlay:    parseYes(field("car_play")),
		StockID:    field("stock_id"),
	}, nil
}

// parseYes accepts the source's Spanish yes/no values plus common variants.
func parseYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sí", "si", "yes", "true", "1":
		return true
	}
	return false
}
