// internal/search/resolver.go
package search

import (
	"car-sales-assistant/internal/catalog"
	"car-sales-assistant/internal/common/logger"
)

// Resolver maps noisy user input onto exact catalog entities. It holds a
// read-only catalog handle injected at construction, so concurrent
// resolutions share no mutable state.
type Resolver struct {
	catalog *catalog.Catalog
	logger  logger.Logger
}

func NewResolver(c *catalog.Catalog, log logger.Logger) *Resolver {
	return &Resolver{
		catalog: c,
		logger:  log.WithFields(map[string]interface{}{"component": "resolver"}),
	}
}

// Resolve filters the catalog by fuzzy-matched brand and model.
//
// The brand is matched against the distinct catalog brands; the model is then
// matched only against the models of the already brand-filtered subset, never
// the full catalog. "No match" is a first-class empty result, not an error.
// With neither brand nor model given, the full catalog is returned.
// Results are ordered by ascending price, ties by ascending model year.
func (r *Resolver) Resolve(rawBrand, rawModel string) []catalog.Entry {
	entries := r.catalog.Entries()

	if rawBrand != "" {
		query := CorrectTypos(Normalize(rawBrand))
		brand, score, ok := BestMatch(query, r.catalog.Brands(), DefaultThreshold)
		if !ok {
			r.logger.Warn("no brand match", map[string]interface{}{"brand": rawBrand})
			return []catalog.Entry{}
		}
		r.logger.Debug("brand matched", map[string]interface{}{
			"brand": brand,
			"score": score,
		})
		entries = filterBrand(entries, brand)
	}

	if rawModel != "" {
		if len(entries) == 0 {
			return []catalog.Entry{}
		}
		query := CorrectTypos(Normalize(rawModel))
		model, score, ok := BestMatch(query, distinctModels(entries), DefaultThreshold)
		if !ok {
			r.logger.Warn("no model match", map[string]interface{}{"model": rawModel})
			return []catalog.Entry{}
		}
		r.logger.Debug("model matched", map[string]interface{}{
			"model": model,
			"score": score,
		})
		entries = filterModel(entries, model)
	}

	catalog.SortByPrice(entries)
	return entries
}

func filterBrand(entries []catalog.Entry, brand string) []catalog.Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if e.Brand == brand {
			out = append(out, e)
		}
	}
	return out
}

func filterModel(entries []catalog.Entry, model string) []catalog.Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if e.Model == model {
			out = append(out, e)
		}
	}
	return out
}

// distinctModels returns the distinct models of a subset in first-seen order.
func distinctModels(entries []catalog.Entry) []string {
	seen := make(map[string]bool)
	var models []string
	for _, e := range entries {
		if !seen[e.Model] {
			seen[e.Model] = true
			models = append(models, e.Model)
		}
	}
	return models
}
