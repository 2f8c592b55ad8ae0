// internal/tools/carsearch.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"car-sales-assistant/internal/catalog"
	"car-sales-assistant/internal/search"
)

// ==========================================
// SEARCH CARS BY BUDGET
// ==========================================

type budgetSearchTool struct {
	catalog *catalog.Catalog
}

func NewBudgetSearchTool(c *catalog.Catalog) Tool {
	return &budgetSearchTool{catalog: c}
}

func (t *budgetSearchTool) Name() string { return "search_cars_by_budget" }

func (t *budgetSearchTool) Description() string {
	return "Busca autos dentro de un presupuesto máximo en pesos mexicanos, opcionalmente filtrados por marca."
}

func (t *budgetSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"max_price": {"type": "number", "description": "Presupuesto máximo en pesos mexicanos"},
			"brand": {"type": "string", "description": "Marca específica (opcional), p.ej. Toyota, Nissan"}
		},
		"required": ["max_price"]
	}`)
}

func (t *budgetSearchTool) Invoke(_ context.Context, args json.RawMessage) (string, error) {
	var in struct {
		MaxPrice float64 `json:"max_price"`
		Brand    string  `json:"brand"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}
	if in.MaxPrice <= 0 {
		return "❌ El presupuesto debe ser mayor a $0. ¿Puedes verificar?", nil
	}

	maxCents := int64(in.MaxPrice * 100)
	entries := t.catalog.UnderPrice(maxCents)
	if brand := strings.ToLower(strings.TrimSpace(in.Brand)); brand != "" {
		filtered := entries[:0:0]
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.Brand), brand) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	catalog.SortByPrice(entries)

	if len(entries) == 0 {
		return fmt.Sprintf(
			"🔍 No encontré autos con esos criterios.\n\n"+
				"Algunas opciones:\n"+
				"• Aumentar el presupuesto a $%s\n"+
				"• Considerar diferentes marcas\n\n"+
				"¿Te ayudo con otras opciones? 😊",
			pesosFloat(in.MaxPrice+50000)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚗 Encontré %d autos en tu presupuesto de $%s:\n\n", len(entries), pesosFloat(in.MaxPrice))

	shown := entries
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, e := range shown {
		bluetooth := "❌ Sin Bluetooth"
		if e.Bluetooth {
			bluetooth = "✅ Bluetooth"
		}
		carplay := ""
		if e.CarPlay {
			carplay = " • ✅ CarPlay"
		}
		fmt.Fprintf(&b, "*%s %s %d*\n💰 $%s\n📍 %s km\n%s%s\n---\n",
			e.Brand, e.Model, e.Year, pesos(e.PriceCents), groupDigits(fmt.Sprintf("%d", e.Kilometers)), bluetooth, carplay)
	}

	if len(entries) > 5 {
		fmt.Fprintf(&b, "\n¡Y %d opciones más!\n", len(entries)-5)
	}
	b.WriteString("\n¿Te interesa alguno en particular? ¿Quieres más detalles? 😊")
	return b.String(), nil
}

// ==========================================
// SEARCH SPECIFIC CAR
// ==========================================

type specificCarTool struct {
	catalog  *catalog.Catalog
	resolver *search.Resolver
}

func NewSpecificCarTool(c *catalog.Catalog, r *search.Resolver) Tool {
	return &specificCarTool{catalog: c, resolver: r}
}

func (t *specificCarTool) Name() string { return "search_specific_car" }

func (t *specificCarTool) Description() string {
	return "Busca un auto específico por marca y modelo, tolerando errores de escritura."
}

func (t *specificCarTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"brand": {"type": "string", "description": "Marca del auto, p.ej. Toyota, Nissan"},
			"model": {"type": "string", "description": "Modelo del auto, p.ej. Corolla, Sentra"}
		},
		"required": ["brand", "model"]
	}`)
}

func (t *specificCarTool) Invoke(_ context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Brand string `json:"brand"`
		Model string `json:"model"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}

	// Exact substring match first, the noise-tolerant resolver as fallback.
	entries := t.containsMatch(in.Brand, in.Model)
	if len(entries) == 0 {
		entries = t.resolver.Resolve(in.Brand, in.Model)
	}

	if len(entries) == 0 {
		return fmt.Sprintf(
			"🔍 No encontré \"%s %s\" en nuestro catálogo.\n\n"+
				"¿Quizás te refieres a:\n"+
				"• %s\n"+
				"• %s\n\n"+
				"¿Puedes verificar el nombre? 🤔",
			in.Brand, in.Model,
			joinFirst(t.catalog.Brands(), 5),
			joinFirst(distinctModels(t.catalog.Entries()), 5)), nil
	}

	catalog.SortByPrice(entries)

	var b strings.Builder
	fmt.Fprintf(&b, "🚗 Encontré *%s %s* disponible:\n\n", entries[0].Brand, entries[0].Model)
	for _, e := range entries {
		bluetooth := "❌"
		if e.Bluetooth {
			bluetooth = "✅"
		}
		carplay := "❌"
		if e.CarPlay {
			carplay = "✅"
		}
		fmt.Fprintf(&b, "*%s %s %d*\n%s\n💰 $%s\n📍 %s km\n%s Bluetooth • %s CarPlay\nStock ID: %s\n---\n",
			e.Brand, e.Model, e.Year, e.Version, pesos(e.PriceCents),
			groupDigits(fmt.Sprintf("%d", e.Kilometers)), bluetooth, carplay, e.StockID)
	}
	b.WriteString("\n¿Te interesa alguna versión? ¿Quieres calcular financiamiento? 💰")
	return b.String(), nil
}

// containsMatch finds entries whose brand and model contain the given text,
// case-insensitively. This catches already-correct input without paying for
// fuzzy scoring.
func (t *specificCarTool) containsMatch(brand, model string) []catalog.Entry {
	brandLower := strings.ToLower(strings.TrimSpace(brand))
	modelLower := strings.ToLower(strings.TrimSpace(model))
	if brandLower == "" || modelLower == "" {
		return nil
	}

	var out []catalog.Entry
	for _, e := range t.catalog.Entries() {
		if strings.Contains(strings.ToLower(e.Brand), brandLower) &&
			strings.Contains(strings.ToLower(e.Model), modelLower) {
			out = append(out, e)
		}
	}
	return out
}

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

func joinFirst(values []string, n int) string {
	if len(values) > n {
		values = values[:n]
	}
	return strings.Join(values, ", ")
}

// ==========================================
// POPULAR CARS
// ==========================================

type popularCarsTool struct {
	catalog *catalog.Catalog
}

func NewPopularCarsTool(c *catalog.Catalog) Tool {
	return &popularCarsTool{catalog: c}
}

func (t *popularCarsTool) Name() string { return "get_popular_cars" }

func (t *popularCarsTool) Description() string {
	return "Muestra las marcas con más autos disponibles en el catálogo, con un ejemplo y precio inicial por marca."
}

func (t *popularCarsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *popularCarsTool) Invoke(_ context.Context, _ json.RawMessage) (string, error) {
	counts := t.catalog.BrandCounts()
	if len(counts) == 0 {
		return "❌ No pude acceder al catálogo.", nil
	}
	if len(counts) > 5 {
		counts = counts[:5]
	}

	var b strings.Builder
	b.WriteString("🚗 *Autos más populares:*\n\n")
	for _, bc := range counts {
		entries := t.catalog.FilterBrand(bc.Brand)
		catalog.SortByPrice(entries)
		cheapest := entries[0]
		fmt.Fprintf(&b, "*%s* (%d disponibles)\nDesde $%s\nEjemplo: %s %d\n---\n",
			bc.Brand, bc.Count, pesos(cheapest.PriceCents), cheapest.Model, cheapest.Year)
	}
	b.WriteString("\n¿Te interesa alguna marca en particular? 😊")
	return b.String(), nil
}
