// internal/tools/tools.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"car-sales-assistant/internal/common/logger"
	"car-sales-assistant/internal/llm"
)

// Tool is one callable capability advertised to the model. Parameters is the
// JSON Schema of the arguments object. Invoke returns user-facing Spanish
// text; argument validation failures are part of that text, not errors, so
// the model can correct itself and retry.
type Tool interface {
	Name() string
	Description() string
	Parameters() json.RawMessage
	Invoke(ctx context.Context, args json.RawMessage) (string, error)
}

// ==========================================
// REGISTRY
// ==========================================

// Registry holds the tool set in registration order and adapts it to the
// model gateway's executor contract.
type Registry struct {
	order  []string
	byName map[string]Tool
	logger logger.Logger
}

func NewRegistry(log logger.Logger, toolset ...Tool) *Registry {
	r := &Registry{
		byName: make(map[string]Tool, len(toolset)),
		logger: log.WithFields(map[string]interface{}{"component": "tools"}),
	}
	for _, t := range toolset {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(t Tool) {
	if _, exists := r.byName[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.byName[t.Name()] = t
}

// Definitions lists the registered tools in registration order.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.byName[name]
		defs = append(defs, llm.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Execute dispatches one model-requested call. Unknown tools and malformed
// argument payloads are errors; everything a tool can explain to the user
// comes back as text instead.
func (r *Registry) Execute(ctx context.Context, name, arguments string) (string, error) {
	t, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}

	raw := json.RawMessage(arguments)
	if strings.TrimSpace(arguments) == "" {
		raw = json.RawMessage("{}")
	}
	if !json.Valid(raw) {
		return "", fmt.Errorf("tool %s: invalid arguments payload", name)
	}

	r.logger.Debug("invoking tool", map[string]interface{}{"tool": name})
	return t.Invoke(ctx, raw)
}

// ==========================================
// FORMAT HELPERS
// ==========================================

// pesos renders a centavo amount as a whole-peso figure with thousands
// separators ("349999900" centavos becomes "3,499,999").
func pesos(cents int64) string {
	return groupDigits(fmt.Sprintf("%d", cents/100))
}

// pesosFloat renders a peso amount with two decimals and thousands
// separators, for financing figures computed in floating point.
func pesosFloat(v float64) string {
	whole := int64(math.Floor(v))
	frac := int64(math.Round((v - float64(whole)) * 100))
	if frac == 100 {
		whole++
		frac = 0
	}
	return fmt.Sprintf("%s.%02d", groupDigits(fmt.Sprintf("%d", whole)), frac)
}

func groupDigits(s string) string {
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}
