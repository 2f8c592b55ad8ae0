// internal/tools/info.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"car-sales-assistant/internal/knowledge"
)

// ==========================================
// COMPANY INFO (RETRIEVAL)
// ==========================================

type companyInfoTool struct {
	store     knowledge.Store
	maxLength int
}

// NewCompanyInfoTool retrieves company knowledge for open questions.
// maxLength caps the combined passage text so the final answer stays within
// the channel's response limit.
func NewCompanyInfoTool(store knowledge.Store, maxLength int) Tool {
	return &companyInfoTool{store: store, maxLength: maxLength}
}

func (t *companyInfoTool) Name() string { return "get_company_info" }

func (t *companyInfoTool) Description() string {
	return "Obtiene información general sobre la empresa: servicios, garantías, procesos de compra y venta, sucursales."
}

func (t *companyInfoTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "Pregunta del usuario sobre la empresa o sus servicios"}
		},
		"required": ["query"]
	}`)
}

// Invoke returns the retrieved passage text, or an empty string when the
// store has nothing relevant. The empty string is deliberate: downstream the
// orchestrator treats it as "retrieval found nothing" and lets the model
// answer from its general instructions instead.
func (t *companyInfoTool) Invoke(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}

	passages, err := t.store.Search(ctx, in.Query, 1, nil)
	if err != nil {
		return "⚠️ ¡Ups! Hubo un problema al buscar la información. Por favor, inténtalo de nuevo en un momento.", nil
	}
	if len(passages) == 0 {
		return "", nil
	}

	var parts []string
	for _, p := range passages {
		if p.Content != "" {
			parts = append(parts, p.Content)
		}
	}
	combined := strings.Join(parts, "\n\n")
	if strings.TrimSpace(combined) == "" {
		return "🤔 Encontré información relacionada, pero no un texto claro para mostrar. ¿Puedes intentar otra pregunta?", nil
	}

	limit := t.maxLength - 100
	if limit > 0 && len(combined) > limit {
		// Cut at the last sentence end before the limit for a clean break.
		cutoff := strings.LastIndex(combined[:limit], ".")
		if cutoff == -1 {
			// No sentence boundary; back off to the nearest rune boundary.
			cutoff = limit
			for cutoff > 0 && !utf8.RuneStart(combined[cutoff]) {
				cutoff--
			}
		}
		combined = combined[:cutoff] + ".\n\n¿Te gustaría que profundice en algún aspecto en particular? 😊"
	}
	return combined, nil
}

// ==========================================
// APPOINTMENT SCHEDULING
// ==========================================

type appointmentTool struct{}

func NewAppointmentTool() Tool {
	return appointmentTool{}
}

func (appointmentTool) Name() string { return "schedule_appointment" }

func (appointmentTool) Description() string {
	return "Explica cómo agendar una cita para ver un auto y qué documentos tener a la mano."
}

func (appointmentTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (appointmentTool) Invoke(_ context.Context, _ json.RawMessage) (string, error) {
	return "📅 *¡Agenda tu Cita!* 🚗\n\n" +
		"¡Perfecto! Uno de nuestros asesores se pondrá en contacto contigo a la brevedad para ayudarte a agendar tu cita.\n\n" +
		"📋 *Por favor ten a la mano:*\n" +
		"• Identificación oficial (INE/IFE)\n" +
		"• Comprobante de domicilio\n" +
		"• Comprobantes de ingresos (si aplica para financiamiento)\n" +
		"• Documentos de tu auto actual (si planeas dejarlo a cuenta)", nil
}
