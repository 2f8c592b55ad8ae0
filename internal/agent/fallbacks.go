// internal/agent/fallbacks.go
package agent

import "strings"

// emptyReply covers the case where every generation tier produced nothing.
const emptyReply = "No recibí una respuesta del agente. Por favor, intenta de nuevo en un momento. 🔄"

const (
	greetingFallback = "¡Hola! Soy tu asesor de autos seminuevos 🚗\n\n" +
		"Te puedo ayudar con:\n" +
		"• Encontrar tu auto ideal\n" +
		"• Calcular financiamiento 💰\n" +
		"• Info sobre garantías\n" +
		"• Agendar cita de prueba\n\n" +
		"¿Qué necesitas?"

	apologyFallback = "Disculpa, tuve un problemita técnico 🤔\n\n" +
		"¿Me puedes decir qué tipo de auto buscas? Te ayudo a encontrar las mejores opciones."

	budgetFallback = "¡Perfecto! Estoy aquí para ayudarte a encontrar tu auto ideal 🚗\n\n" +
		"¿Cuál es tu presupuesto aproximado?"
)

// fallbackReply picks a canned Spanish response keyed off the user's
// message. This is the last tier: it must always produce something, with no
// model, store or network involved.
func fallbackReply(userMessage string) string {
	lower := strings.ToLower(userMessage)

	if containsAny(lower, "hola", "hello", "hi") {
		return greetingFallback
	}
	if containsAny(lower, "error", "problema") {
		return apologyFallback
	}
	return budgetFallback
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
