// internal/agent/whatsapp.go
package agent

import "strings"

// truncationSuffix closes an over-long reply on a conversational note
// instead of a hard cut.
const truncationSuffix = "...\n\n¿Te interesa saber más detalles? 😊"

var knownEmojis = []string{"🚗", "💰", "📱", "😊", "✅", "❌", "🤔", "🔍"}

// formatForWhatsApp fits a reply to the channel: enforce the length limit
// with a friendly truncation and make sure at least one contextual emoji is
// present. Length is counted in runes; a byte cut could split an emoji.
// Over-long replies are cut at the last sentence end before the limit so the
// reader never sees half a sentence; only a period-free reply is cut hard.
func formatForWhatsApp(response string, maxLength int) string {
	if maxLength > 0 {
		runes := []rune(response)
		if len(runes) > maxLength {
			limit := maxLength - len([]rune(truncationSuffix))
			if limit < 0 {
				limit = 0
			}
			cut := limit
			for i := limit - 1; i >= 0; i-- {
				if runes[i] == '.' {
					cut = i + 1
					break
				}
			}
			response = string(runes[:cut]) + truncationSuffix
		}
	}

	for _, emoji := range knownEmojis {
		if strings.Contains(response, emoji) {
			return response
		}
	}
	return addContextualEmoji(response)
}

// addContextualEmoji prefixes a reply with an emoji matching its topic.
func addContextualEmoji(response string) string {
	lower := strings.ToLower(response)

	switch {
	case containsAny(lower, "auto", "carro", "vehículo"):
		return "🚗 " + response
	case containsAny(lower, "precio", "pago", "financiamiento"):
		return "💰 " + response
	case containsAny(lower, "buscar", "encontrar"):
		return "🔍 " + response
	}
	return "😊 " + response
}
