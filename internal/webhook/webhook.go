// internal/webhook/webhook.go
package webhook

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"car-sales-assistant/internal/common/logger"
)

// chunkLength is a conservative per-message limit; WhatsApp allows 4096
// characters but TwiML envelope overhead eats into it.
const chunkLength = 3000

const panicReply = "¡Ups! Algo salió mal. Por favor, inténtalo de nuevo en un momento. 🛠️"

// Responder answers one user message within a session. The contract is the
// orchestrator's: the reply is never empty and errors never surface here.
type Responder interface {
	Process(ctx context.Context, sessionID, message string) string
}

// Handler terminates Twilio WhatsApp webhooks: form-encoded message in,
// TwiML document out. Inbound failures still answer 200 with an apologetic
// TwiML body, because a 5xx would make Twilio retry and the user see nothing.
type Handler struct {
	responder Responder
	logger    logger.Logger
}

func NewHandler(responder Responder, log logger.Logger) *Handler {
	return &Handler{
		responder: responder,
		logger:    log.WithFields(map[string]interface{}{"component": "webhook"}),
	}
}

// Register mounts the webhook routes on a mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/webhook/whatsapp", h.handleWhatsApp)
	mux.HandleFunc("/healthz", h.handleHealth)
}

func (h *Handler) handleWhatsApp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form payload", http.StatusBadRequest)
		return
	}

	body := r.PostFormValue("Body")
	from := r.PostFormValue("From")
	messageSid := r.PostFormValue("MessageSid")
	if body == "" || from == "" {
		http.Error(w, "missing Body or From", http.StatusBadRequest)
		return
	}

	// Session identity is the sender's phone number, stripped of the
	// channel prefix Twilio adds.
	phone := strings.TrimPrefix(from, "whatsapp:")
	sessionID := "whatsapp_" + phone

	h.logger.Info("whatsapp message received", map[string]interface{}{
		"session_id":  sessionID,
		"message_sid": messageSid,
	})

	reply := h.process(r.Context(), sessionID, body)
	h.writeTwiML(w, reply)
}

// process shields the transport from orchestrator panics; the channel always
// gets a reply.
func (h *Handler) process(ctx context.Context, sessionID, body string) (reply string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			h.logger.Error("responder panicked", map[string]interface{}{
				"session_id": sessionID,
				"panic":      fmt.Sprintf("%v", recovered),
			})
			reply = panicReply
		}
	}()
	return h.responder.Process(ctx, sessionID, body)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}

// writeTwiML renders the reply as a TwiML messaging response, split into
// chunks when it exceeds the per-message limit.
func (h *Handler) writeTwiML(w http.ResponseWriter, reply string) {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<Response>")
	for _, chunk := range splitChunks(reply, chunkLength) {
		b.WriteString("<Message>")
		xml.EscapeText(&b, []byte(chunk))
		b.WriteString("</Message>")
	}
	b.WriteString("</Response>")

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("X-Twilio-Webhook", "true")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, b.String())
}

// splitChunks cuts a string into rune-safe pieces of at most size runes.
func splitChunks(s string, size int) []string {
	runes := []rune(s)
	if len(runes) <= size {
		return []string{s}
	}

	var chunks []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
