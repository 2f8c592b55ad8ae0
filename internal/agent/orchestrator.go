// internal/agent/orchestrator.go
package agent

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"car-sales-assistant/internal/common/logger"
	"car-sales-assistant/internal/common/metrics"
	"car-sales-assistant/internal/common/observability"
	"car-sales-assistant/internal/history"
	"car-sales-assistant/internal/llm"
)

// knowledgeToolName is the retrieval tool the orchestrator watches: when it
// runs and finds nothing, the model is allowed to answer from its own
// instructions instead.
const knowledgeToolName = "get_company_info"

// Outcome labels for metrics, one per response tier.
const (
	outcomePrimary = "primary"
	outcomeDirect  = "direct"
	outcomeCanned  = "canned"
)

// Orchestrator drives one inbound message through the response tiers:
// tool-augmented generation, a direct model call when retrieval came up
// empty, and finally a canned Spanish reply. It never returns an empty
// string and never lets a pipeline error escape to the transport.
type Orchestrator struct {
	generator llm.Generator
	executor  llm.ToolExecutor
	history   history.Store
	obs       *observability.Observability
	maxTurns  int
	maxLength int
	logger    logger.Logger
}

type Options struct {
	Generator     llm.Generator
	Executor      llm.ToolExecutor
	History       history.Store
	Observability *observability.Observability
	MaxTurns      int
	MaxLength     int
	Logger        logger.Logger
}

func New(opts Options) *Orchestrator {
	return &Orchestrator{
		generator: opts.Generator,
		executor:  opts.Executor,
		history:   opts.History,
		obs:       opts.Observability,
		maxTurns:  opts.MaxTurns,
		maxLength: opts.MaxLength,
		logger:    opts.Logger.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
}

// Process answers one user message within its session.
func (o *Orchestrator) Process(ctx context.Context, sessionID, message string) string {
	started := time.Now()

	turns := o.loadHistory(ctx, sessionID)
	text, outcome := o.generate(ctx, turns, message)

	reply := formatForWhatsApp(text, o.maxLength)
	o.storeTurn(ctx, sessionID, message, reply)

	o.logger.Info("message processed", map[string]interface{}{
		"session_id": sessionID,
		"outcome":    outcome,
		"duration":   time.Since(started).String(),
	})
	metrics.MessagesProcessed.WithLabelValues(outcome).Inc()
	metrics.MessageDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
	if o.obs != nil {
		o.obs.RecordMessageProcessed(ctx, outcome)
		o.obs.RecordMessageDuration(ctx, time.Since(started), outcome)
	}

	return reply
}

// generate walks the response tiers in order and reports which one answered.
func (o *Orchestrator) generate(ctx context.Context, turns []history.Turn, message string) (string, string) {
	conversation := o.buildMessages(turns, message)

	result, err := o.generator.Generate(ctx, conversation, o.executor)
	if err != nil {
		o.logger.Error("generation failed", map[string]interface{}{"error": err.Error()})
		metrics.FallbacksUsed.WithLabelValues(outcomeCanned).Inc()
		return fallbackReply(message), outcomeCanned
	}

	text := result.Text
	outcome := outcomePrimary

	// When retrieval explicitly found nothing and the model stayed silent,
	// ask it once more without tools so it answers from its instructions.
	if strings.TrimSpace(text) == "" && retrievalCameUpEmpty(result.ToolTrace) {
		o.logger.Warn("retrieval empty and no answer, retrying without tools", nil)
		metrics.FallbacksUsed.WithLabelValues(outcomeDirect).Inc()

		direct, err := o.generator.Generate(ctx, conversation, nil)
		if err != nil {
			o.logger.Error("direct generation failed", map[string]interface{}{"error": err.Error()})
			metrics.FallbacksUsed.WithLabelValues(outcomeCanned).Inc()
			return fallbackReply(message), outcomeCanned
		}
		text = direct.Text
		outcome = outcomeDirect
	}

	if strings.TrimSpace(text) == "" {
		o.logger.Error("model returned empty response", nil)
		metrics.FallbacksUsed.WithLabelValues(outcomeCanned).Inc()
		return emptyReply, outcomeCanned
	}
	return text, outcome
}

// buildMessages assembles the wire conversation: system instructions, the
// newest stored turns and the current user message.
func (o *Orchestrator) buildMessages(turns []history.Turn, message string) []llm.Message {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleSystem, Content: salesPersona},
	}

	if len(turns) > o.maxTurns {
		turns = turns[len(turns)-o.maxTurns:]
	}
	for _, turn := range turns {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: turn.User},
			llm.Message{Role: llm.RoleAssistant, Content: turn.Agent},
		)
	}

	return append(messages, llm.Message{Role: llm.RoleUser, Content: message})
}

// loadHistory treats an unreachable store as an empty conversation; losing
// context degrades the answer but must not block it.
func (o *Orchestrator) loadHistory(ctx context.Context, sessionID string) []history.Turn {
	turns, err := o.history.Get(ctx, sessionID)
	if err != nil {
		o.logger.Warn("history unavailable, continuing without context", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil
	}
	return turns
}

// storeTurn is best-effort for the same reason loadHistory is.
func (o *Orchestrator) storeTurn(ctx context.Context, sessionID, userMessage, reply string) {
	turn := history.Turn{
		TurnID:    uuid.NewString(),
		User:      userMessage,
		Agent:     reply,
		Timestamp: time.Now().UTC(),
	}
	if err := o.history.Put(ctx, sessionID, turn); err != nil {
		o.logger.Warn("failed to store turn", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

func retrievalCameUpEmpty(trace []llm.ToolInvocation) bool {
	for _, invocation := range trace {
		if invocation.Name == knowledgeToolName && invocation.Result == "" {
			return true
		}
	}
	return false
}
