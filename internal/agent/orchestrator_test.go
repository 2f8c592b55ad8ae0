// internal/agent/orchestrator_test.go
package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-sales-assistant/internal/common/logger"
	"car-sales-assistant/internal/history"
	"car-sales-assistant/internal/llm"
)

// ==========================
// Test Doubles
// ==========================

// scriptedGenerator returns queued results per call, tracking whether tools
// were offered on each one.
type scriptedGenerator struct {
	results      []*llm.Result
	errs         []error
	calls        int
	toolsOffered []bool
	messages     [][]llm.Message
}

func (g *scriptedGenerator) Generate(_ context.Context, messages []llm.Message, executor llm.ToolExecutor) (*llm.Result, error) {
	idx := g.calls
	g.calls++
	g.toolsOffered = append(g.toolsOffered, executor != nil)
	g.messages = append(g.messages, messages)

	if idx < len(g.errs) && g.errs[idx] != nil {
		return nil, g.errs[idx]
	}
	if idx < len(g.results) {
		return g.results[idx], nil
	}
	return &llm.Result{Text: "respuesta genérica"}, nil
}

type noopExecutor struct{}

func (noopExecutor) Definitions() []llm.ToolDefinition { return nil }
func (noopExecutor) Execute(context.Context, string, string) (string, error) {
	return "", nil
}

func newTestOrchestrator(t *testing.T, generator llm.Generator) (*Orchestrator, history.Store) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := history.NewRedisStore(client, 10, time.Hour, logger.NewNoOpLogger())

	return New(Options{
		Generator: generator,
		Executor:  noopExecutor{},
		History:   store,
		MaxTurns:  10,
		MaxLength: 1500,
		Logger:    logger.NewNoOpLogger(),
	}), store
}

// ==========================
// Response Tier Tests
// ==========================

func TestOrchestrator_PrimaryAnswer(t *testing.T) {
	generator := &scriptedGenerator{results: []*llm.Result{{Text: "Tenemos varios autos 🚗"}}}
	orchestrator, store := newTestOrchestrator(t, generator)

	reply := orchestrator.Process(context.Background(), "s1", "qué autos tienen?")

	assert.Equal(t, "Tenemos varios autos 🚗", reply)
	assert.Equal(t, 1, generator.calls)
	assert.True(t, generator.toolsOffered[0])

	// The exchange was persisted for the next turn.
	turns, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "qué autos tienen?", turns[0].User)
	assert.Equal(t, reply, turns[0].Agent)
	assert.NotEmpty(t, turns[0].TurnID)
}

func TestOrchestrator_DirectRetryWhenRetrievalEmpty(t *testing.T) {
	generator := &scriptedGenerator{results: []*llm.Result{
		{Text: "", ToolTrace: []llm.ToolInvocation{{Name: "get_company_info", Result: ""}}},
		{Text: "Somos una plataforma de autos seminuevos 😊"},
	}}
	orchestrator, _ := newTestOrchestrator(t, generator)

	reply := orchestrator.Process(context.Background(), "s1", "qué es la empresa?")

	assert.Equal(t, "Somos una plataforma de autos seminuevos 😊", reply)
	require.Equal(t, 2, generator.calls)
	assert.True(t, generator.toolsOffered[0])
	// The retry is a plain completion so the model must answer in text.
	assert.False(t, generator.toolsOffered[1])
}

func TestOrchestrator_DirectRetryOnWhitespaceAnswer(t *testing.T) {
	// A whitespace-only answer counts as silence; a generator that does not
	// trim its output must still trigger the retry.
	generator := &scriptedGenerator{results: []*llm.Result{
		{Text: "  \n\t ", ToolTrace: []llm.ToolInvocation{{Name: "get_company_info", Result: ""}}},
		{Text: "Claro, te cuento sobre la empresa 😊"},
	}}
	orchestrator, _ := newTestOrchestrator(t, generator)

	reply := orchestrator.Process(context.Background(), "s1", "qué es la empresa?")

	assert.Equal(t, "Claro, te cuento sobre la empresa 😊", reply)
	require.Equal(t, 2, generator.calls)
	assert.False(t, generator.toolsOffered[1])
}

func TestOrchestrator_NoDirectRetryWhenRetrievalAnswered(t *testing.T) {
	generator := &scriptedGenerator{results: []*llm.Result{
		{Text: "", ToolTrace: []llm.ToolInvocation{{Name: "get_company_info", Result: "garantía de 3 meses"}}},
	}}
	orchestrator, _ := newTestOrchestrator(t, generator)

	// Retrieval found something yet the model stayed silent: that is the
	// canned empty-response tier, not the direct retry.
	reply := orchestrator.Process(context.Background(), "s1", "garantías?")

	assert.Equal(t, 1, generator.calls)
	assert.Contains(t, reply, "intenta de nuevo")
}

func TestOrchestrator_CannedFallbackOnGeneratorError(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{"greeting", "hola, buenas!", "Te puedo ayudar con"},
		{"problem report", "tengo un problema", "problemita técnico"},
		{"anything else", "quiero un auto", "presupuesto aproximado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := &scriptedGenerator{errs: []error{errors.New("model down")}}
			orchestrator, _ := newTestOrchestrator(t, generator)

			reply := orchestrator.Process(context.Background(), "s1", tt.message)

			assert.Contains(t, reply, tt.expected)
			assert.NotEmpty(t, reply)
		})
	}
}

func TestOrchestrator_CannedFallbackWhenDirectRetryFails(t *testing.T) {
	generator := &scriptedGenerator{
		results: []*llm.Result{
			{Text: "", ToolTrace: []llm.ToolInvocation{{Name: "get_company_info", Result: ""}}},
		},
		errs: []error{nil, errors.New("model down")},
	}
	orchestrator, _ := newTestOrchestrator(t, generator)

	reply := orchestrator.Process(context.Background(), "s1", "hola")

	assert.Equal(t, 2, generator.calls)
	assert.Contains(t, reply, "Te puedo ayudar con")
}

func TestOrchestrator_NeverReturnsEmpty(t *testing.T) {
	tests := []struct {
		name      string
		generator *scriptedGenerator
	}{
		{"empty text no trace", &scriptedGenerator{results: []*llm.Result{{Text: ""}}}},
		{"whitespace text", &scriptedGenerator{results: []*llm.Result{{Text: "   \n  "}}}},
		{"generator error", &scriptedGenerator{errs: []error{errors.New("boom")}}},
		{
			"empty after direct retry",
			&scriptedGenerator{results: []*llm.Result{
				{Text: "", ToolTrace: []llm.ToolInvocation{{Name: "get_company_info", Result: ""}}},
				{Text: ""},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orchestrator, _ := newTestOrchestrator(t, tt.generator)
			reply := orchestrator.Process(context.Background(), "s1", "hola")
			assert.NotEmpty(t, strings.TrimSpace(reply))
		})
	}
}

// ==========================
// History Plumbing Tests
// ==========================

func TestOrchestrator_HistoryFlowsIntoMessages(t *testing.T) {
	generator := &scriptedGenerator{results: []*llm.Result{
		{Text: "primera"},
		{Text: "segunda"},
	}}
	orchestrator, _ := newTestOrchestrator(t, generator)

	orchestrator.Process(context.Background(), "s1", "hola")
	orchestrator.Process(context.Background(), "s1", "busco un corolla")

	require.Equal(t, 2, generator.calls)
	second := generator.messages[1]

	// System prompts, the stored first turn, then the new user message.
	require.GreaterOrEqual(t, len(second), 5)
	assert.Equal(t, llm.RoleSystem, second[0].Role)
	assert.Equal(t, "hola", second[2].Content)
	assert.Equal(t, llm.RoleAssistant, second[3].Role)
	assert.Equal(t, "busco un corolla", second[len(second)-1].Content)
}

func TestOrchestrator_HistoryOutageDoesNotBlock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := history.NewRedisStore(client, 10, time.Hour, logger.NewNoOpLogger())
	mr.Close()

	generator := &scriptedGenerator{results: []*llm.Result{{Text: "sigo aquí 😊"}}}
	orchestrator := New(Options{
		Generator: generator,
		Executor:  noopExecutor{},
		History:   store,
		MaxTurns:  10,
		MaxLength: 1500,
		Logger:    logger.NewNoOpLogger(),
	})

	reply := orchestrator.Process(context.Background(), "s1", "hola")
	assert.Equal(t, "sigo aquí 😊", reply)
}

// ==========================
// Formatting Tests
// ==========================

func TestOrchestrator_TruncatesLongReplies(t *testing.T) {
	long := strings.Repeat("Tenemos muchos autos disponibles. ", 100)
	generator := &scriptedGenerator{results: []*llm.Result{{Text: long}}}
	orchestrator, _ := newTestOrchestrator(t, generator)

	reply := orchestrator.Process(context.Background(), "s1", "qué tienen?")

	assert.LessOrEqual(t, len([]rune(reply)), 1500)
	assert.Contains(t, reply, "¿Te interesa saber más detalles?")
}
