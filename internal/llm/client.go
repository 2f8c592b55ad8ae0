// internal/llm/client.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"car-sales-assistant/internal/common/config"
	"car-sales-assistant/internal/common/logger"
	"car-sales-assistant/internal/common/metrics"
)

var (
	ErrModelTimeout    = errors.New("MODEL_TIMEOUT")
	ErrModelCallFailed = errors.New("MODEL_CALL_FAILED")
)

// ToolExecutor runs model-requested tool calls. Definitions are advertised
// to the model; Execute runs one call and returns its string result.
type ToolExecutor interface {
	Definitions() []ToolDefinition
	Execute(ctx context.Context, name, arguments string) (string, error)
}

// Generator produces one assistant answer for a message sequence, running
// tool calls through executor when the model requests them. A nil executor
// disables tools for the whole generation.
type Generator interface {
	Generate(ctx context.Context, messages []Message, executor ToolExecutor) (*Result, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	config config.OpenAIConfig
	// MaxToolRounds bounds how many times one generation may loop through
	// tool execution before the model is forced to answer in plain text.
	maxToolRounds int
	client        *http.Client
	logger        logger.Logger
}

func NewClient(cfg config.OpenAIConfig, maxToolRounds int, log logger.Logger) *Client {
	return &Client{
		config:        cfg,
		maxToolRounds: maxToolRounds,
		// No client timeout; the per-call context carries the deadline.
		client: &http.Client{},
		logger: log.WithFields(map[string]interface{}{"component": "llm"}),
	}
}

// Generate runs the tool-augmented completion loop. Each round the model
// either answers in text (done) or requests tool calls, which are executed
// and fed back. After maxToolRounds the loop makes one last call with no
// tools advertised, so the model cannot stall requesting more.
func (c *Client) Generate(ctx context.Context, messages []Message, executor ToolExecutor) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.TimeoutDuration())
	defer cancel()

	conversation := make([]Message, len(messages))
	copy(conversation, messages)

	var tools []ToolDefinition
	if executor != nil {
		tools = executor.Definitions()
	}

	result := &Result{}
	for round := 0; ; round++ {
		advertised := tools
		if round >= c.maxToolRounds {
			advertised = nil
		}

		reply, err := c.chatOnce(ctx, conversation, advertised)
		if err != nil {
			return nil, err
		}

		if len(reply.ToolCalls) == 0 || executor == nil {
			result.Text = strings.TrimSpace(reply.Content)
			return result, nil
		}

		conversation = append(conversation, *reply)
		for _, call := range reply.ToolCalls {
			invocation := c.runTool(ctx, executor, call)
			result.ToolTrace = append(result.ToolTrace, invocation)
			conversation = append(conversation, Message{
				Role:       RoleTool,
				Content:    invocation.Result,
				ToolCallID: call.ID,
			})
		}
	}
}

func (c *Client) runTool(ctx context.Context, executor ToolExecutor, call ToolCall) ToolInvocation {
	invocation := ToolInvocation{
		Name:      call.Function.Name,
		Arguments: call.Function.Arguments,
	}

	output, err := executor.Execute(ctx, call.Function.Name, call.Function.Arguments)
	if err != nil {
		// Tool failures flow back to the model as text so it can recover;
		// they never abort the generation.
		c.logger.Warn("tool call failed", map[string]interface{}{
			"tool":  call.Function.Name,
			"error": err.Error(),
		})
		metrics.ToolInvocations.WithLabelValues(call.Function.Name, "error").Inc()
		invocation.Result = fmt.Sprintf("Error: %v", err)
		invocation.Failed = true
		return invocation
	}

	metrics.ToolInvocations.WithLabelValues(call.Function.Name, "ok").Inc()
	invocation.Result = output
	return invocation
}

// chatOnce performs a single chat completions call with retries and
// exponential backoff.
func (c *Client) chatOnce(ctx context.Context, messages []Message, tools []ToolDefinition) (*Message, error) {
	request := chatRequest{
		Model:       c.config.Model,
		Messages:    messages,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	}
	for _, tool := range tools {
		request.Tools = append(request.Tools, chatTool{Type: "function", Function: tool})
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrModelCallFailed, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrModelTimeout
			}
		}

		reply, err := c.doRequest(ctx, body)
		if err == nil {
			return reply, nil
		}
		if ctx.Err() != nil {
			return nil, ErrModelTimeout
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrModelCallFailed, lastErr)
}

func (c *Client) doRequest(ctx context.Context, body []byte) (*Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return nil, fmt.Errorf("status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("empty choices")
	}

	return &parsed.Choices[0].Message, nil
}
