// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_messages_processed_total",
			Help: "Total number of inbound messages processed",
		},
		[]string{"outcome"},
	)

	FallbacksUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_fallbacks_total",
			Help: "Total number of fallback responses by tier",
		},
		[]string{"tier"},
	)

	ToolInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_tool_invocations_total",
			Help: "Total number of tool invocations by the model",
		},
		[]string{"tool", "status"},
	)

	MessageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_message_duration_seconds",
			Help: "Duration of end-to-end message processing in seconds",
		},
		[]string{"outcome"},
	)
)
