// Package errors provides standardized error handling for the assistant pipeline.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Catalog errors. A missing or corrupt catalog source invalidates every
	// subsequent resolution, so it is fatal at startup, never swallowed.
	ErrCodeCatalogLoadFailed ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCatalogCorrupt    ErrorCode = "CATALOG_CORRUPT"

	// Collaborator errors. These are transient: the orchestrator converts
	// them into a canned response, they never reach the transport.
	ErrCodeModelTimeout         ErrorCode = "MODEL_TIMEOUT"
	ErrCodeModelCallFailed      ErrorCode = "MODEL_CALL_FAILED"
	ErrCodeKnowledgeUnavailable ErrorCode = "KNOWLEDGE_UNAVAILABLE"
	ErrCodeHistoryUnavailable   ErrorCode = "HISTORY_UNAVAILABLE"

	ErrCodeInvalidToolArguments ErrorCode = "INVALID_TOOL_ARGUMENTS"
	ErrCodeUnknownTool          ErrorCode = "UNKNOWN_TOOL"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewCatalogLoadError creates a fatal catalog load error.
func NewCatalogLoadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Catalog source missing or unreadable",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelCallError creates a retryable model gateway error.
func NewModelCallError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelCallFailed,
		Message:   "Model gateway call failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewKnowledgeUnavailableError creates a retryable knowledge gateway error.
// An empty result set is NOT an error; this covers unreachable/erroring stores.
func NewKnowledgeUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeKnowledgeUnavailable,
		Message:   "Knowledge store unreachable",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewHistoryUnavailableError creates a retryable history gateway error.
func NewHistoryUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeHistoryUnavailable,
		Message:   "Conversation history store unreachable",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
