// ABOUTME: Thin persistence contract between the agent loop and durable
// ABOUTME: storage; the loop depends only on this interface, never on a store

package persistence

import (
	"context"
	"encoding/json"
)

// Attachment is binary content produced during a conversation turn (a
// screenshot, a generated file) to be recorded against an assistant
// message.
type Attachment struct {
	MediaType string
	Data      string // base64
	Filename  string
}

// ToolMessage is a tool_call/tool_result pair to be recorded as a unit.
type ToolMessage struct {
	CallID     string
	ToolName   string
	Input      json.RawMessage
	ResultText string
	IsError    bool
}

// Adapter is the persistence contract the agent loop depends on. The core
// never reaches into a store directly; every durability concern — message
// creation, streaming updates, finalization, usage accounting, status,
// completion, error reporting — goes through these nine operations.
// Implementations are free to discard, log, or durably persist; the loop's
// only obligations are the idempotency rules documented on each method.
type Adapter interface {
	// CreateAssistantMessage allocates a new assistant message for
	// conversationID and returns its ID. Implementations must suppress a
	// second allocation for the same streaming turn: see the
	// streaming-message guard on WriterAdapter.
	CreateAssistantMessage(ctx context.Context, conversationID string) (string, error)

	// UpdateStreamingContent records the in-progress text for msgID as it
	// streams. May be called any number of times before FinalizeMessage.
	UpdateStreamingContent(ctx context.Context, conversationID, msgID, text string) error

	// FinalizeMessage commits the final text for msgID. At most one call
	// per msgID has effect; later calls are no-ops.
	FinalizeMessage(ctx context.Context, conversationID, msgID, text string) error

	// AddToolMessage records a completed tool call/result pair.
	AddToolMessage(ctx context.Context, conversationID string, msg ToolMessage) error

	// AddAttachment records binary content produced while assembling msgID.
	AddAttachment(ctx context.Context, conversationID, msgID string, att Attachment) error

	// UpdateUsage records a running cost/token-usage snapshot.
	UpdateUsage(ctx context.Context, conversationID string, cost float64, inputTokens, outputTokens int, contextPct float64) error

	// SetServerStatus records a transient status label for display.
	SetServerStatus(ctx context.Context, conversationID, label string) error

	// CompleteExecution marks the conversation's current turn as finished.
	CompleteExecution(ctx context.Context, conversationID string) error

	// SetError records a conversation-level error.
	SetError(ctx context.Context, conversationID, text string) error
}
