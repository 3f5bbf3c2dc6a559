// ABOUTME: Adapter implementation over the JSONL session log
// ABOUTME: (internal/session.Writer) — one writer per conversation, created lazily

package persistence

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pi-go/core/internal/session"
)

// WriterAdapter implements Adapter over internal/session.Writer's
// append-only JSONL record log: every call translates directly to one
// session.Record write. Two idempotency rules are tracked in memory —
// the streaming-message guard and finalize-at-most-once.
type WriterAdapter struct {
	mu      sync.Mutex
	writers map[string]*session.Writer

	// pending maps a conversation to the msgID of its most recently
	// created assistant message, for as long as that message has
	// received no content yet. A second CreateAssistantMessage call
	// while an entry is still pending returns the same ID instead of
	// allocating a new one (the streaming-message guard).
	pending map[string]string

	// hasContent marks a msgID as having received at least one
	// UpdateStreamingContent or FinalizeMessage call.
	hasContent map[string]bool

	// finalized marks a msgID as already committed; a second
	// FinalizeMessage call for the same ID is a no-op.
	finalized map[string]bool
}

// NewWriterAdapter returns an adapter with no open writers; one is opened
// per conversation ID on first use.
func NewWriterAdapter() *WriterAdapter {
	return &WriterAdapter{
		writers:    make(map[string]*session.Writer),
		pending:    make(map[string]string),
		hasContent: make(map[string]bool),
		finalized:  make(map[string]bool),
	}
}

func (a *WriterAdapter) writerFor(conversationID string) (*session.Writer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if w, ok := a.writers[conversationID]; ok {
		return w, nil
	}
	w, err := session.NewWriter(conversationID)
	if err != nil {
		return nil, fmt.Errorf("opening writer for conversation %s: %w", conversationID, err)
	}
	a.writers[conversationID] = w
	return w, nil
}

// CreateAssistantMessage allocates a new message ID for conversationID,
// unless a previously allocated message for the same conversation is still
// awaiting its first content, in which case that ID is returned again.
func (a *WriterAdapter) CreateAssistantMessage(_ context.Context, conversationID string) (string, error) {
	if _, err := a.writerFor(conversationID); err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if id, ok := a.pending[conversationID]; ok && !a.hasContent[id] {
		return id, nil
	}

	id := uuid.NewString()
	a.pending[conversationID] = id
	a.hasContent[id] = false
	return id, nil
}

// UpdateStreamingContent marks msgID as having content, releasing the
// streaming-message guard for future CreateAssistantMessage calls on this
// conversation. It does not itself write a durable record: only the final
// text is persisted, at FinalizeMessage.
func (a *WriterAdapter) UpdateStreamingContent(_ context.Context, _, msgID, _ string) error {
	a.mu.Lock()
	a.hasContent[msgID] = true
	a.mu.Unlock()
	return nil
}

// FinalizeMessage commits the final assistant text for msgID. A second
// call for the same msgID is a no-op.
func (a *WriterAdapter) FinalizeMessage(_ context.Context, conversationID, msgID, text string) error {
	a.mu.Lock()
	if a.finalized[msgID] {
		a.mu.Unlock()
		return nil
	}
	a.finalized[msgID] = true
	a.hasContent[msgID] = true
	if a.pending[conversationID] == msgID {
		delete(a.pending, conversationID)
	}
	a.mu.Unlock()

	w, err := a.writerFor(conversationID)
	if err != nil {
		return err
	}
	return w.WriteRecord(session.RecordAssistant, session.AssistantData{Content: text})
}

// AddToolMessage records a tool_call record immediately followed by its
// tool_result record.
func (a *WriterAdapter) AddToolMessage(_ context.Context, conversationID string, msg ToolMessage) error {
	w, err := a.writerFor(conversationID)
	if err != nil {
		return err
	}
	if err := w.WriteRecord(session.RecordToolCall, session.ToolCallData{
		ID: msg.CallID, Name: msg.ToolName, Input: msg.Input,
	}); err != nil {
		return fmt.Errorf("writing tool_call: %w", err)
	}
	if err := w.WriteRecord(session.RecordToolResult, session.ToolResultData{
		ID: msg.CallID, ResultText: msg.ResultText, IsError: msg.IsError,
	}); err != nil {
		return fmt.Errorf("writing tool_result: %w", err)
	}
	return nil
}

// AddAttachment records an attachment produced while assembling msgID.
func (a *WriterAdapter) AddAttachment(_ context.Context, conversationID, msgID string, att Attachment) error {
	w, err := a.writerFor(conversationID)
	if err != nil {
		return err
	}
	return w.WriteRecord(session.RecordAttachment, session.AttachmentData{
		MessageID: msgID, MediaType: att.MediaType, Data: att.Data, Filename: att.Filename,
	})
}

// UpdateUsage records a running cost/token-usage snapshot.
func (a *WriterAdapter) UpdateUsage(_ context.Context, conversationID string, cost float64, inputTokens, outputTokens int, contextPct float64) error {
	w, err := a.writerFor(conversationID)
	if err != nil {
		return err
	}
	return w.WriteRecord(session.RecordUsageUpdate, session.UsageUpdateData{
		Cost: cost, InputTokens: inputTokens, OutputTokens: outputTokens, ContextPct: contextPct,
	})
}

// SetServerStatus records a transient status label.
func (a *WriterAdapter) SetServerStatus(_ context.Context, conversationID, label string) error {
	w, err := a.writerFor(conversationID)
	if err != nil {
		return err
	}
	return w.WriteRecord(session.RecordServerStatus, session.ServerStatusData{Label: label})
}

// CompleteExecution marks the conversation's current turn as finished.
func (a *WriterAdapter) CompleteExecution(_ context.Context, conversationID string) error {
	w, err := a.writerFor(conversationID)
	if err != nil {
		return err
	}
	return w.WriteRecord(session.RecordComplete, session.CompleteExecutionData{})
}

// SetError records a conversation-level error.
func (a *WriterAdapter) SetError(_ context.Context, conversationID, text string) error {
	w, err := a.writerFor(conversationID)
	if err != nil {
		return err
	}
	return w.WriteRecord(session.RecordError, session.ErrorData{Text: text})
}

// Close closes every writer the adapter has opened. Callers should invoke
// it when the process is shutting down or a conversation is known to be
// fully done; WriterAdapter itself has no lifecycle hook to call it from.
func (a *WriterAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var firstErr error
	for id, w := range a.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing writer for conversation %s: %w", id, err)
		}
	}
	return firstErr
}

var _ Adapter = (*WriterAdapter)(nil)
