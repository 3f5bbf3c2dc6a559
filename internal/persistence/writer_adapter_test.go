// ABOUTME: Tests for WriterAdapter's idempotency rules: the
// ABOUTME: streaming-message guard and finalize-at-most-once

package persistence

import (
	"context"
	"testing"

	"github.com/pi-go/core/internal/session"
)

// newTestAdapter points the adapter at a throwaway home directory so
// session.Writer never touches the real ~/.pi-go/sessions.
func newTestAdapter(t *testing.T) *WriterAdapter {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return NewWriterAdapter()
}

func TestCreateAssistantMessage_DuplicateWithoutContentSuppressed(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	id1, err := a.CreateAssistantMessage(ctx, "conv1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id2, err := a.CreateAssistantMessage(ctx, "conv1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if id1 != id2 {
		t.Errorf("expected duplicate create without content to return the same ID, got %q and %q", id1, id2)
	}
}

func TestCreateAssistantMessage_NewAfterContentStarted(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	id1, _ := a.CreateAssistantMessage(ctx, "conv1")
	if err := a.UpdateStreamingContent(ctx, "conv1", id1, "partial"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id2, err := a.CreateAssistantMessage(ctx, "conv1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id1 == id2 {
		t.Error("expected a fresh ID once the prior message has content")
	}
}

func TestCreateAssistantMessage_NewAfterFinalize(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	id1, _ := a.CreateAssistantMessage(ctx, "conv1")
	if err := a.FinalizeMessage(ctx, "conv1", id1, "done"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id2, err := a.CreateAssistantMessage(ctx, "conv1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id1 == id2 {
		t.Error("expected a fresh ID once the prior message is finalized")
	}
}

func TestFinalizeMessage_SecondCallIsNoOp(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	id, _ := a.CreateAssistantMessage(ctx, "conv1")
	if err := a.FinalizeMessage(ctx, "conv1", id, "first text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.FinalizeMessage(ctx, "conv1", id, "second text, should be ignored"); err != nil {
		t.Fatalf("unexpected error on repeat finalize: %v", err)
	}

	records, err := session.ReadRecords("conv1")
	if err != nil {
		t.Fatalf("reading records: %v", err)
	}

	count := 0
	var last session.AssistantData
	for _, r := range records {
		if r.Type != session.RecordAssistant {
			continue
		}
		count++
		if err := r.Unmarshal(&last); err != nil {
			t.Fatalf("unmarshal assistant record: %v", err)
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 assistant record written, got %d", count)
	}
	if last.Content != "first text" {
		t.Errorf("expected the first finalize's content to win, got %q", last.Content)
	}
}

func TestAddToolMessage_WritesCallThenResult(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	err := a.AddToolMessage(ctx, "conv1", ToolMessage{
		CallID: "call-1", ToolName: "Read", ResultText: "file contents", IsError: false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := session.ReadRecords("conv1")
	if err != nil {
		t.Fatalf("reading records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (call + result), got %d", len(records))
	}
	if records[0].Type != session.RecordToolCall {
		t.Errorf("expected first record to be tool_call, got %v", records[0].Type)
	}
	if records[1].Type != session.RecordToolResult {
		t.Errorf("expected second record to be tool_result, got %v", records[1].Type)
	}
}

func TestSetErrorAndCompleteExecution_Record(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if err := a.SetError(ctx, "conv1", "boom"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.CompleteExecution(ctx, "conv1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := session.ReadRecords("conv1")
	if err != nil {
		t.Fatalf("reading records: %v", err)
	}
	if len(records) != 2 || records[0].Type != session.RecordError || records[1].Type != session.RecordComplete {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestWriterAdapter_SatisfiesInterface(t *testing.T) {
	var _ Adapter = NewWriterAdapter()
}
