// ABOUTME: Tests for error classification: kind assignment, recoverability, counters

package errclass

import (
	"errors"
	"strings"
	"testing"
)

func TestClassifyStreamError_UnknownTool(t *testing.T) {
	t.Parallel()
	c := ClassifyStreamError(errors.New("unknown tool: frobnicate"), []string{"read", "write"})
	if c.Kind != KindToolValidation {
		t.Errorf("expected KindToolValidation, got %s", c.Kind)
	}
	if !c.Kind.Recoverable() {
		t.Error("expected tool-validation to be recoverable")
	}
}

func TestClassifyStreamError_SchemaViolation(t *testing.T) {
	t.Parallel()
	c := ClassifyStreamError(errors.New("input schema validation failed: required field missing"), nil)
	if c.Kind != KindToolValidation {
		t.Errorf("expected KindToolValidation, got %s", c.Kind)
	}
}

func TestClassifyStreamError_RetryableDelta(t *testing.T) {
	t.Parallel()
	c := ClassifyStreamError(errors.New("malformed delta: content_block id missing"), nil)
	if c.Kind != KindStreamRetryable {
		t.Errorf("expected KindStreamRetryable, got %s", c.Kind)
	}
	if !c.Kind.Recoverable() {
		t.Error("expected stream-retryable to be recoverable")
	}
}

func TestClassifyStreamError_FatalByDefault(t *testing.T) {
	t.Parallel()
	c := ClassifyStreamError(errors.New("connection reset by peer"), nil)
	if c.Kind != KindStreamFatal {
		t.Errorf("expected KindStreamFatal, got %s", c.Kind)
	}
	if c.Kind.Recoverable() {
		t.Error("expected stream-fatal to not be recoverable")
	}
}

func TestClassified_ErrorFormatsFatalKindsWithStableMessage(t *testing.T) {
	t.Parallel()
	c := Classified{Kind: KindStreamFatal, Err: errors.New("boom")}
	got := c.Error()
	want := "Unexpected error in agent loop (stream-fatal): boom"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClassified_ErrorPassesThroughRecoverableKinds(t *testing.T) {
	t.Parallel()
	c := Classified{Kind: KindToolValidation, Err: errors.New("boom")}
	if c.Error() != "boom" {
		t.Errorf("expected recoverable kind to pass through plain message, got %q", c.Error())
	}
}

func TestToolErrorCounter_ResetsOnSuccess(t *testing.T) {
	t.Parallel()
	var c ToolErrorCounter
	c.RecordResult(true)
	c.RecordResult(true)
	c.RecordResult(true)
	if !c.ExceedsThreshold() {
		t.Fatalf("expected threshold exceeded after 3 errors, count=%d", c.Count())
	}
	c.RecordResult(false)
	if c.Count() != 0 {
		t.Errorf("expected counter reset on success, got %d", c.Count())
	}
	if c.ExceedsThreshold() {
		t.Error("expected threshold not exceeded after reset")
	}
}

func TestConsecutiveErrorGuidance_ListsTools(t *testing.T) {
	t.Parallel()
	msg := ConsecutiveErrorGuidance(3, []string{"read", "write"})
	if !strings.Contains(msg, "3") || !strings.Contains(msg, "read") || !strings.Contains(msg, "write") {
		t.Errorf("guidance missing expected content: %q", msg)
	}
}

func TestUnknownFinishReason_IsFatal(t *testing.T) {
	t.Parallel()
	c := UnknownFinishReason("unknown")
	if c.Kind != KindUnknownFinishReason {
		t.Errorf("expected KindUnknownFinishReason, got %s", c.Kind)
	}
	if c.Kind.Recoverable() {
		t.Error("expected unknown-finish-reason to not be recoverable")
	}
}

func TestLoopError_WrapsWithKind(t *testing.T) {
	t.Parallel()
	err := LoopError(KindStreamFatal, errors.New("panic: x"))
	var c Classified
	if !errors.As(err, &c) {
		t.Fatalf("expected errors.As to unwrap to Classified")
	}
	if c.Kind != KindStreamFatal {
		t.Errorf("expected KindStreamFatal, got %s", c.Kind)
	}
}
