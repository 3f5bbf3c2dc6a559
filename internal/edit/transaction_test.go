// ABOUTME: Tests for multi-edit transactions: sequential application, precondition
// ABOUTME: enforcement, and abort-with-suggestions on a failed edit

package edit

import "testing"

func TestApplyTransaction_SequentialEdits(t *testing.T) {
	t.Parallel()

	content := "alpha\nbeta\ngamma\n"
	edits := []Edit{
		{Old: "alpha", New: "ALPHA"},
		{Old: "gamma", New: "GAMMA"},
	}

	result, txErr := ApplyTransaction(content, edits)
	if txErr != nil {
		t.Fatalf("unexpected error: %v", txErr)
	}
	if result != "ALPHA\nbeta\nGAMMA\n" {
		t.Errorf("unexpected result: %q", result)
	}
}

func TestApplyTransaction_EmptyListRejected(t *testing.T) {
	t.Parallel()

	_, txErr := ApplyTransaction("content", nil)
	if txErr == nil {
		t.Fatal("expected error for empty edit list")
	}
	if txErr.FailedIndex != -1 {
		t.Errorf("expected FailedIndex -1 for a precondition violation, got %d", txErr.FailedIndex)
	}
}

func TestApplyTransaction_TooManyEditsRejected(t *testing.T) {
	t.Parallel()

	edits := make([]Edit, maxEditsPerTransaction+1)
	for i := range edits {
		edits[i] = Edit{Old: "x", New: "y"}
	}

	_, txErr := ApplyTransaction("content", edits)
	if txErr == nil {
		t.Fatal("expected error for too many edits")
	}
}

func TestApplyTransaction_DuplicateOldStringRejected(t *testing.T) {
	t.Parallel()

	edits := []Edit{
		{Old: "same", New: "a"},
		{Old: "same", New: "b"},
	}

	_, txErr := ApplyTransaction("content with same text", edits)
	if txErr == nil {
		t.Fatal("expected error for duplicate old_string")
	}
}

func TestApplyTransaction_NoOpEditRejected(t *testing.T) {
	t.Parallel()

	edits := []Edit{{Old: "same", New: "same"}}
	_, txErr := ApplyTransaction("content with same text", edits)
	if txErr == nil {
		t.Fatal("expected error when old_string equals new_string")
	}
}

func TestApplyTransaction_AbortsAndReturnsOriginalOnFailure(t *testing.T) {
	t.Parallel()

	content := "alpha\nbeta\ngamma\n"
	edits := []Edit{
		{Old: "alpha", New: "ALPHA"},
		{Old: "nonexistent text", New: "x"},
	}

	result, txErr := ApplyTransaction(content, edits)
	if txErr == nil {
		t.Fatal("expected error for the second edit's failed match")
	}
	if txErr.FailedIndex != 1 {
		t.Errorf("expected FailedIndex 1, got %d", txErr.FailedIndex)
	}
	if result != content {
		t.Errorf("expected original content returned unchanged on abort, got %q", result)
	}
}

func TestApplyTransaction_SuggestionsOnFailure(t *testing.T) {
	t.Parallel()

	content := "func readFile() {}\nfunc writeFile() {}\n"
	edits := []Edit{{Old: "func radFile() {}", New: "x"}} // typo, missing 'e'

	_, txErr := ApplyTransaction(content, edits)
	if txErr == nil {
		t.Fatal("expected error for unmatched old_string")
	}
	if len(txErr.Suggestions) == 0 {
		t.Error("expected at least one fuzzy-match suggestion")
	}
}
