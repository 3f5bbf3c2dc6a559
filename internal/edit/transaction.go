// ABOUTME: Multi-edit transactions: sequential application with an abort-on-failure
// ABOUTME: guarantee and fuzzy-match suggestions naming the closest surviving candidates

package edit

import (
	"fmt"
	"strings"

	"github.com/pi-go/core/pkg/tui/fuzzy"
)

// maxEditsPerTransaction bounds a single transaction, per spec §4.F.
const maxEditsPerTransaction = 10

// suggestionCount is the number of fuzzy-match candidates surfaced on failure.
const suggestionCount = 3

// Edit is one old/new replacement within a transaction.
type Edit struct {
	Old         string
	New         string
	Description string
}

// TransactionError describes why a transaction aborted. Err names the
// underlying cause (precondition violation, or the failed edit's own
// SmartMatch error); FailedIndex is -1 for precondition violations that
// aren't attributable to a single edit.
type TransactionError struct {
	FailedIndex int
	FailedEdit  Edit
	Suggestions []string
	Err         error
}

func (e *TransactionError) Error() string {
	if e.FailedIndex < 0 {
		return fmt.Sprintf("edit transaction rejected: %v", e.Err)
	}
	return fmt.Sprintf("edit %d failed: %v", e.FailedIndex, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// validatePreconditions checks the transaction-level invariants before any
// edit runs: a non-empty, bounded edit list; no blank or duplicate old
// strings; no edit that's a no-op.
func validatePreconditions(edits []Edit) error {
	if len(edits) == 0 {
		return fmt.Errorf("edit list is empty")
	}
	if len(edits) > maxEditsPerTransaction {
		return fmt.Errorf("edit list has %d edits, exceeds the limit of %d", len(edits), maxEditsPerTransaction)
	}

	seen := make(map[string]bool, len(edits))
	for i, e := range edits {
		if strings.TrimSpace(e.Old) == "" {
			return fmt.Errorf("edit %d: old_string is empty", i)
		}
		if e.Old == e.New {
			return fmt.Errorf("edit %d: old_string and new_string are identical", i)
		}
		if seen[e.Old] {
			return fmt.Errorf("edit %d: old_string duplicates an earlier edit in this transaction", i)
		}
		seen[e.Old] = true
	}
	return nil
}

// ApplyTransaction applies edits sequentially to content, each against the
// working copy produced by the previous edit. If any edit fails to resolve
// a unique region, the entire transaction aborts and the original content
// is returned unchanged alongside a TransactionError naming the failed edit
// and up to suggestionCount fuzzy-match candidates for its old_string.
func ApplyTransaction(content string, edits []Edit) (string, *TransactionError) {
	if err := validatePreconditions(edits); err != nil {
		return content, &TransactionError{FailedIndex: -1, Err: err}
	}

	working := content
	for i, e := range edits {
		result, _, err := Apply(working, e.Old, e.New, false)
		if err != nil {
			return content, &TransactionError{
				FailedIndex: i,
				FailedEdit:  e,
				Suggestions: fuzzySuggestions(working, e.Old),
				Err:         err,
			}
		}
		working = result.Content
	}

	return working, nil
}

// fuzzySuggestions scores each line of content against the failed
// old_string's first line and returns up to suggestionCount closest lines,
// best match first.
func fuzzySuggestions(content, oldString string) []string {
	return Suggestions(content, oldString, suggestionCount)
}

// Suggestions scores each line of content against query's first line and
// returns up to n closest lines, best match first. Used both by
// ApplyTransaction's abort path and by single-edit tools surfacing a
// file-edit-match-fail payload.
func Suggestions(content, query string, n int) []string {
	firstLine := strings.SplitN(query, "\n", 2)[0]
	if strings.TrimSpace(firstLine) == "" {
		return nil
	}

	lines := strings.Split(content, "\n")
	matches := fuzzy.Find(firstLine, lines)

	count := len(matches)
	if count > n {
		count = n
	}

	out := make([]string, count)
	for i := 0; i < count; i++ {
		out[i] = matches[i].Str
	}
	return out
}
