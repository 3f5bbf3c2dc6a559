// ABOUTME: Pending-edit review protocol: per-conversation auto-approve setting,
// ABOUTME: single-shot approve/reject/allow-all resolution, and a change log

package edit

import (
	"sync"
)

// ChangeLogEntry records one committed edit for a conversation.
type ChangeLogEntry struct {
	ConversationID string
	FilePath       string
	Operation      string
	Original       string
	Final          string
}

// Review is a single pending edit awaiting approve/reject/allow-all.
// Exactly one resolution call has effect; later calls are no-ops.
type Review struct {
	ID             string
	ConversationID string
	FilePath       string
	Operation      string
	Original       string
	Final          string

	commit func() error
}

// Reviewer tracks per-conversation auto-approve state, the table of
// currently pending reviews, and the conversation change log, so a caller
// can require explicit approval of a file edit before it commits.
type Reviewer struct {
	mu          sync.Mutex
	autoApprove map[string]bool
	pending     map[string]*Review
	changeLog   []ChangeLogEntry
}

// NewReviewer creates an empty review table.
func NewReviewer() *Reviewer {
	return &Reviewer{
		autoApprove: make(map[string]bool),
		pending:     make(map[string]*Review),
	}
}

// AutoApprove reports whether conversationID has opted into auto-approval.
func (r *Reviewer) AutoApprove(conversationID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.autoApprove[conversationID]
}

// Submit records a pending edit keyed by id (the tool-call ID that produced
// it). If the conversation has auto-approve enabled, commit runs
// immediately, the change is logged, and (nil, true, err) is returned.
// Otherwise a Review is stored in the pending table awaiting Approve,
// AllowAll, or Reject, and (review, false, nil) is returned.
func (r *Reviewer) Submit(id, conversationID, filePath, operation, original, final string, commit func() error) (*Review, bool, error) {
	r.mu.Lock()
	auto := r.autoApprove[conversationID]
	r.mu.Unlock()

	if auto {
		if err := commit(); err != nil {
			return nil, false, err
		}
		r.logChange(conversationID, filePath, operation, original, final)
		return nil, true, nil
	}

	rev := &Review{
		ID: id, ConversationID: conversationID, FilePath: filePath,
		Operation: operation, Original: original, Final: final, commit: commit,
	}

	r.mu.Lock()
	r.pending[id] = rev
	r.mu.Unlock()

	return rev, false, nil
}

// Approve commits the pending edit and records the change. A second call
// for the same id (already resolved) is a no-op and returns nil.
func (r *Reviewer) Approve(id string) error {
	rev, ok := r.takePending(id)
	if !ok {
		return nil
	}
	if err := rev.commit(); err != nil {
		return err
	}
	r.logChange(rev.ConversationID, rev.FilePath, rev.Operation, rev.Original, rev.Final)
	return nil
}

// AllowAll commits the pending edit exactly as Approve does, and in
// addition flips the conversation's setting to auto-approve future edits.
func (r *Reviewer) AllowAll(id string) error {
	rev, ok := r.takePending(id)
	if !ok {
		return nil
	}

	r.mu.Lock()
	r.autoApprove[rev.ConversationID] = true
	r.mu.Unlock()

	if err := rev.commit(); err != nil {
		return err
	}
	r.logChange(rev.ConversationID, rev.FilePath, rev.Operation, rev.Original, rev.Final)
	return nil
}

// Reject discards the pending edit without committing it and returns the
// feedback verbatim, to be surfaced to the agent as the tool's output. The
// second return is false when id names no (or an already-resolved) review.
func (r *Reviewer) Reject(id, feedback string) (string, bool) {
	_, ok := r.takePending(id)
	if !ok {
		return "", false
	}
	return feedback, true
}

// takePending removes and returns the pending review for id, enforcing
// single-shot resolution: the first caller to reach here wins.
func (r *Reviewer) takePending(id string) (*Review, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.pending[id]
	if !ok {
		return nil, false
	}
	delete(r.pending, id)
	return rev, true
}

// logChange appends a committed edit to the conversation change log.
func (r *Reviewer) logChange(conversationID, filePath, operation, original, final string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changeLog = append(r.changeLog, ChangeLogEntry{
		ConversationID: conversationID,
		FilePath:       filePath,
		Operation:      operation,
		Original:       original,
		Final:          final,
	})
}

// ChangeLog returns a copy of the entries recorded for conversationID, in
// commit order.
func (r *Reviewer) ChangeLog(conversationID string) []ChangeLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ChangeLogEntry, 0, len(r.changeLog))
	for _, e := range r.changeLog {
		if e.ConversationID == conversationID {
			out = append(out, e)
		}
	}
	return out
}

// PendingCount reports how many reviews are currently awaiting resolution,
// for diagnostics.
func (r *Reviewer) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
