// ABOUTME: Error classifier for the agent loop: taxonomy and recovery decisions
// ABOUTME: Replaces ad hoc fmt.Errorf wrapping with named, retry-aware kinds

package errclass

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind names one bucket of the error taxonomy. Kinds, not Go types: a
// classifier inspects an arbitrary error/event and assigns one.
type Kind int

const (
	KindToolValidation Kind = iota
	KindToolExecution
	KindStreamRetryable
	KindStreamFatal
	KindModelUnavailable
	KindUnknownFinishReason
	KindIterationCap
	KindCancelled
	KindFileEditMatchFail
	KindPathSecurityViolation
	KindCompressionFailure
)

// String returns the taxonomy name used in stabilized error messages.
func (k Kind) String() string {
	switch k {
	case KindToolValidation:
		return "tool-validation"
	case KindToolExecution:
		return "tool-execution"
	case KindStreamRetryable:
		return "stream-retryable"
	case KindStreamFatal:
		return "stream-fatal"
	case KindModelUnavailable:
		return "model-unavailable"
	case KindUnknownFinishReason:
		return "unknown-finish-reason"
	case KindIterationCap:
		return "iteration-cap"
	case KindCancelled:
		return "cancelled"
	case KindFileEditMatchFail:
		return "file-edit-match-fail"
	case KindPathSecurityViolation:
		return "path-security-violation"
	case KindCompressionFailure:
		return "compression-failure"
	default:
		return "unknown"
	}
}

// Recoverable reports whether the kind can be handled without aborting the
// loop. Fatal kinds (stream-fatal, model-unavailable, unknown-finish-reason)
// escape through a single rejection of the loop's completion.
func (k Kind) Recoverable() bool {
	switch k {
	case KindStreamFatal, KindModelUnavailable, KindUnknownFinishReason:
		return false
	default:
		return true
	}
}

// Classified pairs a raw error with its assigned kind.
type Classified struct {
	Kind Kind
	Err  error
}

// Error implements error, returning the stabilized message format for
// fatal kinds and the plain underlying message otherwise.
func (c Classified) Error() string {
	if !c.Kind.Recoverable() {
		return fmt.Sprintf("Unexpected error in agent loop (%s): %s", c.Kind, c.Err)
	}
	return c.Err.Error()
}

func (c Classified) Unwrap() error { return c.Err }

// malformedDeltaPattern matches a known provider quirk: a streamed delta
// event missing its content-block id, which is recoverable by resetting
// stream state and retrying the same iteration.
var malformedDeltaPattern = regexp.MustCompile(`(?i)missing (content[_ ]block )?id|delta.*\bid\b.*missing`)

// ClassifyStreamError assigns a kind to an error surfaced by the stream's
// error event. availableTools lists the active tool-set names, used to
// detect a tool-validation failure when the error text names an unknown
// tool.
func ClassifyStreamError(err error, availableTools []string) Classified {
	if err == nil {
		return Classified{Kind: KindStreamFatal, Err: fmt.Errorf("nil error classified as fatal")}
	}

	msg := err.Error()

	if isUnknownToolError(msg, availableTools) || isSchemaViolation(msg) {
		return Classified{Kind: KindToolValidation, Err: err}
	}

	if malformedDeltaPattern.MatchString(msg) {
		return Classified{Kind: KindStreamRetryable, Err: err}
	}

	return Classified{Kind: KindStreamFatal, Err: err}
}

func isUnknownToolError(msg string, availableTools []string) bool {
	lower := strings.ToLower(msg)
	if !strings.Contains(lower, "unknown tool") && !strings.Contains(lower, "tool not found") && !strings.Contains(lower, "unavailable tool") {
		return false
	}
	return true
}

func isSchemaViolation(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "schema") && (strings.Contains(lower, "invalid") || strings.Contains(lower, "violat") || strings.Contains(lower, "required"))
}

// GuidanceMessage builds the structured guidance text appended after a
// tool-validation error, listing the tools the model is actually allowed
// to call.
func GuidanceMessage(availableTools []string) string {
	return fmt.Sprintf("The requested tool call is not valid. Available tools: %s", strings.Join(availableTools, ", "))
}

// ConsecutiveToolErrorThreshold is the default count of consecutive tool
// errors after which the next iteration's guidance is augmented.
const ConsecutiveToolErrorThreshold = 3

// ConsecutiveErrorGuidance builds the augmented guidance message once the
// consecutive tool-error counter crosses the threshold.
func ConsecutiveErrorGuidance(count int, availableTools []string) string {
	return fmt.Sprintf("Too many consecutive tool errors (%d). Available tools: %s", count, strings.Join(availableTools, ", "))
}

// ToolErrorCounter tracks consecutive tool-execution failures across
// iterations of one agent loop. It resets on any successful tool result.
type ToolErrorCounter struct {
	count int
}

// RecordResult updates the counter given whether the most recent tool
// result was an error, returning the counter's new value.
func (c *ToolErrorCounter) RecordResult(isError bool) int {
	if isError {
		c.count++
	} else {
		c.count = 0
	}
	return c.count
}

// Count returns the current consecutive-error count.
func (c *ToolErrorCounter) Count() int { return c.count }

// ExceedsThreshold reports whether the counter has crossed
// ConsecutiveToolErrorThreshold.
func (c *ToolErrorCounter) ExceedsThreshold() bool {
	return c.count >= ConsecutiveToolErrorThreshold
}

// LoopError wraps an error escaping an iteration body as a fatal,
// classified loop error carrying its Kind.
func LoopError(kind Kind, err error) error {
	return Classified{Kind: kind, Err: err}
}

// UnknownFinishReason classifies a provider finish-reason of "unknown"
// with no tool calls produced in the iteration — always fatal, since no
// productive progress is possible.
func UnknownFinishReason(finishReason string) Classified {
	return Classified{Kind: KindUnknownFinishReason, Err: fmt.Errorf("provider reported finish reason %q with no tool calls", finishReason)}
}
