// ABOUTME: Shared tool types decoupled from the agent package
// ABOUTME: Breaks the agent → schedule/edit circular dependency via a common types package

package types

import (
	"context"
	"encoding/json"
	"time"
)

// ImageBlock carries image data through the tool result pipeline.
// Not serialized to JSON; used only for in-process rendering.
type ImageBlock struct {
	Data     []byte // Raw image bytes
	MimeType string // e.g. "image/png"
	Filename string
}

// ToolResult holds the outcome of a single tool execution.
type ToolResult struct {
	Content  string
	IsError  bool
	Duration time.Duration
	Images   []ImageBlock `json:"-"` // In-process only; not serialized
}

// ToolUpdate carries incremental output from a running tool.
type ToolUpdate struct {
	Output string
}

// ConcurrencyClass categorizes a tool for the dependency scheduler.
// It mirrors the four classes named in the execution-plan design: a tool
// either only ever reads, or mutates a single target file (write/edit,
// which share conflict rules), or falls into the OTHER bucket which is
// further split by whether concurrent execution is safe.
type ConcurrencyClass int

const (
	// ClassRead never mutates anything and is always safe to parallelize
	// with any other READ call, regardless of target.
	ClassRead ConcurrencyClass = iota
	// ClassWrite creates or overwrites a file. Parallelizable with other
	// WRITE/EDIT calls only when their target files are distinct.
	ClassWrite
	// ClassEdit modifies a file in place. Shares conflict rules with ClassWrite.
	ClassEdit
	// ClassOtherParallel is an I/O-bound tool (web search, web fetch) that
	// tolerates running alongside other OTHER-parallel calls.
	ClassOtherParallel
	// ClassOtherSerial is a state-mutating tool (shell, sub-agent, todo
	// writer) that must run alone, one call per phase.
	ClassOtherSerial
)

// String returns a lowercase label for the class, used in plan diagnostics.
func (c ConcurrencyClass) String() string {
	switch c {
	case ClassRead:
		return "read"
	case ClassWrite:
		return "write"
	case ClassEdit:
		return "edit"
	case ClassOtherParallel:
		return "other-parallel"
	case ClassOtherSerial:
		return "other-serial"
	default:
		return "unknown"
	}
}

// IsFileMutator reports whether the class is subject to target-file
// conflict packing (the WRITE/EDIT rule in the scheduler).
func (c ConcurrencyClass) IsFileMutator() bool {
	return c == ClassWrite || c == ClassEdit
}

// TargetFileFunc extracts the absolute path a tool call would read or
// mutate from its input parameters. It returns ok=false when the tool has
// no single identifiable target (e.g. a grep across a directory tree),
// which forces the scheduler to treat the call as conflicting with every
// other file-mutator in its group.
type TargetFileFunc func(params map[string]any) (path string, ok bool)

// AgentTool defines a tool that the agent can invoke during its loop.
type AgentTool struct {
	Name        string
	Label       string
	Description string
	Parameters  json.RawMessage
	Class       ConcurrencyClass
	TargetFile  TargetFileFunc // nil means "no single target" for every call
	Hidden      bool           // excluded from the model-visible tool list but still invocable
	Execute     func(ctx context.Context, id string, params map[string]any, onUpdate func(ToolUpdate)) (ToolResult, error)
}

// ReadOnly reports whether the tool's concurrency class never mutates
// state. Kept as a convenience predicate for callers that only care about
// the read/write distinction (permission gating, plan-mode filtering).
func (t *AgentTool) ReadOnly() bool {
	return t.Class == ClassRead
}

// Target resolves the tool's target file for a given call, or ("", false)
// if the tool declares no extractor or the extractor can't find one.
func (t *AgentTool) Target(params map[string]any) (string, bool) {
	if t.TargetFile == nil {
		return "", false
	}
	return t.TargetFile(params)
}
