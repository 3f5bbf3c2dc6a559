// ABOUTME: Provider-agnostic stream processor: demuxes delta events into ordered content parts
// ABOUTME: Sits above each provider's own SSE accumulator, generalizing its block-state machine

package streamproc

import (
	"encoding/json"
	"strings"

	"github.com/pi-go/core/pkg/ai"
)

// State names the processor's finite-state position within one request.
type State int

const (
	StateIdle State = iota
	StateAnswering
	StateThinking
)

// EventKind identifies the kind of delta event fed to the processor.
type EventKind int

const (
	EventTextStart EventKind = iota
	EventTextDelta
	EventReasoningStart
	EventReasoningDelta
	EventReasoningEnd
	EventToolCall
	EventFile
	EventRaw
	EventErr
)

// Event is one provider-agnostic delta the processor consumes. Only the
// fields relevant to Kind are populated.
type Event struct {
	Kind      EventKind
	Text      string
	ReasonID  string
	ToolID    string
	ToolName  string
	ToolInput json.RawMessage
	MediaType string
	FileBytes []byte
	Raw       any
	Err       error
}

// Attachment is a file/image delta surfaced to the caller.
type Attachment struct {
	MediaType string
	Bytes     []byte
}

// ToolCall is a recorded tool invocation, in emission order.
type ToolCall struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// Callbacks are the application hooks the processor drives while consuming
// a stream. Any may be nil.
type Callbacks struct {
	OnChunk           func(text string)
	OnReasoningChunk  func(text string)
	OnStatus          func(label string)
	OnAssistantStart  func()
	OnAttachment      func(Attachment)
	SuppressReasoning bool
}

// Processor is a finite-state demuxer: one instance handles one streaming
// request and accumulates an ordered list of assistant-message content
// parts (text, reasoning, tool-call) plus attachments and a raw debug log.
// It sits above a provider's own low-level SSE accumulator (which handles
// wire framing) and is provider-agnostic: callers translate each
// provider's native delta shape into Event before calling Feed.
type Processor struct {
	state State
	cb    Callbacks

	parts      []ai.Content
	curText    *strings.Builder
	curReason  *strings.Builder
	curReasonID string

	toolCalls []ToolCall
	started   bool
	hasError  bool
	rawLog    []any

	toolCallSeenThisIteration bool
}

// New creates a Processor wired to the given callbacks.
func New(cb Callbacks) *Processor {
	return &Processor{cb: cb}
}

// Feed consumes one delta event, updating state and firing callbacks.
func (p *Processor) Feed(ev Event) {
	switch ev.Kind {
	case EventTextStart:
		p.onTextStart()
	case EventTextDelta:
		p.onTextDelta(ev.Text)
	case EventReasoningStart:
		p.onReasoningStart(ev.ReasonID)
	case EventReasoningDelta:
		p.onReasoningDelta(ev.ReasonID, ev.Text)
	case EventReasoningEnd:
		p.onReasoningEnd()
	case EventToolCall:
		p.onToolCall(ev.ToolID, ev.ToolName, ev.ToolInput)
	case EventFile:
		if p.cb.OnAttachment != nil {
			p.cb.OnAttachment(Attachment{MediaType: ev.MediaType, Bytes: ev.FileBytes})
		}
	case EventRaw:
		p.rawLog = append(p.rawLog, ev.Raw)
	case EventErr:
		p.hasError = true
	}
}

func (p *Processor) fireStart() {
	if !p.started {
		p.started = true
		if p.cb.OnAssistantStart != nil {
			p.cb.OnAssistantStart()
		}
	}
}

func (p *Processor) onTextStart() {
	// A text-start after a tool-call within the same iteration is ignored:
	// provider-level quirks are handled by buffering and last-wins.
	if p.toolCallSeenThisIteration {
		return
	}
	p.fireStart()
	p.closeReasoning()
	p.curText = &strings.Builder{}
	p.state = StateAnswering
}

func (p *Processor) onTextDelta(s string) {
	if p.toolCallSeenThisIteration {
		return
	}
	if p.curText == nil {
		p.onTextStart()
	}
	p.curText.WriteString(s)
	if p.cb.OnChunk != nil {
		p.cb.OnChunk(s)
	}
}

func (p *Processor) onReasoningStart(id string) {
	if p.toolCallSeenThisIteration {
		return
	}
	p.fireStart()
	p.closeText()
	p.curReason = &strings.Builder{}
	p.curReasonID = id
	p.state = StateThinking
}

func (p *Processor) onReasoningDelta(id, s string) {
	if p.toolCallSeenThisIteration {
		return
	}
	if p.cb.SuppressReasoning {
		return
	}
	if p.curReason == nil {
		p.onReasoningStart(id)
	}
	p.curReason.WriteString(s)
	if p.cb.OnReasoningChunk != nil {
		p.cb.OnReasoningChunk(s)
	}
}

func (p *Processor) onReasoningEnd() {
	p.closeReasoning()
}

func (p *Processor) onToolCall(id, name string, input json.RawMessage) {
	p.fireStart()
	// tool-call closes any open text/reasoning parts first.
	p.closeText()
	p.closeReasoning()

	p.toolCalls = append(p.toolCalls, ToolCall{ID: id, Name: name, Input: input})
	p.parts = append(p.parts, ai.Content{Type: ai.ContentToolUse, ID: id, Name: name, Input: input})
	p.toolCallSeenThisIteration = true
	p.state = StateIdle

	if p.cb.OnStatus != nil {
		p.cb.OnStatus("tool_call:" + name)
	}
}

func (p *Processor) closeText() {
	if p.curText == nil {
		return
	}
	p.parts = append(p.parts, ai.Content{Type: ai.ContentText, Text: p.curText.String()})
	p.curText = nil
	p.state = StateIdle
}

func (p *Processor) closeReasoning() {
	if p.curReason == nil {
		return
	}
	p.parts = append(p.parts, ai.Content{Type: ai.ContentThinking, ID: p.curReasonID, Thinking: p.curReason.String()})
	p.curReason = nil
	p.curReasonID = ""
	p.state = StateIdle
}

// ToolCalls returns the tool calls recorded so far, in emission order.
func (p *Processor) ToolCalls() []ToolCall {
	return p.toolCalls
}

// HasError reports whether an error event was fed to the processor.
func (p *Processor) HasError() bool {
	return p.hasError
}

// Parts returns the ordered assistant-message content parts accumulated
// so far: text and reasoning parts close in emission order, interleaved
// with tool-call parts at the point each call was recorded.
func (p *Processor) Parts() []ai.Content {
	p.closeText()
	p.closeReasoning()
	out := make([]ai.Content, len(p.parts))
	copy(out, p.parts)
	return out
}

// State returns the processor's current finite-state position.
func (p *Processor) State() State {
	return p.state
}

// ResetState returns the processor to idle between iterations while
// preserving the accumulated part list until the iteration commits
// messages to the working history.
func (p *Processor) ResetState() {
	p.closeText()
	p.closeReasoning()
	p.state = StateIdle
	p.toolCallSeenThisIteration = false
}

// FullReset clears everything, invoked at loop entry for a fresh request.
func (p *Processor) FullReset() {
	p.state = StateIdle
	p.parts = nil
	p.curText = nil
	p.curReason = nil
	p.curReasonID = ""
	p.toolCalls = nil
	p.started = false
	p.hasError = false
	p.rawLog = nil
	p.toolCallSeenThisIteration = false
}
