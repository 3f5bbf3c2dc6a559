// ABOUTME: Agent loop: prompt -> stream -> tool execution -> repeat
// ABOUTME: Orchestrates LLM calls and tool invocations with concurrent read-only execution

package agent

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pi-go/core/internal/convert"
	"github.com/pi-go/core/internal/errclass"
	"github.com/pi-go/core/internal/hooks"
	"github.com/pi-go/core/internal/log"
	"github.com/pi-go/core/internal/permission"
	"github.com/pi-go/core/internal/persistence"
	"github.com/pi-go/core/internal/schedule"
	"github.com/pi-go/core/internal/telemetry"
	"github.com/pi-go/core/pkg/ai"
	"github.com/pi-go/core/pkg/ai/streamproc"
	"golang.org/x/sync/errgroup"
)

// LoopLimits bounds the agent loop: how many prompt-stream-tool iterations
// it may run, how many times a retryable stream fault is retried in place
// within one iteration, and the consecutive-tool-error count past which
// guidance text is injected.
type LoopLimits struct {
	MaxIterations            int
	MaxStreamRetries         int
	MaxConsecutiveToolErrors int
}

// defaultLoopLimits mirrors config.LoopSettings' documented defaults.
func defaultLoopLimits() LoopLimits {
	return LoopLimits{MaxIterations: 200, MaxStreamRetries: 3, MaxConsecutiveToolErrors: 3}
}

// Agent orchestrates the prompt-stream-tool loop against an LLM provider.
type Agent struct {
	provider ai.ApiProvider
	model    *ai.Model
	tools    map[string]*AgentTool
	state    atomic.Int32 // stores AgentState
	events   chan AgentEvent
	steerCh  chan ai.Message
	cancelFn context.CancelFunc

	loopLimits     LoopLimits
	toolErrCounter errclass.ToolErrorCounter
	adaptive       *AdaptiveConfig
	limiter        *schedule.LoopLimiter
	checker        *permission.Checker

	persist        persistence.Adapter
	conversationID string

	permCheckFn func(tool string, args map[string]any) error

	hookEngine *hooks.Engine
	workDir    string
}

// SetHooks wires a lifecycle hook engine: executeSingleTool fires
// hooks.PreToolUse before a call (a Blocked response turns the call into an
// IsError result without running it) and hooks.PostToolUse after one
// completes (best-effort; a hook error is logged, never surfaced to the
// model). A nil engine (the default) fires no hooks.
func (a *Agent) SetHooks(e *hooks.Engine, workDir string) {
	a.hookEngine = e
	a.workDir = workDir
}

// SetLoopLimiter wires a global concurrent-loop cap shared across every
// Agent in the process. Passing nil (the default) leaves loops unbounded
// at this layer.
func (a *Agent) SetLoopLimiter(l *schedule.LoopLimiter) {
	a.limiter = l
}

// SetPermissionChecker wires the permission checker whose mode gates which
// tools the loop advertises to the model each iteration (see
// Checker.AvailableInMode). A nil checker (the default) advertises every
// registered tool regardless of mode.
func (a *Agent) SetPermissionChecker(c *permission.Checker) {
	a.checker = c
}

// SetPersistence wires a durability adapter the loop routes finalized
// messages, tool results, usage, status, and completion/error signals
// through. conversationID scopes every call. A nil adapter (the default)
// leaves the loop with no durability side effects.
func (a *Agent) SetPersistence(p persistence.Adapter, conversationID string) {
	a.persist = p
	a.conversationID = conversationID
}

// New creates an Agent wired to the given provider, model, and tool set.
func New(provider ai.ApiProvider, model *ai.Model, tools []*AgentTool) *Agent {
	tm := make(map[string]*AgentTool, len(tools))
	for _, t := range tools {
		tm[t.Name] = t
	}

	return &Agent{
		provider:   provider,
		model:      model,
		tools:      tm,
		steerCh:    make(chan ai.Message, 8),
		loopLimits: defaultLoopLimits(),
	}
}

// NewWithPermissions creates an Agent like New, additionally gating every
// tool call through permCheckFn immediately before it executes. A denial
// surfaces as an IsError tool result handed back to the model, rather than
// aborting the loop outright.
func NewWithPermissions(provider ai.ApiProvider, model *ai.Model, tools []*AgentTool, permCheckFn func(tool string, args map[string]any) error) *Agent {
	a := New(provider, model, tools)
	a.permCheckFn = permCheckFn
	return a
}

// SetLoopLimits overrides the agent's default iteration/retry/guidance
// bounds. Zero fields in limits fall back to the package defaults.
func (a *Agent) SetLoopLimits(limits LoopLimits) {
	d := defaultLoopLimits()
	if limits.MaxIterations == 0 {
		limits.MaxIterations = d.MaxIterations
	}
	if limits.MaxStreamRetries == 0 {
		limits.MaxStreamRetries = d.MaxStreamRetries
	}
	if limits.MaxConsecutiveToolErrors == 0 {
		limits.MaxConsecutiveToolErrors = d.MaxConsecutiveToolErrors
	}
	a.loopLimits = limits
}

// Prompt starts the agent loop in a goroutine and returns an event channel.
// The channel is closed when the loop terminates (end-turn, error, or cancel).
func (a *Agent) Prompt(ctx context.Context, llmCtx *ai.Context, opts *ai.StreamOptions) <-chan AgentEvent {
	ctx, cancel := context.WithCancel(ctx)
	a.cancelFn = cancel
	a.events = make(chan AgentEvent, 64)
	a.state.Store(int32(StateRunning))

	go a.loop(ctx, llmCtx, opts)

	return a.events
}

// Steer injects a steering message that will be appended before the next LLM call.
func (a *Agent) Steer(msg ai.Message) {
	select {
	case a.steerCh <- msg:
	default:
	}
}

// Abort cancels the current agent loop.
func (a *Agent) Abort() {
	a.state.Store(int32(StateCancelled))
	if a.cancelFn != nil {
		a.cancelFn()
	}
}

// State returns the current lifecycle state.
func (a *Agent) State() AgentState {
	return AgentState(a.state.Load())
}

// loop is the core prompt-stream-tool cycle. It is bounded by loopLimits:
// a hard cap on iterations, a per-iteration retry budget for retryable
// stream faults, and a consecutive-tool-error threshold past which the
// model is handed explicit guidance on its next turn.
func (a *Agent) loop(ctx context.Context, llmCtx *ai.Context, opts *ai.StreamOptions) {
	defer close(a.events)
	defer func() {
		// Preserve StateCancelled if Abort() was called.
		a.state.CompareAndSwap(int32(StateRunning), int32(StateIdle))
	}()

	if a.limiter != nil {
		release, err := a.limiter.Acquire(ctx)
		if err != nil {
			a.emit(AgentEvent{Type: EventError, Error: errclass.LoopError(errclass.KindCancelled, err)})
			a.recordFault(ctx, err)
			return
		}
		defer release()
	}

	if a.persist != nil {
		defer func() {
			if err := a.persist.CompleteExecution(ctx, a.conversationID); err != nil {
				log.Warn("persistence: complete execution: %v", err)
			}
		}()
	}

	a.emit(AgentEvent{Type: EventAgentStart})

	availableTools := a.toolNames()

	for iter := 0; ; iter++ {
		llmCtx.Tools = a.toolDefs()

		if iter >= a.loopLimits.MaxIterations {
			err := fmt.Errorf("reached max iterations (%d)", a.loopLimits.MaxIterations)
			a.emit(AgentEvent{Type: EventError, Error: errclass.LoopError(errclass.KindIterationCap, err)})
			a.recordFault(ctx, err)
			break
		}
		if err := ctx.Err(); err != nil {
			a.emit(AgentEvent{Type: EventError, Error: errclass.LoopError(errclass.KindCancelled, err)})
			a.recordFault(ctx, err)
			break
		}

		a.drainSteeringMessages(llmCtx)

		msg, classified := a.streamResponse(ctx, llmCtx, opts)
		if classified != nil {
			if !classified.Kind.Recoverable() {
				a.emit(AgentEvent{Type: EventError, Error: *classified})
				a.recordFault(ctx, classified)
				break
			}
			// Recoverable: surface as an informational warning and let the
			// model retry with guidance, instead of aborting the loop.
			a.emit(AgentEvent{Type: EventWarning, Error: *classified})
			llmCtx.Messages = append(llmCtx.Messages, ai.NewTextMessage(ai.RoleUser, errclass.GuidanceMessage(availableTools)))
			continue
		}

		if err := ctx.Err(); err != nil {
			a.emit(AgentEvent{Type: EventError, Error: errclass.LoopError(errclass.KindCancelled, err)})
			a.recordFault(ctx, err)
			break
		}

		if !hasKnownStopReason(msg.StopReason) && !hasToolUse(msg) {
			c := errclass.UnknownFinishReason(string(msg.StopReason))
			a.emit(AgentEvent{Type: EventError, Error: c})
			a.recordFault(ctx, c)
			break
		}

		a.recordAssistantMessage(ctx, msg)

		toolCalls := extractToolCalls(msg)
		llmCtx.Messages = append(llmCtx.Messages, a.assistantMessage(msg))

		if len(toolCalls) == 0 {
			break
		}

		results, err := a.executeTools(ctx, toolCalls)
		if err != nil {
			a.emit(AgentEvent{Type: EventError, Error: fmt.Errorf("executing tools: %w", err)})
			a.recordFault(ctx, err)
			break
		}

		a.recordToolResults(ctx, toolCalls, results)

		if err := ctx.Err(); err != nil {
			a.emit(AgentEvent{Type: EventError, Error: errclass.LoopError(errclass.KindCancelled, err)})
			break
		}

		llmCtx.Messages = append(llmCtx.Messages, toolResultMessage(results, a.model.SupportsImages))

		count := a.toolErrCounter.RecordResult(anyToolError(results))
		if count >= a.loopLimits.MaxConsecutiveToolErrors {
			llmCtx.Messages = append(llmCtx.Messages, ai.NewTextMessage(ai.RoleUser, errclass.ConsecutiveErrorGuidance(count, availableTools)))
		}
	}

	a.emit(AgentEvent{Type: EventAgentEnd})
}

// anyToolError reports whether any result in the batch was an error, the
// signal that resets or advances the consecutive-tool-error counter.
func anyToolError(results []toolExecResult) bool {
	for _, r := range results {
		if r.Result.IsError {
			return true
		}
	}
	return false
}

// hasKnownStopReason reports whether the provider returned one of the
// recognized stop reasons.
func hasKnownStopReason(r ai.StopReason) bool {
	switch r {
	case ai.StopEndTurn, ai.StopMaxTokens, ai.StopToolUse, ai.StopStop:
		return true
	default:
		return false
	}
}

// hasToolUse reports whether the assistant message contains any tool-call
// content block.
func hasToolUse(msg *ai.AssistantMessage) bool {
	for _, c := range msg.Content {
		if c.Type == ai.ContentToolUse {
			return true
		}
	}
	return false
}

// toolNames returns the registered tool names, used to build guidance text.
func (a *Agent) toolNames() []string {
	names := make([]string, 0, len(a.tools))
	for n := range a.tools {
		names = append(names, n)
	}
	return names
}

// toolAvailable reports whether name may be offered or invoked under the
// agent's current permission mode. With no checker wired, every registered
// tool is available.
func (a *Agent) toolAvailable(name string) bool {
	if a.checker == nil {
		return true
	}
	return a.checker.AvailableInMode(name)
}

// toolDefs builds the model-visible tool list for the next iteration,
// recomputed every turn so a mode change (e.g. entering plan mode) takes
// effect on the very next call instead of only at the start of the loop.
// Hidden tools and tools the active mode excludes are left out.
func (a *Agent) toolDefs() []ai.Tool {
	defs := make([]ai.Tool, 0, len(a.tools))
	for name, t := range a.tools {
		if t.Hidden || !a.toolAvailable(name) {
			continue
		}
		defs = append(defs, ai.Tool{Name: t.Name, Description: t.Description, Parameters: t.Parameters})
	}
	return defs
}

// drainSteeringMessages appends any pending steering messages to the context.
func (a *Agent) drainSteeringMessages(llmCtx *ai.Context) {
	for {
		select {
		case msg := <-a.steerCh:
			llmCtx.Messages = append(llmCtx.Messages, msg)
		default:
			return
		}
	}
}

// streamResponse streams a single LLM response, retrying in place when the
// stream fault is classified as stream-retryable (bounded by the agent's
// loop limits), and otherwise returning a Classified describing the fault.
func (a *Agent) streamResponse(ctx context.Context, llmCtx *ai.Context, opts *ai.StreamOptions) (*ai.AssistantMessage, *errclass.Classified) {
	for attempt := 0; ; attempt++ {
		msg, classified := a.streamOnce(ctx, llmCtx, opts)
		if classified == nil {
			return msg, nil
		}
		if classified.Kind != errclass.KindStreamRetryable || attempt >= a.loopLimits.MaxStreamRetries {
			return nil, classified
		}
		a.emit(AgentEvent{Type: EventWarning, Error: fmt.Errorf("retrying after stream fault: %w", classified)})
	}
}

// streamOnce drives one provider stream through a fresh streamproc.Processor,
// emitting text/thinking chunks as they arrive and classifying any error
// event the provider surfaces.
func (a *Agent) streamOnce(ctx context.Context, llmCtx *ai.Context, opts *ai.StreamOptions) (*ai.AssistantMessage, *errclass.Classified) {
	stream := a.provider.Stream(ctx, a.model, llmCtx, a.applyAdaptive(llmCtx, opts))

	proc := streamproc.New(streamproc.Callbacks{
		OnChunk:          func(s string) { a.emit(AgentEvent{Type: EventAssistantText, Text: s}) },
		OnReasoningChunk: func(s string) { a.emit(AgentEvent{Type: EventAssistantThinking, Text: s}) },
	})

	toolInputs := map[string]*strings.Builder{}
	var streamErr error

	for evt := range stream.Events() {
		if ctx.Err() != nil {
			return nil, &errclass.Classified{Kind: errclass.KindCancelled, Err: ctx.Err()}
		}

		switch evt.Type {
		case ai.EventContentDelta:
			proc.Feed(streamproc.Event{Kind: streamproc.EventTextDelta, Text: evt.Text})
		case ai.EventThinkingDelta:
			proc.Feed(streamproc.Event{Kind: streamproc.EventReasoningDelta, Text: evt.Text})
		case ai.EventToolUseStart:
			toolInputs[evt.ToolID] = &strings.Builder{}
		case ai.EventToolUseDelta:
			if b, ok := toolInputs[evt.ToolID]; ok {
				b.WriteString(evt.ToolInput)
			}
		case ai.EventToolUseDone:
			input := json.RawMessage(`{}`)
			if b, ok := toolInputs[evt.ToolID]; ok && b.Len() > 0 {
				input = json.RawMessage(b.String())
			}
			proc.Feed(streamproc.Event{Kind: streamproc.EventToolCall, ToolID: evt.ToolID, ToolName: evt.ToolName, ToolInput: input})
		case ai.EventError:
			streamErr = evt.Error
			proc.Feed(streamproc.Event{Kind: streamproc.EventErr, Err: evt.Error})
		}
	}

	if streamErr != nil {
		c := errclass.ClassifyStreamError(streamErr, a.toolNames())
		return nil, &c
	}

	result := stream.Result()
	if result == nil {
		return nil, &errclass.Classified{Kind: errclass.KindStreamFatal, Err: fmt.Errorf("stream completed without result")}
	}

	return result, nil
}

// emit sends an event; silently drops if the channel is full.
func (a *Agent) emit(evt AgentEvent) {
	select {
	case a.events <- evt:
	default:
	}
}

// toolCall holds a parsed tool invocation from the model's response.
type toolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// extractToolCalls pulls tool-use content blocks from the assistant message.
func extractToolCalls(msg *ai.AssistantMessage) []toolCall {
	var calls []toolCall
	for _, c := range msg.Content {
		if c.Type != ai.ContentToolUse {
			continue
		}

		args, err := ParseToolArgs(c.Input)
		if err != nil {
			continue
		}

		calls = append(calls, toolCall{ID: c.ID, Name: c.Name, Args: args})
	}
	return calls
}

// toolExecResult pairs a tool call ID with its execution result.
type toolExecResult struct {
	ID     string
	Result ToolResult
}

// executeTools builds an execution plan from the call batch and runs it
// phase by phase: each phase's calls run concurrently via errgroup, and
// phases run strictly in sequence. This gives OTHER-serial tools (shell,
// sub-agent, todo writer) one call per phase while READ and OTHER-parallel
// groups collapse into a single concurrent phase, and WRITE/EDIT calls
// pack into the fewest conflict-free phases by target file.
func (a *Agent) executeTools(ctx context.Context, calls []toolCall) ([]toolExecResult, error) {
	plan := schedule.Analyze(toScheduleCalls(a.tools, calls))

	results := make([]toolExecResult, 0, len(calls))
	for _, phase := range plan.Phases {
		phaseResults, err := a.executePhase(ctx, phase)
		if err != nil {
			return nil, fmt.Errorf("executing phase: %w", err)
		}
		results = append(results, phaseResults...)
	}

	return results, nil
}

// toScheduleCalls resolves each parsed tool call against the registered
// tool set so the analyzer can read its concurrency class and target file.
// Calls to unknown tool names are treated as ClassOtherSerial so they never
// get silently parallelized with anything else; executeSingleTool reports
// the unknown-tool error when the phase actually runs.
func toScheduleCalls(tools map[string]*AgentTool, calls []toolCall) []schedule.Call {
	out := make([]schedule.Call, len(calls))
	for i, tc := range calls {
		tool, ok := tools[tc.Name]
		if !ok {
			tool = &AgentTool{Name: tc.Name, Class: ClassOtherSerial}
		}
		out[i] = schedule.Call{CallID: tc.ID, Tool: tool, Params: tc.Args}
	}
	return out
}

// executePhase runs one phase's calls concurrently via errgroup, matching
// results back up by call ID.
func (a *Agent) executePhase(ctx context.Context, phase []schedule.Call) ([]toolExecResult, error) {
	if len(phase) == 0 {
		return nil, nil
	}

	results := make([]toolExecResult, len(phase))
	g, gCtx := errgroup.WithContext(ctx)

	for i, c := range phase {
		i, c := i, c
		g.Go(func() error {
			res, err := a.executeSingleTool(gCtx, toolCall{ID: c.CallID, Name: c.Tool.Name, Args: c.Params})
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("phase execution: %w", err)
	}

	return results, nil
}

// executeSingleTool runs one tool call, emitting start/update/end events.
func (a *Agent) executeSingleTool(ctx context.Context, tc toolCall) (toolExecResult, error) {
	tool, ok := a.tools[tc.Name]
	if !ok {
		return toolExecResult{
			ID:     tc.ID,
			Result: ToolResult{Content: fmt.Sprintf("unknown tool: %s", tc.Name), IsError: true},
		}, nil
	}

	if !a.toolAvailable(tc.Name) {
		return toolExecResult{
			ID:     tc.ID,
			Result: ToolResult{Content: fmt.Sprintf("tool %q not available in the current mode", tc.Name), IsError: true},
		}, nil
	}

	if a.permCheckFn != nil {
		if err := a.permCheckFn(tc.Name, tc.Args); err != nil {
			return toolExecResult{
				ID:     tc.ID,
				Result: ToolResult{Content: err.Error(), IsError: true},
			}, nil
		}
	}

	if a.hookEngine != nil {
		out, err := a.hookEngine.Fire(ctx, hooks.HookInput{
			Event: hooks.PreToolUse, Tool: tc.Name, Args: tc.Args,
			SessionID: a.conversationID, WorkDir: a.workDir,
		})
		if err != nil {
			log.Warn("hooks: PreToolUse %q: %v", tc.Name, err)
		} else if out.Blocked {
			msg := out.Message
			if msg == "" {
				msg = fmt.Sprintf("tool %q blocked by PreToolUse hook", tc.Name)
			}
			return toolExecResult{ID: tc.ID, Result: ToolResult{Content: msg, IsError: true}}, nil
		}
	}

	a.emit(AgentEvent{
		Type: EventToolStart, ToolID: tc.ID, ToolName: tc.Name, ToolArgs: tc.Args,
	})

	start := time.Now()
	onUpdate := func(u ToolUpdate) {
		a.emit(AgentEvent{Type: EventToolUpdate, ToolID: tc.ID, ToolName: tc.Name, Text: u.Output})
	}

	result, err := tool.Execute(ctx, tc.ID, tc.Args, onUpdate)
	result.Duration = time.Since(start)

	if err != nil {
		result.Content = err.Error()
		result.IsError = true
	}

	a.emit(AgentEvent{
		Type: EventToolEnd, ToolID: tc.ID, ToolName: tc.Name, ToolResult: &result,
	})

	if a.hookEngine != nil {
		if _, err := a.hookEngine.Fire(ctx, hooks.HookInput{
			Event: hooks.PostToolUse, Tool: tc.Name, Args: tc.Args,
			SessionID: a.conversationID, WorkDir: a.workDir,
		}); err != nil {
			log.Warn("hooks: PostToolUse %q: %v", tc.Name, err)
		}
	}

	return toolExecResult{ID: tc.ID, Result: result}, nil
}

// recordFault best-effort-records a loop-ending error against the
// conversation. A nil persist adapter makes this a no-op.
func (a *Agent) recordFault(ctx context.Context, err error) {
	if a.persist == nil || err == nil {
		return
	}
	if setErr := a.persist.SetError(ctx, a.conversationID, err.Error()); setErr != nil {
		log.Warn("persistence: set error: %v", setErr)
	}
}

// recordAssistantMessage routes one completed assistant turn through the
// persistence adapter: a fresh message is allocated, its final text
// committed, and the turn's token usage and estimated cost recorded. A nil
// persist adapter makes this a no-op.
func (a *Agent) recordAssistantMessage(ctx context.Context, msg *ai.AssistantMessage) {
	if a.persist == nil {
		return
	}

	msgID, err := a.persist.CreateAssistantMessage(ctx, a.conversationID)
	if err != nil {
		log.Warn("persistence: create assistant message: %v", err)
		return
	}

	var text strings.Builder
	for _, c := range msg.Content {
		if c.Type == ai.ContentText {
			text.WriteString(c.Text)
		}
	}
	if err := a.persist.FinalizeMessage(ctx, a.conversationID, msgID, text.String()); err != nil {
		log.Warn("persistence: finalize message: %v", err)
	}

	modelID := ""
	if a.model != nil {
		modelID = a.model.ID
	}
	cost := telemetry.EstimateCost(modelID, msg.Usage.InputTokens, msg.Usage.OutputTokens)
	contextPct := 0.0
	if a.model != nil {
		if window := a.model.EffectiveContextWindow(); window > 0 {
			contextPct = float64(msg.Usage.InputTokens) / float64(window) * 100
		}
	}
	if err := a.persist.UpdateUsage(ctx, a.conversationID, cost, msg.Usage.InputTokens, msg.Usage.OutputTokens, contextPct); err != nil {
		log.Warn("persistence: update usage: %v", err)
	}
}

// recordToolResults routes one phase batch's tool calls/results through the
// persistence adapter as call/result pairs. A nil persist adapter makes
// this a no-op.
func (a *Agent) recordToolResults(ctx context.Context, calls []toolCall, results []toolExecResult) {
	if a.persist == nil {
		return
	}

	byID := make(map[string]toolCall, len(calls))
	for _, c := range calls {
		byID[c.ID] = c
	}

	for _, r := range results {
		call := byID[r.ID]
		input, err := json.Marshal(call.Args)
		if err != nil {
			input = json.RawMessage("{}")
		}
		msg := persistence.ToolMessage{
			CallID:     r.ID,
			ToolName:   call.Name,
			Input:      input,
			ResultText: r.Result.Content,
			IsError:    r.Result.IsError,
		}
		if err := a.persist.AddToolMessage(ctx, a.conversationID, msg); err != nil {
			log.Warn("persistence: add tool message: %v", err)
		}
	}
}

// assistantMessage converts an AssistantMessage into a conversation Message,
// reshaping its content for the active model first: thinking blocks are
// either kept structured or folded into inline text depending on
// SupportsThinking, the same transform every provider adapter otherwise
// duplicated inline.
func (a *Agent) assistantMessage(msg *ai.AssistantMessage) ai.Message {
	content, _ := convert.TransformAssistantContent(msg.Content, a.model)
	return ai.Message{Role: ai.RoleAssistant, Content: content}
}

// toolResultMessage builds a user message containing tool results. Images
// attached to a result (e.g. read_image output) are base64-encoded into the
// content block only when the active model supports image input.
func toolResultMessage(results []toolExecResult, supportsImages bool) ai.Message {
	contents := make([]ai.Content, 0, len(results))
	for _, r := range results {
		c := ai.Content{
			Type:       ai.ContentToolResult,
			ID:         r.ID,
			ResultText: r.Result.Content,
			IsError:    r.Result.IsError,
		}
		if supportsImages && len(r.Result.Images) > 0 {
			c.Images = make([]ai.ImageContent, len(r.Result.Images))
			for i, img := range r.Result.Images {
				c.Images[i] = ai.ImageContent{
					MediaType: img.MimeType,
					Data:      base64.StdEncoding.EncodeToString(img.Data),
				}
			}
		}
		contents = append(contents, c)
	}
	return ai.Message{Role: ai.RoleUser, Content: contents}
}

// aiTools converts registered AgentTools into ai.Tool definitions for the LLM context.
func aiTools(tools map[string]*AgentTool) []ai.Tool {
	out := make([]ai.Tool, 0, len(tools))
	for _, t := range tools {
		schema := t.Parameters
		if schema == nil {
			schema = json.RawMessage(`{}`)
		}
		out = append(out, ai.Tool{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  schema,
		})
	}
	return out
}
