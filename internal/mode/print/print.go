// ABOUTME: Non-interactive print mode for piped/scripted (SDK/headless) use
// ABOUTME: Drives a full agent loop and formats its events as text, JSON, or stream-JSON

package print

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pi-go/core/internal/agent"
	"github.com/pi-go/core/internal/convert"
	"github.com/pi-go/core/internal/hooks"
	"github.com/pi-go/core/internal/log"
	"github.com/pi-go/core/internal/persistence"
	"github.com/pi-go/core/internal/schedule"
	"github.com/pi-go/core/pkg/ai"
)

// processLoopLimiter caps concurrently running print-mode agent loops
// within this process, per the documented global loop cap.
var processLoopLimiter = schedule.NewLoopLimiter(schedule.DefaultMaxConcurrentLoops)

// Config controls headless print-mode execution: output/input shape, the
// turn/budget ceilings that bound a runaway conversation, and the schema
// the final text response must validate against.
type Config struct {
	OutputFormat string // "text" (default), "json", or "stream-json"
	InputFormat  string // "text" (default) or "stream-json"
	SystemPrompt string
	MaxTurns     int     // 0 = unlimited
	MaxBudgetUSD float64 // 0 = unlimited
	JSONSchema   string  // when non-empty, the final text must validate against it
}

// Deps supplies the provider, model, and tool set print mode drives the
// agent loop with.
type Deps struct {
	Provider   ai.ApiProvider
	Model      *ai.Model
	Tools      []*agent.AgentTool
	HookEngine *hooks.Engine
	WorkDir    string
}

// jsonOutput is the single JSON object printed for OutputFormat "json".
type jsonOutput struct {
	Text string `json:"text"`
}

// streamEvent is one line of the OutputFormat "stream-json" line-delimited
// event stream.
type streamEvent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Tool string `json:"tool,omitempty"`
}

const (
	inputCostPerTokenUSD  = 0.000003
	outputCostPerTokenUSD = 0.000015

	// estimatedInputTokensPerTurn and estimatedOutputTokensPerTurn back the
	// pre-flight budget check: a fixed per-turn estimate charged against
	// MaxBudgetUSD as each tool-invoking turn starts, before the turn's
	// real ai.Usage is known.
	estimatedInputTokensPerTurn  = 1000
	estimatedOutputTokensPerTurn = 500
)

// estimateTurnCost estimates the USD cost of a turn given its token counts.
func estimateTurnCost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*inputCostPerTokenUSD + float64(outputTokens)*outputCostPerTokenUSD
}

// shouldAbort reports whether turns or costUSD has crossed cfg's ceiling.
// A zero ceiling disables that dimension's check.
func shouldAbort(cfg Config, turns int, costUSD float64) bool {
	if cfg.MaxTurns > 0 && turns >= cfg.MaxTurns {
		return true
	}
	if cfg.MaxBudgetUSD > 0 && costUSD >= cfg.MaxBudgetUSD {
		return true
	}
	return false
}

// RunWithConfig resolves the prompt text (falling back to stdin, shaped per
// cfg.InputFormat, when promptText is empty), drives one headless agent
// conversation against deps, formats events per cfg.OutputFormat as they
// stream, and enforces cfg's turn/budget ceilings by cancelling the loop
// and no longer formatting further events once either is crossed — the
// agent's own goroutine may still complete in-flight work asynchronously.
func RunWithConfig(ctx context.Context, cfg Config, deps Deps, promptText string) error {
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "text"
	}

	promptText, err := resolvePrompt(cfg, promptText)
	if err != nil {
		return err
	}

	messages, warnings := convert.Convert([]convert.UIMessage{{Role: ai.RoleUser, Text: promptText}}, convert.Options{})
	for _, w := range warnings {
		log.Warn("print: %s", w)
	}

	llmCtx := &ai.Context{System: cfg.SystemPrompt, Messages: messages}

	ag := agent.New(deps.Provider, deps.Model, deps.Tools)
	ag.SetLoopLimiter(processLoopLimiter)
	if deps.HookEngine != nil {
		ag.SetHooks(deps.HookEngine, deps.WorkDir)
	}

	conversationID := uuid.NewString()
	persist := persistence.NewWriterAdapter()
	ag.SetPersistence(persist, conversationID)

	promptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := newRunner(cfg)
	runner.emitStart()

	var finalErr error
	for evt := range ag.Prompt(promptCtx, llmCtx, &ai.StreamOptions{}) {
		if runner.stopped {
			continue
		}
		switch evt.Type {
		case agent.EventAssistantText:
			runner.onText(evt.Text)
		case agent.EventToolStart:
			runner.onToolStart(evt.ToolName)
			if runner.stopped {
				cancel()
			}
		case agent.EventError:
			finalErr = evt.Error
		}
	}

	if finalErr != nil {
		return fmt.Errorf("agent error: %w", finalErr)
	}

	if cfg.JSONSchema != "" {
		if err := validateAgainstSchema(cfg.JSONSchema, runner.text.String()); err != nil {
			return fmt.Errorf("final response failed schema validation: %w", err)
		}
	}

	runner.emitEnd()
	return nil
}

// resolvePrompt returns promptText unchanged if non-empty, otherwise reads
// it from stdin shaped per cfg.InputFormat ("text": the raw bytes;
// "stream-json": newline-delimited {"text": "..."} objects, concatenated).
func resolvePrompt(cfg Config, promptText string) (string, error) {
	if promptText != "" {
		return promptText, nil
	}

	if cfg.InputFormat != "stream-json" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	var b strings.Builder
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var evt struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(line, &evt); err != nil {
			return "", fmt.Errorf("parsing stream-json input line: %w", err)
		}
		b.WriteString(evt.Text)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stream-json stdin: %w", err)
	}
	return b.String(), nil
}

// validateAgainstSchema compiles schemaStr as a JSON Schema and validates
// text, decoded as JSON, against it.
func validateAgainstSchema(schemaStr, text string) error {
	schema, err := jsonschema.CompileString("response.json", schemaStr)
	if err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}

	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return schema.Validate(decoded)
}

// runner accumulates the final text and writes per-format output as events
// arrive, tracking the turn/budget ceilings that decide when to stop.
type runner struct {
	cfg     Config
	text    strings.Builder
	turns   int
	costUSD float64
	stopped bool
}

func newRunner(cfg Config) *runner {
	return &runner{cfg: cfg}
}

func (r *runner) emitStart() {
	if r.cfg.OutputFormat == "stream-json" {
		printStreamEvent(streamEvent{Type: "start"})
	}
}

func (r *runner) emitEnd() {
	switch r.cfg.OutputFormat {
	case "json":
		data, _ := json.Marshal(jsonOutput{Text: r.text.String()})
		fmt.Println(string(data))
	case "stream-json":
		printStreamEvent(streamEvent{Type: "end"})
	default:
		fmt.Println()
	}
}

func (r *runner) onText(text string) {
	r.text.WriteString(text)
	switch r.cfg.OutputFormat {
	case "text":
		fmt.Print(text)
	case "stream-json":
		printStreamEvent(streamEvent{Type: "text", Text: text})
	}
}

// onToolStart formats a tool invocation to stderr and charges one
// estimated-cost turn against the configured ceilings.
func (r *runner) onToolStart(name string) {
	fmt.Fprintf(os.Stderr, "[tool: %s]\n", name)

	r.turns++
	r.costUSD += estimateTurnCost(estimatedInputTokensPerTurn, estimatedOutputTokensPerTurn)
	if shouldAbort(r.cfg, r.turns, r.costUSD) {
		r.stopped = true
	}
}

func printStreamEvent(evt streamEvent) {
	data, _ := json.Marshal(evt)
	fmt.Println(string(data))
}
