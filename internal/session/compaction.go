// ABOUTME: Context compaction: summarize old messages, keep recent ones
// ABOUTME: Reduces context size when approaching model token limits

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pi-go/core/pkg/ai"
)

// CompactionEntry records metadata about a compacted message span.
type CompactionEntry struct {
	FilesRead    []string // file paths that were read during the span
	FilesWritten []string // file paths that were written/edited during the span
	MessageCount int      // number of messages in the compacted span
}

// readTools are tool names that read files.
var readTools = map[string]bool{
	"Read": true, "Glob": true, "Grep": true,
}

// writeTools are tool names that write/edit files.
var writeTools = map[string]bool{
	"Write": true, "Edit": true, "NotebookEdit": true,
}

// ExtractFileOps scans messages for tool_use content blocks and extracts
// file paths categorized as read or written.
func ExtractFileOps(messages []ai.Message) CompactionEntry {
	entry := CompactionEntry{
		MessageCount: len(messages),
	}

	readSeen := make(map[string]bool)
	writeSeen := make(map[string]bool)

	for _, msg := range messages {
		for _, c := range msg.Content {
			if c.Type != ai.ContentToolUse || len(c.Input) == 0 {
				continue
			}

			filePath := extractFilePath(c.Input)
			if filePath == "" {
				continue
			}

			if readTools[c.Name] {
				if !readSeen[filePath] {
					readSeen[filePath] = true
					entry.FilesRead = append(entry.FilesRead, filePath)
				}
			}
			if writeTools[c.Name] {
				if !writeSeen[filePath] {
					writeSeen[filePath] = true
					entry.FilesWritten = append(entry.FilesWritten, filePath)
				}
			}
		}
	}

	return entry
}

// extractFilePath pulls the file_path field from tool input JSON.
func extractFilePath(input json.RawMessage) string {
	var args struct {
		FilePath     string `json:"file_path"`
		NotebookPath string `json:"notebook_path"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return ""
	}
	if args.FilePath != "" {
		return args.FilePath
	}
	return args.NotebookPath
}

const keepRecentMessages = 10

// Compact summarizes older messages into a single summary message,
// keeping the most recent messages intact.
func Compact(messages []ai.Message) ([]ai.Message, string, error) {
	if len(messages) <= keepRecentMessages {
		return messages, "", nil
	}

	// Split into old and recent
	oldMessages := messages[:len(messages)-keepRecentMessages]
	recentMessages := messages[len(messages)-keepRecentMessages:]

	// Build summary from old messages
	summary := buildSummary(oldMessages)

	// Create compacted message list
	compacted := make([]ai.Message, 0, keepRecentMessages+1)
	compacted = append(compacted, ai.NewTextMessage(ai.RoleUser,
		fmt.Sprintf("[Context Summary]\n%s\n[End Summary]", summary)))
	compacted = append(compacted, ai.NewTextMessage(ai.RoleAssistant,
		"I understand the context. Let me continue from where we left off."))
	compacted = append(compacted, recentMessages...)

	return compacted, summary, nil
}

// buildSummary creates a text summary from messages.
func buildSummary(messages []ai.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		for _, c := range msg.Content {
			if c.Type == ai.ContentText {
				text := c.Text
				if len(text) > 200 {
					text = text[:200] + "..."
				}
				b.WriteString(text)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// CriticalTools names tools whose most recent call/result pair is pinned
// into the preserved window regardless of where it falls, because losing
// it would strand state the rest of the loop depends on (the active plan,
// the current todo list).
var CriticalTools = map[string]bool{
	"ExitPlanMode": true,
	"TodoWrite":    true,
}

// CompactResult is the outcome of a CompactWithLLM pass.
type CompactResult struct {
	Summary         string
	Messages        []ai.Message
	OriginalCount   int
	CompressedCount int
}

// compressionPrompt asks the compression model for a structured summary
// with a fixed set of numbered sections, optionally preceded by a
// free-form <analysis> block.
const compressionPrompt = `Your task is to create a detailed summary of the conversation so far, ` +
	`paying close attention to the user's explicit requests and your previous actions.

You may precede the summary with an <analysis></analysis> block capturing your reasoning
about what to include.

Then produce the summary using exactly these numbered sections:
1. Primary Request and Intent:
2. Key Technical Concepts:
3. Files and Code Sections:
4. Errors and Fixes:
5. Problem Solving:
6. All User Messages:
7. Pending Tasks:
8. Current Work:`

// CompactWithLLM compacts messages when their estimated token size exceeds
// cfg.KeepRecentTokens. Below threshold, messages are returned unchanged,
// Summary is empty, and summarizer is never invoked. Above threshold, the
// preserve boundary is computed from the tail, adjusted so no tool-call/
// tool-result pair is split across it, critical-tool pairs are pinned into
// the preserved set regardless of position, and the dropped prefix is
// handed to summarizer to produce a structured summary that replaces it.
func CompactWithLLM(ctx context.Context, messages []ai.Message, cfg CompactionConfig, summarizer func(context.Context, []ai.Message, string) (string, error)) (CompactResult, error) {
	if EstimateMessagesTokens(messages) <= cfg.KeepRecentTokens {
		return CompactResult{Messages: messages, OriginalCount: len(messages), CompressedCount: len(messages)}, nil
	}

	boundary := preserveBoundary(messages, cfg.KeepRecentTokens)
	boundary = adjustBoundaryForPairs(messages, boundary)

	toCompress := messages[:boundary]
	preserved := append([]ai.Message(nil), messages[boundary:]...)
	preserved = pinCriticalPairs(messages, boundary, preserved)

	if len(toCompress) == 0 {
		return CompactResult{Messages: messages, OriginalCount: len(messages), CompressedCount: len(messages)}, nil
	}

	raw, err := summarizer(ctx, toCompress, compressionPrompt)
	if err != nil {
		return CompactResult{}, fmt.Errorf("compaction summarizer: %w", err)
	}

	summary := parseCompressionSections(raw)
	assembled := assembleCompacted(summary, preserved)

	return CompactResult{
		Summary:         summary,
		Messages:        assembled,
		OriginalCount:   len(messages),
		CompressedCount: len(assembled),
	}, nil
}

// preserveBoundary walks messages from the tail, accumulating estimated
// tokens, and returns the index of the first message to keep once
// keepRecentTokens worth of trailing messages have been accumulated.
func preserveBoundary(messages []ai.Message, keepRecentTokens int) int {
	tokens := 0
	for i := len(messages) - 1; i >= 0; i-- {
		tokens += EstimateMessageTokens(messages[i])
		if tokens > keepRecentTokens {
			return i + 1
		}
	}
	return 0
}

// adjustBoundaryForPairs shifts boundary earlier until no preserved message
// is a tool-result whose matching tool-call falls before the boundary, and
// the boundary doesn't land inside an assistant/tool-result pair.
func adjustBoundaryForPairs(messages []ai.Message, boundary int) int {
	for boundary > 0 && boundary < len(messages) {
		msg := messages[boundary]
		if !messageHasToolResult(msg) {
			break
		}
		if toolCallIDsSatisfied(messages, boundary) {
			break
		}
		boundary--
	}
	return boundary
}

// messageHasToolResult reports whether msg carries any tool_result block.
func messageHasToolResult(msg ai.Message) bool {
	for _, c := range msg.Content {
		if c.Type == ai.ContentToolResult {
			return true
		}
	}
	return false
}

// toolCallIDsSatisfied reports whether every tool_result ID in
// messages[boundary] has a matching tool_use ID earlier in messages[boundary:].
func toolCallIDsSatisfied(messages []ai.Message, boundary int) bool {
	callIDs := make(map[string]bool)
	for _, msg := range messages[boundary:] {
		for _, c := range msg.Content {
			if c.Type == ai.ContentToolUse {
				callIDs[c.ID] = true
			}
		}
	}
	for _, c := range messages[boundary].Content {
		if c.Type == ai.ContentToolResult && !callIDs[c.ID] {
			return false
		}
	}
	return true
}

// pinCriticalPairs finds, for each critical tool, the most recent tool_use
// message and its matching tool_result message anywhere in the full
// message list, and ensures both are present in preserved (which currently
// holds messages[boundary:]) even when they fall earlier.
func pinCriticalPairs(messages []ai.Message, boundary int, preserved []ai.Message) []ai.Message {
	pinnedIdx := make(map[int]bool)

	for tool := range CriticalTools {
		callIdx, callID := -1, ""
		for i := len(messages) - 1; i >= 0; i-- {
			for _, c := range messages[i].Content {
				if c.Type == ai.ContentToolUse && c.Name == tool {
					callIdx, callID = i, c.ID
				}
			}
			if callIdx != -1 {
				break
			}
		}
		if callIdx == -1 || callIdx >= boundary {
			continue
		}

		resultIdx := -1
		for i := callIdx; i < len(messages); i++ {
			for _, c := range messages[i].Content {
				if c.Type == ai.ContentToolResult && c.ID == callID {
					resultIdx = i
				}
			}
			if resultIdx != -1 {
				break
			}
		}

		pinnedIdx[callIdx] = true
		if resultIdx != -1 {
			pinnedIdx[resultIdx] = true
		}
	}

	if len(pinnedIdx) == 0 {
		return preserved
	}

	extra := make([]ai.Message, 0, len(pinnedIdx))
	for idx := range pinnedIdx {
		extra = append(extra, messages[idx])
	}
	return append(extra, preserved...)
}

// headingRe matches a numbered section heading on its own line, e.g.
// "1. Primary Request and Intent:".
var headingRe = regexp.MustCompile(`(?m)^\s*\d+[.)-]\s*([^:\n]+):\s*$`)

// analysisRe extracts a leading <analysis>...</analysis> block.
var analysisRe = regexp.MustCompile(`(?s)<analysis>(.*?)</analysis>`)

// parseCompressionSections validates and re-stitches the compression
// model's raw output: a leading analysis block is kept as its own
// "Analysis" section, and the numbered sections are located by heading
// regex. If no numbered headings are found, the whole (post-analysis) body
// becomes a single "Summary" section, so a model that ignores the
// requested structure still produces usable output.
func parseCompressionSections(raw string) string {
	var b strings.Builder

	body := raw
	if m := analysisRe.FindStringSubmatch(raw); m != nil {
		b.WriteString("Analysis:\n")
		b.WriteString(strings.TrimSpace(m[1]))
		b.WriteString("\n\n")
		body = analysisRe.ReplaceAllString(raw, "")
	}

	locs := headingRe.FindAllStringSubmatchIndex(body, -1)
	if len(locs) == 0 {
		b.WriteString("Summary:\n")
		b.WriteString(strings.TrimSpace(body))
		return b.String()
	}

	for i, loc := range locs {
		headingStart, headingEnd := loc[0], loc[1]
		titleStart, titleEnd := loc[2], loc[3]
		sectionEnd := len(body)
		if i+1 < len(locs) {
			sectionEnd = locs[i+1][0]
		}

		b.WriteString(strings.TrimSpace(body[titleStart:titleEnd]))
		b.WriteString(":\n")
		b.WriteString(strings.TrimSpace(body[headingEnd:sectionEnd]))
		b.WriteString("\n\n")
	}

	return strings.TrimSpace(b.String())
}

const previousSummaryMarker = "[Previous conversation summary]"

// assembleCompacted builds the post-compaction conversation: a user message
// carrying the new summary, an assistant acknowledgment, and the preserved
// messages with any earlier previous-conversation-summary user message
// dropped (compaction never stacks summaries).
func assembleCompacted(summary string, preserved []ai.Message) []ai.Message {
	out := make([]ai.Message, 0, len(preserved)+2)
	out = append(out, ai.NewTextMessage(ai.RoleUser,
		fmt.Sprintf("%s\n%s", previousSummaryMarker, summary)))
	out = append(out, ai.NewTextMessage(ai.RoleAssistant,
		"I have the context from our previous conversation. Continuing from where we left off."))

	for _, msg := range preserved {
		if isPreviousSummaryMessage(msg) {
			continue
		}
		out = append(out, msg)
	}

	return out
}

// isPreviousSummaryMessage reports whether msg is a previously-injected
// summary placeholder, so a second compaction pass doesn't stack summaries.
func isPreviousSummaryMessage(msg ai.Message) bool {
	if msg.Role != ai.RoleUser || len(msg.Content) == 0 {
		return false
	}
	return strings.HasPrefix(msg.Content[0].Text, previousSummaryMarker)
}
