// ABOUTME: Token estimation heuristics for context budget management
// ABOUTME: Chars ÷ 4 approximation; sums across content blocks and messages

package session

import (
	"github.com/pi-go/core/pkg/ai"
)

// EstimateTokens returns an approximate token count for a text string.
// Uses the chars ÷ 4 heuristic which is accurate within ~10% for English text.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4 // ceiling division
}

// EstimateContentTokens estimates tokens for a single content block.
func EstimateContentTokens(c ai.Content) int {
	switch c.Type {
	case ai.ContentText:
		return EstimateTokens(c.Text)
	case ai.ContentThinking:
		return EstimateTokens(c.Thinking)
	case ai.ContentToolUse:
		// Tool name + JSON input
		return EstimateTokens(c.Name) + EstimateTokens(string(c.Input))
	case ai.ContentToolResult:
		return EstimateTokens(c.ResultText)
	case ai.ContentImage:
		// Images are roughly 1000 tokens regardless of size
		return 1000
	default:
		return 0
	}
}

// EstimateMessageTokens estimates tokens for a single message.
func EstimateMessageTokens(msg ai.Message) int {
	tokens := 4 // overhead per message (role, separators)
	for _, c := range msg.Content {
		tokens += EstimateContentTokens(c)
	}
	return tokens
}

// EstimateMessagesTokens estimates tokens for a slice of messages.
func EstimateMessagesTokens(msgs []ai.Message) int {
	total := 0
	for _, msg := range msgs {
		total += EstimateMessageTokens(msg)
	}
	return total
}

// CompactionConfig controls when NeedsCompaction/ShouldCompact trigger.
// ReserveTokens holds back room for the model's own output; KeepRecentTokens
// holds back room for the messages compaction would preserve uncompressed.
type CompactionConfig struct {
	ReserveTokens    int
	KeepRecentTokens int
}

// ShouldCompact reports whether the message history has grown large enough,
// relative to the model's context window, to warrant compaction before the
// next request. A non-positive contextWindow means the window is unknown
// and compaction is never forced.
func ShouldCompact(messages []ai.Message, contextWindow int, cfg CompactionConfig) bool {
	if contextWindow <= 0 {
		return false
	}
	budget := contextWindow - cfg.ReserveTokens - cfg.KeepRecentTokens
	if budget <= 0 {
		return true
	}
	return EstimateMessagesTokens(messages) > budget
}
