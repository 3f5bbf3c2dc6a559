// ABOUTME: Edit tool: smart-match text replacement within existing files
// ABOUTME: Routes through the Smart Match cascade and the pending-edit review protocol

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pi-go/core/internal/agent"
	"github.com/pi-go/core/internal/edit"
	"github.com/pi-go/core/internal/permission"
)

// NewEditTool creates a tool that performs Smart Match text replacement in
// a file, subject to sandbox path validation and the Reviewer's
// approve/reject/allow-all protocol. conversationID scopes the reviewer's
// auto-approve setting and change log to this process's single
// conversation.
func NewEditTool(sandbox *permission.Sandbox, reviewer *edit.Reviewer, conversationID string) *agent.AgentTool {
	return &agent.AgentTool{
		Name:        "edit",
		Label:       "Edit File",
		Description: "Replace occurrences of old_string with new_string in a file.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"required": ["path", "old_string", "new_string"],
			"properties": {
				"path":        {"type": "string", "description": "Absolute path to the file"},
				"old_string":  {"type": "string", "description": "Text to find"},
				"new_string":  {"type": "string", "description": "Replacement text"},
				"replace_all": {"type": "boolean", "description": "Replace all occurrences (default false)"}
			}
		}`),
		Class:      agent.ClassEdit,
		TargetFile: targetPathParam,
		Execute:    makeExecuteEdit(sandbox, reviewer, conversationID),
	}
}

func makeExecuteEdit(sandbox *permission.Sandbox, reviewer *edit.Reviewer, conversationID string) func(context.Context, string, map[string]any, func(agent.ToolUpdate)) (agent.ToolResult, error) {
	return func(_ context.Context, id string, params map[string]any, _ func(agent.ToolUpdate)) (agent.ToolResult, error) {
		path, err := requireStringParam(params, "path")
		if err != nil {
			return errResult(err), nil
		}

		if sandbox != nil {
			if err := sandbox.ValidatePath(path); err != nil {
				return errResult(fmt.Errorf("path-security-violation: %w", err)), nil
			}
		}

		oldStr, err := requireStringParam(params, "old_string")
		if err != nil {
			return errResult(err), nil
		}

		newStr, err := requireStringParam(params, "new_string")
		if err != nil {
			return errResult(err), nil
		}

		replaceAll := boolParam(params, "replace_all", false)

		data, err := os.ReadFile(path)
		if err != nil {
			return errResult(fmt.Errorf("reading file %s: %w", path, err)), nil
		}

		original := string(data)
		result, match, err := edit.Apply(original, oldStr, newStr, replaceAll)
		if err != nil {
			return errResult(buildEditMatchError(err, match, original, oldStr)), nil
		}

		commit := func() error {
			return os.WriteFile(path, []byte(result.Content), 0o644)
		}

		diff := simpleDiff(path, original, result.Content)

		if reviewer == nil {
			if err := commit(); err != nil {
				return errResult(err), nil
			}
			return agent.ToolResult{Content: diff}, nil
		}

		_, committed, err := reviewer.Submit(id, conversationID, path, "edit", original, result.Content, commit)
		if err != nil {
			return errResult(err), nil
		}
		if !committed {
			return agent.ToolResult{Content: diff + "\n(awaiting review)"}, nil
		}
		return agent.ToolResult{Content: diff}, nil
	}
}

// buildEditMatchError renders a file-edit-match-fail payload including
// fuzzy-match suggestions for the closest surviving candidates.
func buildEditMatchError(cause error, match edit.MatchResult, content, oldString string) error {
	if match.Kind != edit.MatchNone {
		return cause
	}

	suggestions := edit.Suggestions(content, oldString, suggestionLineCount)
	if len(suggestions) == 0 {
		return cause
	}
	return fmt.Errorf("%w; closest lines: %s", cause, strings.Join(suggestions, " | "))
}

// suggestionLineCount bounds how many fuzzy-match candidates are surfaced.
const suggestionLineCount = 3

// simpleDiff produces a minimal unified-style diff of the changes.
func simpleDiff(path, before, after string) string {
	oldLines := strings.Split(before, "\n")
	newLines := strings.Split(after, "\n")

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", path, path)

	maxLen := len(oldLines)
	if len(newLines) > maxLen {
		maxLen = len(newLines)
	}

	for i := 0; i < maxLen; i++ {
		oldLine := lineAt(oldLines, i)
		newLine := lineAt(newLines, i)
		if oldLine != newLine {
			if i < len(oldLines) {
				fmt.Fprintf(&b, "-%s\n", oldLine)
			}
			if i < len(newLines) {
				fmt.Fprintf(&b, "+%s\n", newLine)
			}
		}
	}

	return b.String()
}

// lineAt safely returns the line at index i, or empty string if out of range.
func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}
