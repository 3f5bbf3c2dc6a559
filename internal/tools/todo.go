// ABOUTME: TodoWrite tool: maintains an ordered task checklist for the current conversation
// ABOUTME: State-mutating and order-sensitive, so it always runs alone in its own phase

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pi-go/core/internal/agent"
)

// TodoItem is one entry in the checklist the model maintains across turns.
type TodoItem struct {
	Content string `json:"content"`
	Status  string `json:"status"` // pending | in_progress | completed
}

// todoStore holds the most recent checklist for a single running agent.
// Every other built-in tool is stateless; this is the one that carries
// conversation-scoped state between calls.
type todoStore struct {
	mu    sync.Mutex
	items []TodoItem
}

func (s *todoStore) set(items []TodoItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

func (s *todoStore) render() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return "(no todos)"
	}
	var b strings.Builder
	for _, it := range s.items {
		mark := " "
		switch it.Status {
		case "in_progress":
			mark = "~"
		case "completed":
			mark = "x"
		}
		fmt.Fprintf(&b, "[%s] %s\n", mark, it.Content)
	}
	return b.String()
}

// NewTodoWriteTool creates a tool that replaces the conversation's task
// checklist. It is the canonical OTHER-serial, state-mutating tool used
// to exercise the critical-tool-pair rule during context compaction: the
// most recent TodoWrite call/result pair is always preserved verbatim.
func NewTodoWriteTool() *agent.AgentTool {
	store := &todoStore{}
	return &agent.AgentTool{
		Name:        "todo_write",
		Label:       "Update Todo List",
		Description: "Replace the current task checklist with an updated list of todo items.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"required": ["todos"],
			"properties": {
				"todos": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["content", "status"],
						"properties": {
							"content": {"type": "string"},
							"status":  {"type": "string", "enum": ["pending", "in_progress", "completed"]}
						}
					}
				}
			}
		}`),
		Class: agent.ClassOtherSerial,
		Execute: func(_ context.Context, _ string, params map[string]any, _ func(agent.ToolUpdate)) (agent.ToolResult, error) {
			items, err := parseTodoItems(params)
			if err != nil {
				return errResult(err), nil
			}
			store.set(items)
			return agent.ToolResult{Content: store.render()}, nil
		},
	}
}

func parseTodoItems(params map[string]any) ([]TodoItem, error) {
	raw, ok := params["todos"].([]any)
	if !ok {
		return nil, fmt.Errorf("parameter %q must be an array", "todos")
	}

	items := make([]TodoItem, 0, len(raw))
	for i, elem := range raw {
		m, ok := elem.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("todos[%d] must be an object", i)
		}
		content, _ := m["content"].(string)
		status, _ := m["status"].(string)
		if content == "" {
			return nil, fmt.Errorf("todos[%d].content must not be empty", i)
		}
		switch status {
		case "pending", "in_progress", "completed":
		default:
			return nil, fmt.Errorf("todos[%d].status %q is not one of pending/in_progress/completed", i, status)
		}
		items = append(items, TodoItem{Content: content, Status: status})
	}
	return items, nil
}
