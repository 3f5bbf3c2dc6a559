// ABOUTME: Tool registry: creates, stores, and queries agent tools
// ABOUTME: Auto-detects ripgrep availability and registers all built-in tools

package tools

import (
	"os/exec"

	"github.com/pi-go/core/internal/agent"
	"github.com/pi-go/core/internal/edit"
	"github.com/pi-go/core/internal/permission"
)

// Registry manages the collection of available agent tools.
type Registry struct {
	tools    map[string]*agent.AgentTool
	hasRg    bool
	Reviewer *edit.Reviewer
}

// NewRegistry creates a Registry with no sandbox and no edit review
// protocol (every edit commits immediately). Prefer NewRegistryWithSandbox.
func NewRegistry() *Registry {
	return newRegistry(nil, nil, "")
}

// NewRegistryWithSandbox creates a Registry whose write/edit tools reject
// paths outside sandbox, and whose edit tool routes through a fresh
// Reviewer scoped to conversationID (generate one with uuid.NewString()
// per process/conversation). A nil sandbox disables path checks.
func NewRegistryWithSandbox(sandbox *permission.Sandbox) *Registry {
	return newRegistry(sandbox, edit.NewReviewer(), "default")
}

func newRegistry(sandbox *permission.Sandbox, reviewer *edit.Reviewer, conversationID string) *Registry {
	r := &Registry{
		tools:    make(map[string]*agent.AgentTool),
		hasRg:    detectRipgrep(),
		Reviewer: reviewer,
	}
	r.registerBuiltins(sandbox, reviewer, conversationID)
	return r
}

// Register adds a tool to the registry, replacing any existing tool with the same name.
func (r *Registry) Register(tool *agent.AgentTool) {
	r.tools[tool.Name] = tool
}

// Remove deletes a tool from the registry by name. A no-op if absent.
func (r *Registry) Remove(name string) {
	delete(r.tools, name)
}

// Get returns a tool by name, or nil if not found.
func (r *Registry) Get(name string) *agent.AgentTool {
	return r.tools[name]
}

// All returns every registered tool as a slice.
func (r *Registry) All() []*agent.AgentTool {
	out := make([]*agent.AgentTool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	return out
}

// ReadOnly returns only tools whose concurrency class is ClassRead.
func (r *Registry) ReadOnly() []*agent.AgentTool {
	var out []*agent.AgentTool
	for _, t := range r.tools {
		if t.ReadOnly() {
			out = append(out, t)
		}
	}
	return out
}

// HasRipgrep reports whether ripgrep (rg) was found on PATH.
func (r *Registry) HasRipgrep() bool {
	return r.hasRg
}

// registerBuiltins adds all built-in tools to the registry.
func (r *Registry) registerBuiltins(sandbox *permission.Sandbox, reviewer *edit.Reviewer, conversationID string) {
	builtins := []*agent.AgentTool{
		NewReadTool(),
		NewWriteToolWithSandbox(sandbox),
		NewEditTool(sandbox, reviewer, conversationID),
		NewBashTool(),
		NewGrepTool(r.hasRg),
		NewFindTool(r.hasRg),
		NewLsTool(),
		NewFileInfoTool(),
		NewFindReferencesTool(r.hasRg),
		NewSearchDefinitionsTool(),
		NewDependencyGraphTool(),
		NewValidatePathsTool(),
		NewNotebookEditTool(),
		NewWebFetchTool(),
		NewWebSearchTool(),
		NewTodoWriteTool(),
	}
	for _, t := range builtins {
		r.Register(t)
	}
}

// detectRipgrep checks whether rg is available on PATH.
func detectRipgrep() bool {
	_, err := exec.LookPath("rg")
	return err == nil
}
