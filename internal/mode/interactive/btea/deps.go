// ABOUTME: Dependency injection struct for the Bubble Tea interactive app
// ABOUTME: Mirrors interactive.AppDeps; adapted for the btea architecture

package btea

import (
	"github.com/pi-go/core/internal/agent"
	"github.com/pi-go/core/internal/config"
	"github.com/pi-go/core/internal/hooks"
	"github.com/pi-go/core/internal/permission"
	"github.com/pi-go/core/internal/statusline"
	"github.com/pi-go/core/pkg/ai"
)

// AppDeps bundles all dependencies for the Bubble Tea interactive app.
type AppDeps struct {
	Provider             ai.ApiProvider
	Model                *ai.Model
	Tools                []*agent.AgentTool
	Checker              *permission.Checker
	SystemPrompt         string
	Version              string
	StatusEngine         *statusline.Engine
	AutoCompactThreshold int
	Hooks                map[string][]config.HookDef
	HookEngine           *hooks.Engine
	WorkDir              string
	ScopedModels         *config.ScopedModelsConfig
	PermissionMode       permission.Mode
}
