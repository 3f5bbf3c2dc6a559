// ABOUTME: Adaptive stream options: clamps MaxTokens and sizes the transport
// ABOUTME: buffer from a model profile before each provider.Stream call

package agent

import (
	"github.com/pi-go/core/internal/perf"
	"github.com/pi-go/core/internal/session"
	"github.com/pi-go/core/pkg/ai"
)

// AdaptiveConfig wires a model profile into the agent loop so each stream
// call's options are derived from the actual input size rather than fixed
// at construction time.
type AdaptiveConfig struct {
	Profile perf.ModelProfile
}

// SetAdaptive enables adaptive stream options derived from profile. Passing
// nil disables adaptation and leaves caller-supplied StreamOptions untouched.
func (a *Agent) SetAdaptive(cfg *AdaptiveConfig) {
	a.adaptive = cfg
}

// applyAdaptive returns opts adjusted for the current context's estimated
// input size: MaxTokens is clamped to the profile-derived budget and
// StreamBufferSize is set from the model's latency class. If no adaptive
// config is set, opts is returned unchanged.
func (a *Agent) applyAdaptive(llmCtx *ai.Context, opts *ai.StreamOptions) *ai.StreamOptions {
	if a.adaptive == nil {
		return opts
	}

	inputTokens := session.EstimateMessagesTokens(llmCtx.Messages)
	params := perf.Decide(a.adaptive.Profile, inputTokens, a.adaptive.Profile.ContextWindow)

	adapted := *opts
	if adapted.MaxTokens == 0 || adapted.MaxTokens > params.MaxOutputTokens {
		adapted.MaxTokens = params.MaxOutputTokens
	}
	adapted.StreamBufferSize = params.StreamBufferSize
	return &adapted
}
