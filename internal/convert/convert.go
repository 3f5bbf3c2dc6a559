// ABOUTME: UI-message to provider-message conversion and assistant content
// ABOUTME: transforms, pulled out of the inline shaping each provider used to do

package convert

import (
	"fmt"

	"github.com/pi-go/core/pkg/ai"
)

// UIAttachment is binary content (image, PDF, audio) attached to a UI-level
// message, before it has been resolved into a provider content block.
type UIAttachment struct {
	MimeType string
	Data     string // base64
	Filename string
}

// UIMessage is a message as the UI layer produces it: plain text plus
// zero or more attachments, not yet shaped into provider content blocks.
type UIMessage struct {
	Role        ai.Role
	Text        string
	Attachments []UIAttachment
}

// Options configures Convert.
type Options struct {
	RootPath     string // used to resolve relative attachment paths, when present
	SystemPrompt string // when non-empty, injected as the leading system message
}

// supportedImageMimeTypes lists the media types Convert resolves into
// ai.ContentImage blocks. Anything else is dropped with a warning.
var supportedImageMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Convert resolves UI-level messages into provider-level messages: text
// becomes a text content block, supported image attachments become image
// content blocks, and unsupported attachment media types are dropped with a
// warning rather than failing the conversion. When opts.SystemPrompt is
// non-empty it is injected as the leading system message.
func Convert(uiMessages []UIMessage, opts Options) (messages []ai.Message, warnings []string) {
	if opts.SystemPrompt != "" {
		messages = append(messages, ai.NewTextMessage(ai.RoleSystem, opts.SystemPrompt))
	}

	for _, m := range uiMessages {
		var content []ai.Content
		if m.Text != "" {
			content = append(content, ai.Content{Type: ai.ContentText, Text: m.Text})
		}

		for _, a := range m.Attachments {
			if !supportedImageMimeTypes[a.MimeType] {
				warnings = append(warnings, fmt.Sprintf("dropping attachment %q: unsupported media type %q", a.Filename, a.MimeType))
				continue
			}
			content = append(content, ai.Content{Type: ai.ContentImage, MediaType: a.MimeType, Data: a.Data})
		}

		messages = append(messages, ai.Message{Role: m.Role, Content: content})
	}

	return messages, warnings
}

// ProviderOptions carries provider-specific hints produced alongside a
// transformed content block, e.g. whether reasoning was kept as a
// dedicated structured field.
type ProviderOptions struct {
	ReasoningAsStructured bool
}

// TransformAssistantContent applies the provider reasoning-content rule:
// models that support extended thinking keep ContentThinking parts as a
// dedicated structured field; models that don't get the reasoning text
// collapsed into a plain text block inline with the rest of the content,
// in emission order.
func TransformAssistantContent(parts []ai.Content, model *ai.Model) ([]ai.Content, *ProviderOptions) {
	if model != nil && model.SupportsThinking {
		return parts, &ProviderOptions{ReasoningAsStructured: true}
	}

	out := make([]ai.Content, 0, len(parts))
	for _, p := range parts {
		if p.Type == ai.ContentThinking {
			out = append(out, ai.Content{Type: ai.ContentText, Text: "[reasoning] " + p.Thinking})
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
