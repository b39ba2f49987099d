// internal/core/ports/text_generator.go
package ports

import "context"

// TextGenerator is the language-model collaborator used for insights and
// for interpreting free text into structured rows.
type TextGenerator interface {
	// Configured reports whether a credential is available.
	Configured() bool
	// GenerateText returns the model's text for prompt. operation labels
	// the call in logs and metrics.
	GenerateText(ctx context.Context, operation, prompt string) (string, error)
	// GenerateJSON strips Markdown fences from the response and decodes it
	// into dest.
	GenerateJSON(ctx context.Context, operation, prompt string, dest interface{}) error
}
