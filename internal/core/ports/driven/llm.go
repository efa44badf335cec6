package driven

import (
	"context"
)

// LLMService generates free text from a prompt
type LLMService interface {
	// Generate returns the model's completion for prompt
	Generate(ctx context.Context, prompt string) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the LLM service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the LLM service
	Close() error
}
