package ai

import (
	"context"
	"io"
	"log/slog"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
	"github.com/tmc/langchaingo/llms"
)

// Ensure LLM implements LLMService
var _ driven.LLMService = (*LLM)(nil)

// LLM implements LLMService on top of a langchaingo model.
type LLM struct {
	model       llms.Model
	provider    domain.AIProvider
	name        string
	temperature float64
	maxTokens   int
	closer      io.Closer
	logger      *slog.Logger
}

// NewLLM wraps a langchaingo model.
func NewLLM(model llms.Model, provider domain.AIProvider, name string, temperature float64, maxTokens int) *LLM {
	return &LLM{
		model:       model,
		provider:    provider,
		name:        name,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      slog.Default().With("component", "llm", "provider", string(provider)),
	}
}

// Generate returns the model's completion for prompt
func (l *LLM) Generate(ctx context.Context, prompt string) (string, error) {
	opts := []llms.CallOption{llms.WithTemperature(l.temperature)}
	if l.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(l.maxTokens))
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, l.model, prompt, opts...)
	if err != nil {
		l.logger.Debug("generate failed", "prompt_length", len(prompt), "error", err)
		return "", ClassifyError(err)
	}
	return out, nil
}

// Model returns the model name being used
func (l *LLM) Model() string {
	return l.name
}

// Ping makes a minimal generation call to verify connectivity
func (l *LLM) Ping(ctx context.Context) error {
	_, err := llms.GenerateFromSinglePrompt(ctx, l.model, "Reply with OK.", llms.WithMaxTokens(5))
	if err != nil {
		return ClassifyError(err)
	}
	return nil
}

// Close releases the underlying client when it holds resources
func (l *LLM) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
