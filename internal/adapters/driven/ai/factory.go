package ai

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Default models per provider, used when settings leave the model empty.
const (
	DefaultGeminiModel          = "gemini-2.5-flash"
	DefaultGeminiEmbeddingModel = "embedding-001"
	DefaultOpenAIModel          = "gpt-4o-mini"
	DefaultOpenAIEmbeddingModel = "text-embedding-3-small"
	DefaultOllamaModel          = "llama3.2"
	DefaultOllamaEmbeddingModel = "nomic-embed-text"
	DefaultOllamaURL            = "http://localhost:11434"
)

// Ensure Factory implements AIServiceFactory
var _ driven.AIServiceFactory = (*Factory)(nil)

// Factory creates AI services based on configuration
type Factory struct {
	rateLimit *RateLimitConfig
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithRateLimit throttles every embedding service the factory creates.
func WithRateLimit(cfg RateLimitConfig) FactoryOption {
	return func(f *Factory) {
		f.rateLimit = &cfg
	}
}

// NewFactory creates a new AI service factory
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateEmbeddingService creates an embedding service from settings.
// Returns nil, nil when settings are not configured.
func (f *Factory) CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		client embeddings.EmbedderClient
		model  = settings.Model
		err    error
	)

	switch settings.Provider {
	case domain.AIProviderGemini:
		if model == "" {
			model = DefaultGeminiEmbeddingModel
		}
		client, err = googleai.New(ctx,
			googleai.WithAPIKey(settings.APIKey),
			googleai.WithDefaultEmbeddingModel(model),
		)
	case domain.AIProviderOpenAI:
		if model == "" {
			model = DefaultOpenAIEmbeddingModel
		}
		opts := []openai.Option{
			openai.WithToken(settings.APIKey),
			openai.WithEmbeddingModel(model),
		}
		if settings.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(settings.BaseURL))
		}
		client, err = openai.New(opts...)
	case domain.AIProviderOllama:
		if model == "" {
			model = DefaultOllamaEmbeddingModel
		}
		client, err = ollama.New(
			ollama.WithServerURL(baseURLOr(settings.BaseURL, DefaultOllamaURL)),
			ollama.WithModel(model),
		)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s embedding client: %w", settings.Provider, err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("create %s embedder: %w", settings.Provider, err)
	}

	svc := NewEmbedding(embedder, settings.Provider, model)
	if c, ok := client.(io.Closer); ok {
		svc.closer = c
	}

	if f.rateLimit != nil {
		return NewRateLimitedEmbedding(svc, NewRateLimiter(*f.rateLimit)), nil
	}
	return svc, nil
}

// CreateLLMService creates an LLM service from settings.
// Returns nil, nil when settings are not configured.
func (f *Factory) CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		model llms.Model
		name  = settings.Model
		err   error
	)

	switch settings.Provider {
	case domain.AIProviderGemini:
		if name == "" {
			name = DefaultGeminiModel
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(settings.APIKey),
			googleai.WithDefaultModel(name),
		)
	case domain.AIProviderOpenAI:
		if name == "" {
			name = DefaultOpenAIModel
		}
		opts := []openai.Option{
			openai.WithToken(settings.APIKey),
			openai.WithModel(name),
		}
		if settings.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(settings.BaseURL))
		}
		model, err = openai.New(opts...)
	case domain.AIProviderOllama:
		if name == "" {
			name = DefaultOllamaModel
		}
		model, err = ollama.New(
			ollama.WithServerURL(baseURLOr(settings.BaseURL, DefaultOllamaURL)),
			ollama.WithModel(name),
		)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s llm client: %w", settings.Provider, err)
	}

	svc := NewLLM(model, settings.Provider, name, settings.Temperature, settings.MaxTokens)
	if c, ok := model.(io.Closer); ok {
		svc.closer = c
	}
	return svc, nil
}

func baseURLOr(url, fallback string) string {
	if url == "" {
		return fallback
	}
	return url
}
