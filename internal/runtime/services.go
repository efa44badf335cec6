// Package runtime holds the AI services the request path uses and keeps the
// readiness capabilities in step with them.
package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
)

// Services is the registry of the installed embedding and generation
// services. Either may be absent; every install or removal is mirrored into
// the RuntimeConfig that /ready reports from.
type Services struct {
	mu sync.RWMutex

	config *domain.RuntimeConfig

	embedding driven.EmbeddingService
	llm       driven.LLMService
}

// NewServices creates an empty registry reporting into config.
func NewServices(config *domain.RuntimeConfig) *Services {
	return &Services{
		config: config,
	}
}

// Config returns the capability record this registry maintains.
func (s *Services) Config() *domain.RuntimeConfig {
	return s.config
}

// EmbeddingService returns the installed embedding service, or nil.
func (s *Services) EmbeddingService() driven.EmbeddingService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.embedding
}

// LLMService returns the installed generation service, or nil.
func (s *Services) LLMService() driven.LLMService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.llm
}

// Embedder returns the embedding service for a request. Without one the
// error is an embedding-stage ProviderError wrapping ErrServiceUnavailable.
func (s *Services) Embedder() (driven.EmbeddingService, error) {
	if svc := s.EmbeddingService(); svc != nil {
		return svc, nil
	}
	return nil, domain.NewProviderError(domain.ErrEmbeddingGenerationFailed, domain.ErrServiceUnavailable)
}

// Generator returns the generation service for a request. Without one the
// error is a generation-stage ProviderError wrapping ErrServiceUnavailable.
func (s *Services) Generator() (driven.LLMService, error) {
	if svc := s.LLMService(); svc != nil {
		return svc, nil
	}
	return nil, domain.NewProviderError(domain.ErrLLMGenerationFailed, domain.ErrServiceUnavailable)
}

// SetEmbeddingService installs svc (nil removes it), closing the previous one.
func (s *Services) SetEmbeddingService(svc driven.EmbeddingService) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embedding != nil {
		_ = s.embedding.Close()
	}
	s.embedding = svc

	if svc == nil {
		s.config.SetEmbedding(false, "")
		return
	}
	s.config.SetEmbedding(true, svc.Model())
}

// SetLLMService installs svc (nil removes it), closing the previous one.
func (s *Services) SetLLMService(svc driven.LLMService) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.llm != nil {
		_ = s.llm.Close()
	}
	s.llm = svc

	if svc == nil {
		s.config.SetLLM(false, "")
		return
	}
	s.config.SetLLM(true, svc.Model())
}

// Close removes and closes both services.
func (s *Services) Close() error {
	s.SetEmbeddingService(nil)
	s.SetLLMService(nil)
	return nil
}

// ValidateAndSetEmbedding installs svc once its health check passes.
// A failing svc is closed and the current service is left in place.
func (s *Services) ValidateAndSetEmbedding(ctx context.Context, svc driven.EmbeddingService) error {
	if svc != nil {
		if err := svc.HealthCheck(ctx); err != nil {
			_ = svc.Close()
			return err
		}
	}
	s.SetEmbeddingService(svc)
	return nil
}

// ValidateAndSetLLM installs svc once it answers a ping.
// A failing svc is closed and the current service is left in place.
func (s *Services) ValidateAndSetLLM(ctx context.Context, svc driven.LLMService) error {
	if svc != nil {
		if err := svc.Ping(ctx); err != nil {
			_ = svc.Close()
			return err
		}
	}
	s.SetLLMService(svc)
	return nil
}

// Configure builds both services with factory and installs them. With
// validate set each one must pass its connectivity check; on any failure
// nothing new is installed.
func (s *Services) Configure(ctx context.Context, factory driven.AIServiceFactory, settings domain.AISettings, validate bool) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	embedding, err := factory.CreateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return fmt.Errorf("embedding service: %w", err)
	}
	llm, err := factory.CreateLLMService(ctx, &settings.LLM)
	if err != nil {
		closeAll(embedding, nil)
		return fmt.Errorf("llm service: %w", err)
	}

	if validate {
		if embedding != nil {
			if err := embedding.HealthCheck(ctx); err != nil {
				closeAll(embedding, llm)
				return fmt.Errorf("embedding service: %w", err)
			}
		}
		if llm != nil {
			if err := llm.Ping(ctx); err != nil {
				closeAll(embedding, llm)
				return fmt.Errorf("llm service: %w", err)
			}
		}
	}

	s.SetEmbeddingService(embedding)
	s.SetLLMService(llm)
	return nil
}

func closeAll(embedding driven.EmbeddingService, llm driven.LLMService) {
	if embedding != nil {
		_ = embedding.Close()
	}
	if llm != nil {
		_ = llm.Close()
	}
}
