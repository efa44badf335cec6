package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven/mocks"
)

// stubFactory is an AIServiceFactory that hands out prepared services
type stubFactory struct {
	embedding    driven.EmbeddingService
	llm          driven.LLMService
	embeddingErr error
	llmErr       error
}

func (f *stubFactory) CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if f.embeddingErr != nil {
		return nil, f.embeddingErr
	}
	return f.embedding, nil
}

func (f *stubFactory) CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if f.llmErr != nil {
		return nil, f.llmErr
	}
	return f.llm, nil
}

func TestNewServices(t *testing.T) {
	config := domain.NewRuntimeConfig("memory")
	services := NewServices(config)

	if services == nil {
		t.Fatal("expected non-nil services")
	}
	if services.Config() != config {
		t.Error("expected config to match")
	}
}

func TestServices_EmbeddingService(t *testing.T) {
	config := domain.NewRuntimeConfig("memory")
	services := NewServices(config)

	if services.EmbeddingService() != nil {
		t.Error("expected nil embedding service initially")
	}

	mock := mocks.NewMockEmbeddingService()
	services.SetEmbeddingService(mock)

	if services.EmbeddingService() == nil {
		t.Error("expected non-nil embedding service after set")
	}
	if !config.CanEmbed() {
		t.Error("expected embedding to be available")
	}

	services.SetEmbeddingService(nil)
	if services.EmbeddingService() != nil {
		t.Error("expected nil embedding service after clearing")
	}
	if config.CanEmbed() {
		t.Error("expected embedding to be unavailable")
	}
	if !mock.Closed() {
		t.Error("expected old service to be closed")
	}
}

func TestServices_LLMService(t *testing.T) {
	config := domain.NewRuntimeConfig("memory")
	services := NewServices(config)

	mock := mocks.NewMockLLMService("ok")
	services.SetLLMService(mock)

	if got := config.Capabilities().LLMModel; got != "mock-llm-model" {
		t.Errorf("expected installed model to be reported, got %q", got)
	}
	if config.CanAnswer() {
		t.Error("expected answering to need an embedding service too")
	}

	services.SetEmbeddingService(mocks.NewMockEmbeddingService())
	if !config.CanAnswer() {
		t.Error("expected answering to be available")
	}

	services.SetLLMService(nil)
	if config.Capabilities().LLMModel != "" || config.CanAnswer() {
		t.Error("expected LLM to be unavailable")
	}
	if !mock.Closed() {
		t.Error("expected old service to be closed")
	}
}

func TestServices_EmbedderAndGenerator(t *testing.T) {
	services := NewServices(domain.NewRuntimeConfig("memory"))

	if _, err := services.Embedder(); !errors.Is(err, domain.ErrEmbeddingGenerationFailed) || !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("expected unavailable embedding error, got %v", err)
	}
	if _, err := services.Generator(); !errors.Is(err, domain.ErrLLMGenerationFailed) || !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("expected unavailable generation error, got %v", err)
	}

	embedding := mocks.NewMockEmbeddingService()
	llm := mocks.NewMockLLMService("ok")
	services.SetEmbeddingService(embedding)
	services.SetLLMService(llm)

	if got, err := services.Embedder(); err != nil || got != embedding {
		t.Errorf("expected installed embedding service, got %v, %v", got, err)
	}
	if got, err := services.Generator(); err != nil || got != llm {
		t.Errorf("expected installed generation service, got %v, %v", got, err)
	}

	caps := services.Config().Capabilities()
	if caps.EmbeddingModel != embedding.Model() || caps.LLMModel != llm.Model() {
		t.Errorf("expected capabilities to carry model names, got %+v", caps)
	}
}

func TestServices_ValidateAndSetEmbedding(t *testing.T) {
	services := NewServices(domain.NewRuntimeConfig("memory"))
	ctx := context.Background()

	t.Run("successful validation", func(t *testing.T) {
		if err := services.ValidateAndSetEmbedding(ctx, mocks.NewMockEmbeddingService()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if services.EmbeddingService() == nil {
			t.Error("expected embedding service to be set")
		}
	})

	t.Run("failed validation", func(t *testing.T) {
		mock := mocks.NewMockEmbeddingService()
		mock.SetHealthError(errors.New("connection failed"))
		if err := services.ValidateAndSetEmbedding(ctx, mock); err == nil {
			t.Error("expected error")
		}
		if !mock.Closed() {
			t.Error("expected failed service to be closed")
		}
	})

	t.Run("nil service", func(t *testing.T) {
		if err := services.ValidateAndSetEmbedding(ctx, nil); err != nil {
			t.Errorf("unexpected error for nil service: %v", err)
		}
		if services.Config().CanEmbed() {
			t.Error("expected embedding to be unavailable")
		}
	})
}

func TestServices_ValidateAndSetLLM(t *testing.T) {
	services := NewServices(domain.NewRuntimeConfig("memory"))
	ctx := context.Background()

	t.Run("successful validation", func(t *testing.T) {
		if err := services.ValidateAndSetLLM(ctx, mocks.NewMockLLMService("ok")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if services.LLMService() == nil {
			t.Error("expected LLM service to be set")
		}
	})

	t.Run("failed validation", func(t *testing.T) {
		mock := mocks.NewMockLLMService("ok")
		mock.PingFn = func(ctx context.Context) error { return errors.New("connection failed") }
		if err := services.ValidateAndSetLLM(ctx, mock); err == nil {
			t.Error("expected error")
		}
		if !mock.Closed() {
			t.Error("expected failed service to be closed")
		}
	})
}

func TestServices_Configure(t *testing.T) {
	ctx := context.Background()
	settings := domain.AISettings{
		Embedding: domain.EmbeddingSettings{Provider: domain.AIProviderGemini, APIKey: "k"},
		LLM:       domain.LLMSettings{Provider: domain.AIProviderGemini, APIKey: "k"},
	}

	t.Run("installs both services", func(t *testing.T) {
		services := NewServices(domain.NewRuntimeConfig("memory"))
		factory := &stubFactory{embedding: mocks.NewMockEmbeddingService(), llm: mocks.NewMockLLMService("ok")}

		if err := services.Configure(ctx, factory, settings, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !services.Config().CanAnswer() {
			t.Error("expected answering to be available")
		}
	})

	t.Run("unconfigured providers leave flags off", func(t *testing.T) {
		services := NewServices(domain.NewRuntimeConfig("memory"))

		if err := services.Configure(ctx, &stubFactory{}, domain.AISettings{}, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if services.Config().CanEmbed() || services.Config().Capabilities().LLMModel != "" {
			t.Error("expected no capabilities")
		}
	})

	t.Run("invalid provider", func(t *testing.T) {
		services := NewServices(domain.NewRuntimeConfig("memory"))
		bad := settings
		bad.LLM.Provider = "anthropic"

		err := services.Configure(ctx, &stubFactory{}, bad, false)
		if !errors.Is(err, domain.ErrInvalidProvider) {
			t.Errorf("expected ErrInvalidProvider, got %v", err)
		}
	})

	t.Run("llm creation failure closes embedding", func(t *testing.T) {
		services := NewServices(domain.NewRuntimeConfig("memory"))
		embedding := mocks.NewMockEmbeddingService()
		factory := &stubFactory{embedding: embedding, llmErr: errors.New("bad key")}

		if err := services.Configure(ctx, factory, settings, false); err == nil {
			t.Fatal("expected error")
		}
		if !embedding.Closed() {
			t.Error("expected embedding service to be closed")
		}
		if services.Config().CanEmbed() {
			t.Error("expected nothing to be installed")
		}
	})

	t.Run("failed health check", func(t *testing.T) {
		services := NewServices(domain.NewRuntimeConfig("memory"))
		embedding := mocks.NewMockEmbeddingService()
		embedding.SetHealthError(errors.New("unreachable"))
		llm := mocks.NewMockLLMService("ok")

		err := services.Configure(ctx, &stubFactory{embedding: embedding, llm: llm}, settings, true)
		if err == nil {
			t.Fatal("expected error")
		}
		if !llm.Closed() {
			t.Error("expected llm service to be closed")
		}
	})
}

func TestServices_Close(t *testing.T) {
	config := domain.NewRuntimeConfig("memory")
	services := NewServices(config)

	embMock := mocks.NewMockEmbeddingService()
	llmMock := mocks.NewMockLLMService("ok")

	services.SetEmbeddingService(embMock)
	services.SetLLMService(llmMock)

	if err := services.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if !embMock.Closed() {
		t.Error("expected embedding service to be closed")
	}
	if !llmMock.Closed() {
		t.Error("expected LLM service to be closed")
	}
	if config.CanEmbed() || config.Capabilities().LLMModel != "" {
		t.Error("expected capabilities to be cleared")
	}
}

func TestServices_ReplaceService_ClosesOld(t *testing.T) {
	services := NewServices(domain.NewRuntimeConfig("memory"))

	old := mocks.NewMockEmbeddingService()
	replacement := mocks.NewMockEmbeddingService()

	services.SetEmbeddingService(old)
	services.SetEmbeddingService(replacement)

	if !old.Closed() {
		t.Error("expected old service to be closed when replaced")
	}
	if replacement.Closed() {
		t.Error("expected new service to remain open")
	}
}
