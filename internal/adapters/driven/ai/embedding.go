package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
	"github.com/tmc/langchaingo/embeddings"
)

// Ensure Embedding implements EmbeddingService
var _ driven.EmbeddingService = (*Embedding)(nil)

// Embedding implements EmbeddingService on top of a langchaingo embedder.
// The same type serves every provider; only the client underneath changes.
type Embedding struct {
	embedder embeddings.Embedder
	provider domain.AIProvider
	model    string
	closer   io.Closer
	logger   *slog.Logger
}

// NewEmbedding wraps a langchaingo embedder.
func NewEmbedding(embedder embeddings.Embedder, provider domain.AIProvider, model string) *Embedding {
	return &Embedding{
		embedder: embedder,
		provider: provider,
		model:    model,
		logger:   slog.Default().With("component", "embedding", "provider", string(provider)),
	}
}

// EmbedDocument generates the embedding for one document chunk
func (e *Embedding) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Debug("embed document failed", "length", len(text), "error", err)
		return nil, ClassifyError(err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, errors.New("provider returned no embedding")
	}
	return vectors[0], nil
}

// EmbedQuery generates an embedding for a search query
func (e *Embedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vector, err := e.embedder.EmbedQuery(ctx, query)
	if err != nil {
		e.logger.Debug("embed query failed", "error", err)
		return nil, ClassifyError(err)
	}
	if len(vector) == 0 {
		return nil, errors.New("provider returned no embedding")
	}
	return vector, nil
}

// Model returns the model name being used
func (e *Embedding) Model() string {
	return e.model
}

// HealthCheck verifies the embedding service is available
func (e *Embedding) HealthCheck(ctx context.Context) error {
	_, err := e.EmbedQuery(ctx, "health check")
	return err
}

// Close releases the underlying client when it holds resources
func (e *Embedding) Close() error {
	if e.closer != nil {
		return e.closer.Close()
	}
	return nil
}
