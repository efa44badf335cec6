package driving

import (
	"context"

	"github.com/custodia-labs/resumelens/internal/core/domain"
)

// SearchService ranks a session's chunks against a query vector
type SearchService interface {
	// Search returns up to topK chunks ordered by descending similarity.
	// A session without a document yields an empty result.
	Search(ctx context.Context, sessionID string, queryEmbedding []float32, topK int) ([]domain.SearchResult, error)
}

// RAGService answers questions about a session's document
type RAGService interface {
	// Query embeds the question, retrieves the closest chunks and asks the
	// LLM for an answer grounded in them.
	Query(ctx context.Context, sessionID, query string, topK int) (*domain.RAGResponse, error)
}
