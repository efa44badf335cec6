package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
	"github.com/custodia-labs/resumelens/internal/core/ports/driving"
	"github.com/custodia-labs/resumelens/internal/similarity"
)

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

// searchService implements the SearchService interface
type searchService struct {
	store       driven.SessionStore
	defaultTopK int
	logger      *slog.Logger
}

// NewSearchService creates a new SearchService.
// defaultTopK applies when a request passes zero; it is bounded to [1, 50].
func NewSearchService(store driven.SessionStore, defaultTopK int, logger *slog.Logger) driving.SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &searchService{
		store:       store,
		defaultTopK: defaultTopK,
		logger:      logger.With("component", "search-service"),
	}
}

// Search ranks the session's chunks against queryEmbedding
func (s *searchService) Search(ctx context.Context, sessionID string, queryEmbedding []float32, topK int) ([]domain.SearchResult, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", domain.ErrInvalidInput)
	}
	if len(queryEmbedding) == 0 {
		return nil, fmt.Errorf("%w: query_embedding is required", domain.ErrInvalidInput)
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasDocument() {
		return []domain.SearchResult{}, nil
	}

	results, err := similarity.Search(queryEmbedding, session.Embeddings, session.Chunks, resolveTopK(topK, s.defaultTopK))
	if err != nil {
		if errors.Is(err, domain.ErrDimensionMismatch) {
			s.logger.Error("similarity search failed", "session_id", sessionID, "error", err)
		}
		return nil, err
	}
	return results, nil
}

// resolveTopK applies the configured default for zero, then the global bounds.
func resolveTopK(topK, defaultTopK int) int {
	if topK == 0 {
		topK = defaultTopK
	}
	return domain.ClampTopK(topK)
}
