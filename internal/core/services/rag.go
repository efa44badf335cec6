package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
	"github.com/custodia-labs/resumelens/internal/core/ports/driving"
	"github.com/custodia-labs/resumelens/internal/prompt"
	"github.com/custodia-labs/resumelens/internal/runtime"
	"github.com/custodia-labs/resumelens/internal/similarity"
)

// Ensure ragService implements RAGService
var _ driving.RAGService = (*ragService)(nil)

// ragService answers questions about a session's document.
// It runs a fixed pipeline with no retries:
//  1. Look up the session
//  2. Short-circuit when no document has been embedded
//  3. Embed the query
//  4. Retrieve the closest chunks
//  5. Assemble the prompt
//  6. Generate the answer
//  7. Parse citations and score confidence
type ragService struct {
	store       driven.SessionStore
	services    *runtime.Services
	defaultTopK int
	logger      *slog.Logger
}

// RAGServiceConfig holds dependencies for the RAGService.
type RAGServiceConfig struct {
	Store       driven.SessionStore
	Services    *runtime.Services
	DefaultTopK int
	Logger      *slog.Logger
}

// NewRAGService creates a new RAGService
func NewRAGService(cfg RAGServiceConfig) driving.RAGService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ragService{
		store:       cfg.Store,
		services:    cfg.Services,
		defaultTopK: cfg.DefaultTopK,
		logger:      logger.With("component", "rag"),
	}
}

// Query answers query from the session's document
func (s *ragService) Query(ctx context.Context, sessionID, query string, topK int) (*domain.RAGResponse, error) {
	startTime := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", domain.ErrInvalidInput)
	}

	logger := s.logger.With("session_id", sessionID)

	// Step 1: Session lookup
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		logger.Debug("session lookup failed", "error", err)
		return nil, err
	}

	// Step 2: Nothing to answer from yet
	if !session.HasDocument() {
		logger.Info("query on session without document")
		return domain.NewNoDocumentResponse(), nil
	}

	// Step 3: Embed the query
	embedder, err := s.services.Embedder()
	if err != nil {
		return nil, err
	}
	queryEmbedding, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		perr := domain.NewProviderError(domain.ErrEmbeddingGenerationFailed, err)
		logger.Warn("query embedding failed", "kind", perr.Kind, "error", err)
		return nil, perr
	}

	// Step 4: Retrieve
	k := resolveTopK(topK, s.defaultTopK)
	results, err := similarity.Search(queryEmbedding, session.Embeddings, session.Chunks, k)
	if err != nil {
		if errors.Is(err, domain.ErrDimensionMismatch) {
			logger.Error("retrieval failed", "error", err)
		}
		return nil, err
	}
	if len(results) == 0 {
		logger.Info("no relevant chunks", "top_k", k)
		return domain.NewNoRelevantResponse(), nil
	}
	logger.Debug("chunks retrieved", "top_k", k, "results", len(results), "best_score", results[0].Score)

	// Step 5: Prompt assembly
	text := prompt.Build(query, results)

	// Step 6: Generate
	llm, err := s.services.Generator()
	if err != nil {
		return nil, err
	}
	raw, err := llm.Generate(ctx, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		perr := domain.NewProviderError(domain.ErrLLMGenerationFailed, err)
		logger.Warn("generation failed", "kind", perr.Kind, "error", err)
		return nil, perr
	}

	// Step 7: Parse
	response := prompt.Parse(raw, results)

	logger.Info("query answered",
		"sources", len(response.Sources),
		"confidence", response.Confidence,
		"model", llm.Model(),
		"duration", time.Since(startTime))
	return response, nil
}
