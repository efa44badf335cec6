package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/resumelens/internal/chunker"
	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
	"github.com/custodia-labs/resumelens/internal/core/ports/driving"
	"github.com/custodia-labs/resumelens/internal/runtime"
	"github.com/panjf2000/ants/v2"
)

// DefaultEmbeddingConcurrency is the number of chunks embedded at once per document.
const DefaultEmbeddingConcurrency = 4

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

// documentService implements the DocumentService interface
type documentService struct {
	store       driven.SessionStore
	services    *runtime.Services
	normalisers driven.NormaliserRegistry
	chunking    chunker.Config
	chunkerOpts []chunker.Option
	concurrency int
	now         func() time.Time
	logger      *slog.Logger
}

// DocumentServiceConfig holds dependencies for the DocumentService.
type DocumentServiceConfig struct {
	Store       driven.SessionStore
	Services    *runtime.Services
	Normalisers driven.NormaliserRegistry

	// Chunking holds the defaults applied when a request leaves them unset
	Chunking chunker.Config

	// ChunkerOptions are passed to every chunker (e.g. a fixed ID generator)
	ChunkerOptions []chunker.Option

	// Concurrency bounds in-flight embedding calls per document
	Concurrency int

	Logger *slog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(cfg DocumentServiceConfig) driving.DocumentService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	chunking := cfg.Chunking
	if chunking.MaxChunkSize == 0 {
		chunking = chunker.DefaultConfig()
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = DefaultEmbeddingConcurrency
	}

	return &documentService{
		store:       cfg.Store,
		services:    cfg.Services,
		normalisers: cfg.Normalisers,
		chunking:    chunking,
		chunkerOpts: cfg.ChunkerOptions,
		concurrency: concurrency,
		now:         time.Now,
		logger:      logger.With("component", "document-service"),
	}
}

// Chunk splits text into overlapping chunks
func (s *documentService) Chunk(ctx context.Context, req driving.ChunkRequest) ([]domain.Chunk, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}

	cfg := s.chunking
	if req.MaxChunkSize != 0 {
		cfg.MaxChunkSize = req.MaxChunkSize
	}
	if req.Overlap != nil {
		cfg.Overlap = *req.Overlap
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: max_chunk_size must be between %d and %d and overlap between 0 and %.1f",
			domain.ErrInvalidInput, chunker.MinChunkSize, chunker.MaxChunkSize, chunker.MaxOverlap)
	}

	sourceType := req.SourceType
	if req.SessionID != "" {
		session, err := s.store.Get(ctx, req.SessionID)
		if err != nil {
			return nil, err
		}
		if sourceType == "" {
			sourceType = session.SourceType
		}
	}
	if sourceType == "" {
		sourceType = domain.SourceTypeResume
	}
	if !sourceType.Valid() {
		return nil, fmt.Errorf("%w: unknown source_type %q", domain.ErrInvalidInput, sourceType)
	}

	metadata := domain.ChunkMetadata{
		Section:    req.Section,
		PageNumber: req.PageNumber,
		SourceType: sourceType,
	}
	chunks := chunker.New(cfg, s.chunkerOpts...).Chunk(req.Text, metadata)

	s.logger.Debug("text chunked",
		"characters", len([]rune(req.Text)),
		"chunks", len(chunks),
		"max_chunk_size", cfg.MaxChunkSize,
		"overlap", cfg.Overlap)
	return chunks, nil
}

// EmbedAndStore embeds every chunk and replaces the session's document.
// The session is written once, after every embedding has succeeded.
func (s *documentService) EmbedAndStore(ctx context.Context, sessionID string, chunks []domain.Chunk) (*domain.SessionInfo, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", domain.ErrInvalidInput)
	}
	for _, c := range chunks {
		if strings.TrimSpace(c.Text) == "" {
			return nil, fmt.Errorf("%w: chunk %d has no text", domain.ErrInvalidInput, c.Index)
		}
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	embedder, err := s.services.Embedder()
	if err != nil {
		return nil, err
	}

	chunks = domain.CloneChunks(chunks)
	for i := range chunks {
		if chunks[i].Metadata.SourceType == "" {
			chunks[i].Metadata.SourceType = session.SourceType
		}
	}

	start := time.Now()
	embeddings, err := s.embedAll(ctx, embedder, chunks)
	if err != nil {
		s.logger.Warn("embedding failed", "session_id", sessionID, "chunks", len(chunks), "error", err)
		return nil, err
	}

	updated, err := s.store.UpdateEmbeddings(ctx, sessionID, chunks, embeddings)
	if err != nil {
		return nil, err
	}

	s.logger.Info("document embedded",
		"session_id", sessionID,
		"chunks", len(chunks),
		"model", embedder.Model(),
		"duration", time.Since(start))
	return updated.Info(s.now()), nil
}

// embedAll embeds chunks on a bounded worker pool. The first failure cancels
// the calls still pending; results are only returned when all succeed.
func (s *documentService) embedAll(ctx context.Context, embedder driven.EmbeddingService, chunks []domain.Chunk) ([][]float32, error) {
	if len(chunks) == 0 {
		return [][]float32{}, nil
	}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool, err := ants.NewPool(s.concurrency)
	if err != nil {
		return nil, fmt.Errorf("create embedding pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	embeddings := make([][]float32, len(chunks))
	for i := range chunks {
		i := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if workCtx.Err() != nil {
				return
			}
			vector, err := embedder.EmbedDocument(workCtx, chunks[i].Text)
			if err != nil {
				fail(fmt.Errorf("chunk %d: %w", chunks[i].Index, err))
				return
			}
			embeddings[i] = vector
		})
		if submitErr != nil {
			wg.Done()
			fail(fmt.Errorf("submit embedding task: %w", submitErr))
			break
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, domain.NewProviderError(domain.ErrEmbeddingGenerationFailed, firstErr)
	}

	width := len(embeddings[0])
	for i, v := range embeddings {
		if len(v) == 0 || len(v) != width {
			return nil, fmt.Errorf("%w: embedding %d has %d dimensions, expected %d",
				domain.ErrDimensionMismatch, i, len(v), width)
		}
	}
	return embeddings, nil
}

// Extract converts an uploaded document into plain text
func (s *documentService) Extract(ctx context.Context, content []byte, mimeType string) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty document", domain.ErrInvalidInput)
	}

	normaliser := s.normalisers.Get(mimeType)
	if normaliser == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedMediaType, mimeType)
	}

	text, err := normaliser.Normalise(ctx, content, mimeType)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentProcessingFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrDocumentProcessingFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: no text found in document", domain.ErrDocumentProcessingFailed)
	}

	s.logger.Debug("document extracted", "mime_type", mimeType, "bytes", len(content), "characters", len([]rune(text)))
	return text, nil
}
