package driving

import (
	"context"

	"github.com/custodia-labs/resumelens/internal/core/domain"
)

// ChunkRequest describes text to split into chunks
type ChunkRequest struct {
	Text string

	// SessionID is optional; when set the session must exist
	SessionID string

	// MaxChunkSize in characters. Zero uses the configured default.
	MaxChunkSize int

	// Overlap as a fraction of MaxChunkSize. Nil uses the configured default.
	Overlap *float64

	SourceType domain.SourceType
	Section    *string
	PageNumber *int
}

// DocumentService turns documents into chunks and embeddings
type DocumentService interface {
	// Chunk splits text into overlapping chunks
	Chunk(ctx context.Context, req ChunkRequest) ([]domain.Chunk, error)

	// EmbedAndStore embeds every chunk and stores chunks and embeddings in
	// the session. Nothing is stored unless every chunk is embedded.
	EmbedAndStore(ctx context.Context, sessionID string, chunks []domain.Chunk) (*domain.SessionInfo, error)

	// Extract converts an uploaded document into plain text
	Extract(ctx context.Context, content []byte, mimeType string) (string, error)
}
