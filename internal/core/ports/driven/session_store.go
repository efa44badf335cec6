package driven

import (
	"context"

	"github.com/custodia-labs/resumelens/internal/core/domain"
)

// SessionStore holds short-lived sessions with their chunks and embeddings.
// Every read returns a deep copy; an expired session is indistinguishable
// from a missing one.
type SessionStore interface {
	// Create inserts a new empty session expiring one TTL from now.
	// Returns ErrCapacityExceeded if the store is still full after evicting
	// expired sessions.
	Create(ctx context.Context, sourceType domain.SourceType) (*domain.Session, error)

	// Get retrieves a live session by ID.
	// An expired session is evicted and ErrSessionNotFound returned.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes a session. Reports whether anything was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// UpdateEmbeddings atomically replaces the session's chunks and embeddings.
	// Fails without partial mutation if the session is missing or expired, or
	// if the slices are not the same length.
	UpdateEmbeddings(ctx context.Context, id string, chunks []domain.Chunk, embeddings [][]float32) (*domain.Session, error)

	// List returns all live sessions
	List(ctx context.Context) ([]*domain.Session, error)

	// Count returns the number of live sessions
	Count(ctx context.Context) (int, error)

	// Sweep evicts every expired session and returns how many were removed
	Sweep(ctx context.Context) (int, error)

	// MaxSessions returns the configured capacity
	MaxSessions() int

	// Start launches the background sweep loop
	Start(ctx context.Context)

	// Close stops the sweep loop and releases resources
	Close() error
}
