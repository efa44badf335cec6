package driving

import (
	"context"

	"github.com/custodia-labs/resumelens/internal/core/domain"
)

// SessionService manages the lifecycle of document sessions
type SessionService interface {
	// Create starts a new empty session for the given source type
	Create(ctx context.Context, sourceType domain.SourceType) (*domain.SessionInfo, error)

	// Get retrieves a live session's summary
	Get(ctx context.Context, id string) (*domain.SessionInfo, error)

	// Delete removes a session. Reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// Stats returns the number of live sessions and the capacity
	Stats(ctx context.Context) (*domain.SessionStats, error)
}
