package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
	"github.com/custodia-labs/resumelens/internal/core/ports/driving"
)

// Ensure sessionService implements SessionService
var _ driving.SessionService = (*sessionService)(nil)

// sessionService implements the SessionService interface
type sessionService struct {
	store  driven.SessionStore
	now    func() time.Time
	logger *slog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(store driven.SessionStore, logger *slog.Logger) driving.SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &sessionService{
		store:  store,
		now:    time.Now,
		logger: logger.With("component", "session-service"),
	}
}

// Create starts a new empty session for the given source type
func (s *sessionService) Create(ctx context.Context, sourceType domain.SourceType) (*domain.SessionInfo, error) {
	if !sourceType.Valid() {
		return nil, fmt.Errorf("%w: source_type must be %q or %q", domain.ErrInvalidInput, domain.SourceTypeResume, domain.SourceTypeJD)
	}

	session, err := s.store.Create(ctx, sourceType)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session created", "session_id", session.ID, "source_type", sourceType)
	return session.Info(s.now()), nil
}

// Get retrieves a live session's summary
func (s *sessionService) Get(ctx context.Context, id string) (*domain.SessionInfo, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return session.Info(s.now()), nil
}

// Delete removes a session. Reports whether it existed.
func (s *sessionService) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("session deleted", "session_id", id)
	}
	return deleted, nil
}

// Stats returns the number of live sessions and the capacity
func (s *sessionService) Stats(ctx context.Context) (*domain.SessionStats, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.SessionStats{
		Active:      count,
		MaxSessions: s.store.MaxSessions(),
	}, nil
}
