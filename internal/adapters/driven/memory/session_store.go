// Package memory provides the in-process session store.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
	"github.com/custodia-labs/resumelens/internal/sweeper"
	"github.com/google/uuid"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

const (
	DefaultTTL         = 25 * time.Minute
	DefaultMaxSessions = 100
)

// Config holds configuration for the in-memory store.
type Config struct {
	TTL           time.Duration // default: 25m
	MaxSessions   int           // default: 100
	SweepInterval time.Duration // default: 60s
	Logger        *slog.Logger
	Clock         func() time.Time // default: time.Now
	NewID         func() string    // default: uuid.NewString
}

// SessionStore implements driven.SessionStore in process memory.
// A single mutex guards the map and every multi-field read or write; provider
// calls never happen under it.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session

	ttl         time.Duration
	maxSessions int
	now         func() time.Time
	newID       func() string
	logger      *slog.Logger
	sweeper     *sweeper.Sweeper
}

// NewSessionStore creates a new in-memory SessionStore.
// Call Start to run the background sweep.
func NewSessionStore(cfg Config) *SessionStore {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}

	s := &SessionStore{
		sessions:    make(map[string]*domain.Session),
		ttl:         cfg.TTL,
		maxSessions: cfg.MaxSessions,
		now:         cfg.Clock,
		newID:       cfg.NewID,
		logger:      logger.With("component", "memory_session_store"),
	}
	s.sweeper = sweeper.New(sweeper.Config{
		Sweep:    s.Sweep,
		Logger:   logger,
		Interval: cfg.SweepInterval,
	})
	return s
}

// Create inserts a new empty session.
func (s *SessionStore) Create(ctx context.Context, sourceType domain.SourceType) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if len(s.sessions) >= s.maxSessions {
		s.sweepLocked(now)
		if len(s.sessions) >= s.maxSessions {
			return nil, fmt.Errorf("%w: %d live sessions", domain.ErrCapacityExceeded, len(s.sessions))
		}
	}

	session := &domain.Session{
		ID:         s.newID(),
		SourceType: sourceType,
		Chunks:     []domain.Chunk{},
		Embeddings: [][]float32{},
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}
	s.sessions[session.ID] = session

	return session.Clone(), nil
}

// Get retrieves a live session by ID, evicting it if expired.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.liveLocked(id)
	if err != nil {
		return nil, err
	}
	return session.Clone(), nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok, nil
}

// UpdateEmbeddings replaces chunks, embeddings and digest in one step.
func (s *SessionStore) UpdateEmbeddings(ctx context.Context, id string, chunks []domain.Chunk, embeddings [][]float32) (*domain.Session, error) {
	if len(chunks) != len(embeddings) {
		return nil, fmt.Errorf("%w: %d embeddings for %d chunks", domain.ErrDimensionMismatch, len(embeddings), len(chunks))
	}

	// Copy before taking the lock.
	newChunks := domain.CloneChunks(chunks)
	newEmbeddings := domain.CloneEmbeddings(embeddings)
	digest := domain.DocumentDigest(chunks)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.liveLocked(id)
	if err != nil {
		return nil, err
	}

	session.Chunks = newChunks
	session.Embeddings = newEmbeddings
	session.DocumentDigest = digest
	session.UpdatedAt = s.now()

	return session.Clone(), nil
}

// List returns all live sessions ordered by creation time.
func (s *SessionStore) List(ctx context.Context) ([]*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(s.now())

	out := make([]*domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Count returns the number of live sessions.
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for _, session := range s.sessions {
		if !session.IsExpired(now) {
			n++
		}
	}
	return n, nil
}

// Sweep evicts all expired sessions.
func (s *SessionStore) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now()), nil
}

// MaxSessions returns the configured capacity.
func (s *SessionStore) MaxSessions() int {
	return s.maxSessions
}

// Start launches the background sweep loop.
func (s *SessionStore) Start(ctx context.Context) {
	s.sweeper.Start(ctx)
}

// Close stops the sweep loop. Sessions are discarded with the process.
func (s *SessionStore) Close() error {
	s.sweeper.Stop()
	return nil
}

// liveLocked returns the stored session, evicting it if expired.
// Caller must hold s.mu.
func (s *SessionStore) liveLocked(id string) (*domain.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if session.IsExpired(s.now()) {
		delete(s.sessions, id)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// sweepLocked evicts expired sessions. Caller must hold s.mu.
func (s *SessionStore) sweepLocked(now time.Time) int {
	removed := 0
	for id, session := range s.sessions {
		if session.IsExpired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("swept expired sessions", "count", removed, "remaining", len(s.sessions))
	}
	return removed
}
