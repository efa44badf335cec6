package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/resumelens/internal/core/domain"
)

// MockSessionStore is a mock implementation of SessionStore for testing.
// Sessions never expire unless ExpireSession is called.
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	seq      int
	max      int

	// Custom behavior hooks (optional)
	CreateErr error
	GetErr    error
	UpdateErr error

	updates int
	started bool
	closed  bool
}

// NewMockSessionStore creates a new MockSessionStore
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		sessions: make(map[string]*domain.Session),
		max:      100,
	}
}

func (m *MockSessionStore) Create(ctx context.Context, sourceType domain.SourceType) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if len(m.sessions) >= m.max {
		return nil, domain.ErrCapacityExceeded
	}
	m.seq++
	now := time.Now()
	session := &domain.Session{
		ID:         fmt.Sprintf("session-%d", m.seq),
		SourceType: sourceType,
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(25 * time.Minute),
	}
	m.sessions[session.ID] = session
	return session.Clone(), nil
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	session, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok, nil
}

func (m *MockSessionStore) UpdateEmbeddings(ctx context.Context, id string, chunks []domain.Chunk, embeddings [][]float32) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	session, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if len(chunks) != len(embeddings) {
		return nil, domain.ErrDimensionMismatch
	}
	session.Chunks = domain.CloneChunks(chunks)
	session.Embeddings = domain.CloneEmbeddings(embeddings)
	session.DocumentDigest = domain.DocumentDigest(chunks)
	session.UpdatedAt = time.Now()
	m.updates++
	return session.Clone(), nil
}

func (m *MockSessionStore) List(ctx context.Context) ([]*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Clone())
	}
	return out, nil
}

func (m *MockSessionStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}

func (m *MockSessionStore) Sweep(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *MockSessionStore) MaxSessions() int {
	return m.max
}

func (m *MockSessionStore) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
}

func (m *MockSessionStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Helper methods for testing

// Put stores session as-is
func (m *MockSessionStore) Put(session *domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session.Clone()
}

// ExpireSession removes a session as if its TTL had elapsed
func (m *MockSessionStore) ExpireSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *MockSessionStore) SetMaxSessions(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.max = n
}

// Updates returns how many successful UpdateEmbeddings calls were made
func (m *MockSessionStore) Updates() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updates
}

func (m *MockSessionStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*domain.Session)
	m.updates = 0
}
