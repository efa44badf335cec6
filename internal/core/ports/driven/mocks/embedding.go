package mocks

import (
	"context"
	"hash/fnv"
	"sync"
)

// MockEmbeddingService is a mock implementation of EmbeddingService for testing.
// Unless overridden, vectors are derived deterministically from the text hash.
// Safe for concurrent use.
type MockEmbeddingService struct {
	mu         sync.Mutex
	dimensions int
	model      string
	failNext   error
	failOn     map[string]error
	vectors    map[string][]float32
	calls      int
	healthErr  error
	closed     bool
}

// NewMockEmbeddingService creates a new MockEmbeddingService
func NewMockEmbeddingService() *MockEmbeddingService {
	return &MockEmbeddingService{
		dimensions: 16,
		model:      "mock-embedding-model",
		failOn:     make(map[string]error),
		vectors:    make(map[string][]float32),
	}
}

func (m *MockEmbeddingService) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return m.embed(ctx, text)
}

func (m *MockEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	return m.embed(ctx, query)
}

func (m *MockEmbeddingService) embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return nil, err
	}
	if err, ok := m.failOn[text]; ok {
		return nil, err
	}
	if v, ok := m.vectors[text]; ok {
		return append([]float32(nil), v...), nil
	}
	return m.generateEmbedding(text), nil
}

func (m *MockEmbeddingService) Model() string {
	return m.model
}

func (m *MockEmbeddingService) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.healthErr
}

func (m *MockEmbeddingService) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// generateEmbedding generates a deterministic embedding based on text hash
func (m *MockEmbeddingService) generateEmbedding(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	embedding := make([]float32, m.dimensions)
	for i := range embedding {
		seed = seed*1103515245 + 12345
		embedding[i] = float32(seed%1000) / 1000.0
	}
	return embedding
}

// Helper methods for testing

// SetFailNext makes the next call return err
func (m *MockEmbeddingService) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// SetFailOn makes every call for text return err
func (m *MockEmbeddingService) SetFailOn(text string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn[text] = err
}

// SetVector pins the vector returned for text
func (m *MockEmbeddingService) SetVector(text string, vector []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[text] = append([]float32(nil), vector...)
}

func (m *MockEmbeddingService) SetDimensions(dim int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dimensions = dim
}

func (m *MockEmbeddingService) SetHealthError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthErr = err
}

// Calls returns how many embedding calls were made
func (m *MockEmbeddingService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close was called
func (m *MockEmbeddingService) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
