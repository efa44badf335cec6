package mocks

import (
	"context"
	"sync"
)

// MockLLMService is a mock implementation of LLMService for testing
type MockLLMService struct {
	mu sync.Mutex

	GenerateFn func(ctx context.Context, prompt string) (string, error)
	PingFn     func(ctx context.Context) error

	prompts []string
	closed  bool
}

// NewMockLLMService creates a MockLLMService that answers with a fixed text
func NewMockLLMService(answer string) *MockLLMService {
	return &MockLLMService{
		GenerateFn: func(ctx context.Context, prompt string) (string, error) {
			return answer, nil
		},
	}
}

func (m *MockLLMService) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	fn := m.GenerateFn
	m.mu.Unlock()

	if fn == nil {
		return "", nil
	}
	return fn(ctx, prompt)
}

func (m *MockLLMService) Model() string {
	return "mock-llm-model"
}

func (m *MockLLMService) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return nil
}

func (m *MockLLMService) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Prompts returns every prompt received, in order
func (m *MockLLMService) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Closed reports whether Close was called
func (m *MockLLMService) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
