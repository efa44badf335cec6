package mocks

import (
	"context"

	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
)

// MockNormaliser is a mock implementation of Normaliser for testing
type MockNormaliser struct {
	SupportedTypesFn func() []string
	PriorityFn       func() int
	NormaliseFn      func(ctx context.Context, content []byte, mimeType string) (string, error)
}

func NewMockNormaliser() *MockNormaliser {
	return &MockNormaliser{}
}

func (m *MockNormaliser) Normalise(ctx context.Context, content []byte, mimeType string) (string, error) {
	if m.NormaliseFn != nil {
		return m.NormaliseFn(ctx, content, mimeType)
	}
	return string(content), nil
}

func (m *MockNormaliser) SupportedTypes() []string {
	if m.SupportedTypesFn != nil {
		return m.SupportedTypesFn()
	}
	return []string{"text/plain"}
}

func (m *MockNormaliser) Priority() int {
	if m.PriorityFn != nil {
		return m.PriorityFn()
	}
	return 100
}

// MockNormaliserRegistry is a mock implementation of NormaliserRegistry for testing
type MockNormaliserRegistry struct {
	GetFn       func(mimeType string) driven.Normaliser
	normalisers []driven.Normaliser
}

func NewMockNormaliserRegistry() *MockNormaliserRegistry {
	return &MockNormaliserRegistry{}
}

func (m *MockNormaliserRegistry) Get(mimeType string) driven.Normaliser {
	if m.GetFn != nil {
		return m.GetFn(mimeType)
	}
	if len(m.normalisers) == 0 {
		return nil
	}
	return m.normalisers[0]
}

func (m *MockNormaliserRegistry) Register(normaliser driven.Normaliser) {
	m.normalisers = append(m.normalisers, normaliser)
}

func (m *MockNormaliserRegistry) List() []string {
	var types []string
	for _, n := range m.normalisers {
		types = append(types, n.SupportedTypes()...)
	}
	return types
}
