package domain

import "sync"

// Capabilities is a consistent snapshot of what the service can do right now.
type Capabilities struct {
	SessionBackend string
	CanEmbed       bool
	CanAnswer      bool
	EmbeddingModel string // empty when no embedding service is installed
	LLMModel       string // empty when no generation service is installed
}

// RuntimeConfig tracks the installed AI services for readiness reporting.
// runtime.Services keeps it current; readers take a Capabilities snapshot.
type RuntimeConfig struct {
	mu sync.RWMutex

	// SessionBackend is fixed at startup ("memory" or "redis")
	SessionBackend string

	embeddingAvailable bool
	embeddingModel     string
	llmAvailable       bool
	llmModel           string
}

// NewRuntimeConfig creates a RuntimeConfig with no AI services installed.
func NewRuntimeConfig(sessionBackend string) *RuntimeConfig {
	return &RuntimeConfig{
		SessionBackend: sessionBackend,
	}
}

// SetEmbedding records whether an embedding service is installed and its model.
func (c *RuntimeConfig) SetEmbedding(available bool, model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embeddingAvailable = available
	c.embeddingModel = ""
	if available {
		c.embeddingModel = model
	}
}

// SetLLM records whether a generation service is installed and its model.
func (c *RuntimeConfig) SetLLM(available bool, model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.llmAvailable = available
	c.llmModel = ""
	if available {
		c.llmModel = model
	}
}

// Capabilities returns the flags and models under one lock.
func (c *RuntimeConfig) Capabilities() Capabilities {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Capabilities{
		SessionBackend: c.SessionBackend,
		CanEmbed:       c.embeddingAvailable,
		CanAnswer:      c.embeddingAvailable && c.llmAvailable,
		EmbeddingModel: c.embeddingModel,
		LLMModel:       c.llmModel,
	}
}

// CanEmbed reports whether documents and queries can be embedded.
func (c *RuntimeConfig) CanEmbed() bool {
	return c.Capabilities().CanEmbed
}

// CanAnswer reports whether the full question answering path is available.
func (c *RuntimeConfig) CanAnswer() bool {
	return c.Capabilities().CanAnswer
}
