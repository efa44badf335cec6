// Package chunker splits document text into overlapping, word-aligned chunks.
package chunker

import (
	"math"
	"strings"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/google/uuid"
)

const (
	// MinChunkSize and MaxChunkSize bound the chunk size accepted at the boundary
	MinChunkSize = 100
	MaxChunkSize = 2000

	// MaxOverlap bounds the overlap fraction accepted at the boundary
	MaxOverlap = 0.5
)

// Config configures chunking.
type Config struct {
	// MaxChunkSize is the maximum characters (runes) per chunk
	MaxChunkSize int

	// Overlap is the fraction of MaxChunkSize shared by consecutive chunks
	Overlap float64
}

// DefaultConfig returns the service defaults.
func DefaultConfig() Config {
	return Config{
		MaxChunkSize: 1000,
		Overlap:      0.25,
	}
}

// Validate checks the configuration against the accepted bounds.
func (c Config) Validate() error {
	if c.MaxChunkSize < MinChunkSize || c.MaxChunkSize > MaxChunkSize {
		return domain.ErrInvalidInput
	}
	if c.Overlap < 0 || c.Overlap > MaxOverlap || math.IsNaN(c.Overlap) {
		return domain.ErrInvalidInput
	}
	return nil
}

// overlapSize returns floor(MaxChunkSize * Overlap).
func (c Config) overlapSize() int {
	return int(math.Floor(float64(c.MaxChunkSize) * c.Overlap))
}

// clamped keeps the walk well defined for out-of-range values.
// Callers are expected to Validate first; this only guarantees termination.
func (c Config) clamped() Config {
	if c.MaxChunkSize < 1 {
		c.MaxChunkSize = 1
	}
	if c.Overlap < 0 || math.IsNaN(c.Overlap) {
		c.Overlap = 0
	}
	if c.Overlap > MaxOverlap {
		c.Overlap = MaxOverlap
	}
	return c
}

// Chunker splits text into chunks.
type Chunker struct {
	config Config
	newID  func() string
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithIDGenerator overrides how chunk IDs are produced.
func WithIDGenerator(fn func() string) Option {
	return func(c *Chunker) {
		c.newID = fn
	}
}

// New creates a chunker with the given config.
func New(config Config, opts ...Option) *Chunker {
	c := &Chunker{
		config: config.clamped(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the effective configuration.
func (c *Chunker) Config() Config {
	return c.config
}

// Chunk splits text into chunks carrying a copy of metadata each.
//
// Text no longer than MaxChunkSize (including empty text) yields exactly one
// chunk holding the text unchanged. Longer text is walked in windows of
// MaxChunkSize runes; a window that does not reach the end is cut just after
// its last space, provided that space lies past the window start. Chunk text is
// trimmed and empty pieces are dropped. Consecutive windows share
// floor(MaxChunkSize*Overlap) runes. Indices are contiguous from zero.
func (c *Chunker) Chunk(text string, metadata domain.ChunkMetadata) []domain.Chunk {
	runes := []rune(text)
	if len(runes) <= c.config.MaxChunkSize {
		return []domain.Chunk{c.newChunk(text, 0, metadata)}
	}

	overlap := c.config.overlapSize()
	var chunks []domain.Chunk
	start := 0

	for start < len(runes) {
		end := start + c.config.MaxChunkSize
		if end > len(runes) {
			end = len(runes)
		}

		if end < len(runes) {
			if sp := lastSpace(runes, start, end); sp > start {
				end = sp + 1
			}
		}

		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			chunks = append(chunks, c.newChunk(piece, len(chunks), metadata))
		}

		if end >= len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			// A short word-boundary cut can leave the overlap reaching back
			// past the window start; continue from the cut instead.
			next = end
		}
		start = next
	}

	return chunks
}

func (c *Chunker) newChunk(text string, index int, metadata domain.ChunkMetadata) domain.Chunk {
	return domain.Chunk{
		ID:       c.newID(),
		Text:     text,
		Index:    index,
		Metadata: metadata.Clone(),
	}
}

// lastSpace returns the index of the last ' ' in runes[start:end], or -1.
func lastSpace(runes []rune, start, end int) int {
	for i := end - 1; i >= start; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

// Chunk splits text with the given config and fresh UUID chunk IDs.
func Chunk(text string, config Config, metadata domain.ChunkMetadata) []domain.Chunk {
	return New(config).Chunk(text, metadata)
}
