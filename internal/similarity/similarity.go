// Package similarity ranks session chunks against a query embedding.
package similarity

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/resumelens/internal/core/domain"
)

// Cosine returns the cosine similarity of a and b, or 0 when either vector
// has zero norm. Vectors must have equal length; extra elements are ignored.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Search scores every chunk against query and returns the topK best, highest
// score first. Equal scores keep their original chunk order.
//
// embeddings and chunks must be aligned one to one; a length disagreement, or
// an embedding whose width differs from the query's, is ErrDimensionMismatch.
// An empty query or collection yields an empty result before any check.
func Search(query []float32, embeddings [][]float32, chunks []domain.Chunk, topK int) ([]domain.SearchResult, error) {
	if len(embeddings) == 0 || len(chunks) == 0 || len(query) == 0 {
		return []domain.SearchResult{}, nil
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: %d embeddings for %d chunks", domain.ErrDimensionMismatch, len(embeddings), len(chunks))
	}

	results := make([]domain.SearchResult, len(chunks))
	for i, vec := range embeddings {
		if len(vec) != len(query) {
			return nil, fmt.Errorf("%w: embedding %d has %d dimensions, query has %d",
				domain.ErrDimensionMismatch, i, len(vec), len(query))
		}
		results[i] = domain.SearchResult{
			ChunkID:   chunks[i].ID,
			Score:     Cosine(query, vec),
			ChunkText: chunks[i].Text,
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < 0 {
		topK = 0
	}
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}
