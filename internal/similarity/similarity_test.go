package similarity

import (
	"fmt"
	"testing"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeChunks(n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{ID: fmt.Sprintf("c%d", i), Text: fmt.Sprintf("text %d", i), Index: i}
	}
	return chunks
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero query", []float32{0, 0}, []float32{1, 1}, 0},
		{"zero document", []float32{1, 1}, []float32{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSearch_MismatchedLengths(t *testing.T) {
	_, err := Search([]float32{1, 0}, [][]float32{{1, 0}}, makeChunks(2), 5)
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = Search([]float32{1, 0}, [][]float32{{1, 0}, {0, 1}}, makeChunks(1), 5)
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearch_MismatchedWidths(t *testing.T) {
	_, err := Search([]float32{1, 0}, [][]float32{{1, 0}, {1, 0, 0}}, makeChunks(2), 5)
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearch_Empty(t *testing.T) {
	results, err := Search([]float32{1, 0}, nil, nil, 5)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	results, err = Search(nil, [][]float32{{1}}, makeChunks(1), 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	// One side empty is an empty result, not a length mismatch
	results, err = Search([]float32{1, 0}, nil, makeChunks(1), 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = Search([]float32{1, 0}, [][]float32{{1, 0}}, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_SelfSimilarityRanksFirst(t *testing.T) {
	embeddings := [][]float32{
		{0.1, 0.9, 0.0},
		{0.8, 0.1, 0.1},
		{0.3, 0.3, 0.9},
	}

	results, err := Search(embeddings[2], embeddings, makeChunks(3), 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "c2", results[0].ChunkID)
	assert.Equal(t, "text 2", results[0].ChunkText)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestSearch_TiesKeepInputOrder(t *testing.T) {
	embeddings := [][]float32{{1, 0}, {0, 1}, {1, 0}, {1, 0}}

	results, err := Search([]float32{1, 0}, embeddings, makeChunks(4), 4)
	require.NoError(t, err)

	ids := []string{results[0].ChunkID, results[1].ChunkID, results[2].ChunkID, results[3].ChunkID}
	assert.Equal(t, []string{"c0", "c2", "c3", "c1"}, ids)
}

func TestSearch_TopK(t *testing.T) {
	embeddings := [][]float32{{1, 0}, {0.9, 0.1}, {0.5, 0.5}, {0, 1}}

	tests := []struct {
		topK int
		want int
	}{
		{-1, 0},
		{0, 0},
		{2, 2},
		{4, 4},
		{10, 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("k=%d", tt.topK), func(t *testing.T) {
			results, err := Search([]float32{1, 0}, embeddings, makeChunks(4), tt.topK)
			require.NoError(t, err)
			assert.Len(t, results, tt.want)
		})
	}
}
