package prompt

import (
	"strings"
	"testing"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func results(scores ...float64) []domain.SearchResult {
	out := make([]domain.SearchResult, len(scores))
	for i, s := range scores {
		out[i] = domain.SearchResult{
			ChunkID:   "id-" + string(rune('a'+i)),
			Score:     s,
			ChunkText: "snippet " + string(rune('a'+i)),
		}
	}
	return out
}

func TestBuild(t *testing.T) {
	p := Build("What languages does the candidate know?", results(0.9, 0.5))

	assert.Contains(t, p, "[chunk-0]\nsnippet a\n\n[chunk-1]\nsnippet b")
	assert.Contains(t, p, "Question: What languages does the candidate know?")
	assert.True(t, strings.HasSuffix(p, "Answer:\n"))
	assert.Less(t, strings.Index(p, "[chunk-0]"), strings.Index(p, "[chunk-1]"))
	assert.Less(t, strings.Index(p, "Context snippets:"), strings.Index(p, "Question:"))
	assert.Less(t, strings.Index(p, "Question:"), strings.Index(p, "Instructions:"))
}

func TestBuild_NoResults(t *testing.T) {
	p := Build("anything", nil)
	assert.NotContains(t, p, "[chunk-")
	assert.Contains(t, p, "Question: anything")
}

func TestParse_Sources(t *testing.T) {
	rs := results(0.8, 0.6, 0.4)

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"none", "I could not find that.", []string{}},
		{"single", "Go and Rust (chunk-1).", []string{"id-b"}},
		{"first mention order", "See chunk-2 and chunk-0.", []string{"id-c", "id-a"}},
		{"case insensitive", "Per CHUNK-0 and Chunk-1", []string{"id-a", "id-b"}},
		{"duplicates collapse", "chunk-1, chunk-1 and chunk-1", []string{"id-b"}},
		{"out of range ignored", "chunk-3 chunk-42 chunk-0", []string{"id-a"}},
		{"malformed ignored", "chunk- chunk-x chunk-2", []string{"id-c"}},
		{"huge index ignored", "chunk-99999999999999999999999", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Parse(tt.raw, rs)
			assert.Equal(t, tt.want, resp.Sources)
		})
	}
}

func TestParse_AnswerTrimmed(t *testing.T) {
	resp := Parse("\n  The candidate led a team of five. [chunk-0]\n\n", results(0.5))
	assert.Equal(t, "The candidate led a team of five. [chunk-0]", resp.Answer)
	assert.Equal(t, 0.6, resp.Confidence)
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"scaled", []float64{0.5}, 0.6},
		{"average", []float64{0.7, 0.3}, 0.6},
		{"capped", []float64{0.95, 0.9}, 1},
		{"rounded", []float64{0.333}, 0.4},
		{"negative floored", []float64{-0.5, -0.2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(results(tt.scores...))
			require.GreaterOrEqual(t, got, 0.0)
			require.LessOrEqual(t, got, 1.0)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "chunk-7", Label(7))
}
