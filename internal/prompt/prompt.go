// Package prompt builds grounded generation prompts from retrieved chunks and
// parses the model's answer back into cited sources.
package prompt

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/resumelens/internal/core/domain"
)

// LabelPrefix prefixes the positional label of each snippet in the prompt.
const LabelPrefix = "chunk"

// confidenceBoost scales the mean retrieval score into the reported confidence.
const confidenceBoost = 1.2

const template = `You are a helpful assistant answering questions about a document using only the snippets below.

Context snippets:
%s

Question: %s

Instructions:
- Answer using ONLY the information in the snippets above
- If the snippets do not contain the answer, say so explicitly
- Cite the snippet labels you relied on (for example: chunk-0, chunk-1)
- Be concise and accurate

Answer:
`

var labelPattern = regexp.MustCompile(`(?i)` + LabelPrefix + `-(\d+)`)

// Label returns the prompt label for the result at position i.
func Label(i int) string {
	return LabelPrefix + "-" + strconv.Itoa(i)
}

// Build renders the prompt for query. Snippets appear in retrieval-rank order,
// labelled by position so citations can be mapped back.
func Build(query string, results []domain.SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = "[" + Label(i) + "]\n" + r.ChunkText
	}
	return fmt.Sprintf(template, strings.Join(parts, "\n\n"), query)
}

// Parse turns raw model output into a response. Labels are matched case
// insensitively; labels outside the result range are ignored and repeats are
// collapsed, keeping first-mention order.
func Parse(raw string, results []domain.SearchResult) *domain.RAGResponse {
	sources := []string{}
	seen := make(map[string]bool)

	for _, m := range labelPattern.FindAllStringSubmatch(raw, -1) {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 0 || idx >= len(results) {
			continue
		}
		id := results[idx].ChunkID
		if seen[id] {
			continue
		}
		seen[id] = true
		sources = append(sources, id)
	}

	return &domain.RAGResponse{
		Answer:     strings.TrimSpace(raw),
		Sources:    sources,
		Confidence: Confidence(results),
	}
}

// Confidence is a retrieval heuristic, not a calibrated probability:
// min(1, mean score * 1.2), floored at 0 and rounded to two decimals.
func Confidence(results []domain.SearchResult) float64 {
	if len(results) == 0 {
		return 0
	}

	var sum float64
	for _, r := range results {
		sum += r.Score
	}
	c := sum / float64(len(results)) * confidenceBoost
	c = math.Max(0, math.Min(1, c))
	return math.Round(c*100) / 100
}
