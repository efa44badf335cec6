package domain

const (
	// DefaultTopK is the number of chunks retrieved when the caller does not say
	DefaultTopK = 8
	// MaxTopK bounds retrieval at the boundary
	MaxTopK = 50
)

// SearchResult is one ranked chunk. Produced fresh per query, never stored.
type SearchResult struct {
	ChunkID   string  `json:"chunk_id"`
	Score     float64 `json:"score"` // Cosine similarity in [-1, 1]
	ChunkText string  `json:"chunk_text"`
}

// RAGResponse is the answer to a question about the session's document
type RAGResponse struct {
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`    // Cited chunk IDs, first-mention order, no duplicates
	Confidence float64  `json:"confidence"` // Heuristic in [0, 1], two decimals
}

const (
	// NoDocumentAnswer is returned when the session holds no embedded document
	NoDocumentAnswer = "No document has been processed yet. Please upload a document first."

	// NoRelevantAnswer is returned when retrieval yields nothing
	NoRelevantAnswer = "No relevant information found in the document."
)

// NewNoDocumentResponse returns the fixed answer for a session with no document
func NewNoDocumentResponse() *RAGResponse {
	return &RAGResponse{Answer: NoDocumentAnswer, Sources: []string{}, Confidence: 0}
}

// NewNoRelevantResponse returns the fixed answer for an empty retrieval
func NewNoRelevantResponse() *RAGResponse {
	return &RAGResponse{Answer: NoRelevantAnswer, Sources: []string{}, Confidence: 0}
}

// ClampTopK applies the default for zero and bounds k to [1, MaxTopK]
func ClampTopK(k int) int {
	switch {
	case k == 0:
		return DefaultTopK
	case k < 1:
		return 1
	case k > MaxTopK:
		return MaxTopK
	default:
		return k
	}
}
