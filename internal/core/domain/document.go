package domain

// SourceType identifies what kind of document a session holds
type SourceType string

const (
	SourceTypeResume SourceType = "resume"
	SourceTypeJD     SourceType = "jd" // job description
)

// Valid reports whether s is a known source type
func (s SourceType) Valid() bool {
	switch s {
	case SourceTypeResume, SourceTypeJD:
		return true
	default:
		return false
	}
}

// ChunkMetadata carries optional provenance for a chunk
type ChunkMetadata struct {
	Section    *string    `json:"section,omitempty"`
	PageNumber *int       `json:"page_number,omitempty"`
	SourceType SourceType `json:"source_type"`
}

// Clone returns a copy that shares no pointers with m
func (m ChunkMetadata) Clone() ChunkMetadata {
	out := ChunkMetadata{SourceType: m.SourceType}
	if m.Section != nil {
		section := *m.Section
		out.Section = &section
	}
	if m.PageNumber != nil {
		page := *m.PageNumber
		out.PageNumber = &page
	}
	return out
}

// Chunk is a contiguous, possibly overlapping slice of a document's text.
// Chunks are values: once produced they are never modified.
type Chunk struct {
	ID       string        `json:"id"`
	Text     string        `json:"text"`
	Index    int           `json:"index"` // Zero-based position in emission order
	Metadata ChunkMetadata `json:"metadata"`
}

// Clone returns a deep copy of the chunk
func (c Chunk) Clone() Chunk {
	c.Metadata = c.Metadata.Clone()
	return c
}

// CloneChunks deep copies a chunk slice
func CloneChunks(chunks []Chunk) []Chunk {
	if chunks == nil {
		return nil
	}
	out := make([]Chunk, len(chunks))
	for i, c := range chunks {
		out[i] = c.Clone()
	}
	return out
}

// CloneEmbeddings deep copies a slice of vectors
func CloneEmbeddings(embeddings [][]float32) [][]float32 {
	if embeddings == nil {
		return nil
	}
	out := make([][]float32, len(embeddings))
	for i, v := range embeddings {
		out[i] = append([]float32(nil), v...)
	}
	return out
}
