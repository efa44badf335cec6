package domain

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Session is the unit of isolation: one uploaded document, its chunks and
// their embeddings, alive until ExpiresAt.
type Session struct {
	ID             string      `json:"id"`
	SourceType     SourceType  `json:"source_type"`
	Chunks         []Chunk     `json:"chunks"`
	Embeddings     [][]float32 `json:"embeddings"`
	DocumentDigest string      `json:"document_digest,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	ExpiresAt      time.Time   `json:"expires_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// IsExpired reports whether the session is past its expiry at now.
// A session is still live at exactly ExpiresAt.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// HasDocument reports whether the session holds a searchable document:
// chunks and embeddings both present and aligned one to one.
func (s *Session) HasDocument() bool {
	return len(s.Chunks) > 0 && len(s.Embeddings) > 0 && len(s.Chunks) == len(s.Embeddings)
}

// Clone returns a deep copy so callers never alias store-owned state
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Chunks = CloneChunks(s.Chunks)
	out.Embeddings = CloneEmbeddings(s.Embeddings)
	return &out
}

// Info returns the boundary view of the session at now
func (s *Session) Info(now time.Time) *SessionInfo {
	remaining := s.ExpiresAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return &SessionInfo{
		ID:               s.ID,
		SourceType:       s.SourceType,
		CreatedAt:        s.CreatedAt,
		ExpiresAt:        s.ExpiresAt,
		ExpiresInSeconds: int64(remaining / time.Second),
		ChunkCount:       len(s.Chunks),
		EmbeddingCount:   len(s.Embeddings),
		Ready:            s.HasDocument(),
		DocumentDigest:   s.DocumentDigest,
	}
}

// SessionInfo is what clients see of a session
type SessionInfo struct {
	ID               string     `json:"session_id"`
	SourceType       SourceType `json:"source_type"`
	CreatedAt        time.Time  `json:"created_at"`
	ExpiresAt        time.Time  `json:"expires_at"`
	ExpiresInSeconds int64      `json:"expires_in_seconds"`
	ChunkCount       int        `json:"chunk_count"`
	EmbeddingCount   int        `json:"embedding_count"`
	Ready            bool       `json:"ready"`
	DocumentDigest   string     `json:"document_digest,omitempty"`
}

// SessionStats summarises store occupancy
type SessionStats struct {
	Active      int `json:"active_sessions"`
	MaxSessions int `json:"max_sessions"`
}

// DocumentDigest returns the hex BLAKE2b-256 digest of the chunk texts in order.
// Empty input yields an empty digest.
func DocumentDigest(chunks []Chunk) string {
	if len(chunks) == 0 {
		return ""
	}
	h, _ := blake2b.New256(nil)
	for _, c := range chunks {
		h.Write([]byte(c.Text))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
