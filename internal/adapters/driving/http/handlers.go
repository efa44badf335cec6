package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driving"
	"github.com/swaggo/swag"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid request body"`
	Message string `json:"message,omitempty" example:"Please wait a few minutes and try again"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadyResponse reports dependency and capability state
// @Description Readiness status with AI capability flags
type ReadyResponse struct {
	Status         string `json:"status" example:"ready"`
	SessionBackend string `json:"session_backend" example:"memory"`
	Redis          string `json:"redis,omitempty" example:"ok"`
	CanEmbed       bool   `json:"can_embed"`
	CanAnswer      bool   `json:"can_answer"`
	EmbeddingModel string `json:"embedding_model,omitempty" example:"embedding-001"`
	LLMModel       string `json:"llm_model,omitempty" example:"gemini-2.5-flash"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// CreateSessionRequest opens a session
// @Description Session creation request
type CreateSessionRequest struct {
	SourceType domain.SourceType `json:"source_type" example:"resume" enums:"resume,jd"`
}

// DeleteSessionResponse reports whether a session was removed
// @Description Session deletion result
type DeleteSessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message" example:"Session 3f2b... deleted"`
}

// ChunkMetadataRequest carries optional provenance for produced chunks
type ChunkMetadataRequest struct {
	Section    *string `json:"section,omitempty" example:"Experience"`
	PageNumber *int    `json:"page_number,omitempty" example:"1"`
}

// ChunkRequest splits text into chunks
// @Description Chunking request
type ChunkRequest struct {
	Text         string                `json:"text"`
	SessionID    string                `json:"session_id,omitempty"`
	MaxChunkSize *int                  `json:"max_chunk_size,omitempty" example:"1000" minimum:"100" maximum:"2000"`
	Overlap      *float64              `json:"overlap,omitempty" example:"0.25" minimum:"0" maximum:"0.5"`
	SourceType   domain.SourceType     `json:"source_type,omitempty" example:"resume"`
	Metadata     *ChunkMetadataRequest `json:"metadata,omitempty"`
}

// ChunkResponse lists the produced chunks
// @Description Chunking result
type ChunkResponse struct {
	Chunks      []domain.Chunk `json:"chunks"`
	TotalChunks int            `json:"total_chunks"`
}

// EmbedRequest embeds chunks into a session
// @Description Embedding request
type EmbedRequest struct {
	SessionID string         `json:"session_id"`
	Chunks    []domain.Chunk `json:"chunks"`
}

// EmbedResponse reports the stored embeddings
// @Description Embedding result
type EmbedResponse struct {
	Success        bool   `json:"success"`
	EmbeddingCount int    `json:"embedding_count"`
	DocumentDigest string `json:"document_digest,omitempty"`
}

// SearchRequest ranks a session's chunks against a query vector
// @Description Vector search request
type SearchRequest struct {
	SessionID      string    `json:"session_id"`
	QueryEmbedding []float32 `json:"query_embedding"`
	TopK           *int      `json:"top_k,omitempty" example:"8" minimum:"1" maximum:"50"`
}

// SearchResponse lists ranked chunks
// @Description Vector search result
type SearchResponse struct {
	Results []domain.SearchResult `json:"results"`
}

// RAGRequest asks a question about a session's document
// @Description Question answering request
type RAGRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query" example:"Which programming languages does the candidate know?"`
	TopK      *int   `json:"top_k,omitempty" example:"8" minimum:"1" maximum:"50"`
}

// ExtractResponse carries text extracted from an uploaded document
// @Description Document extraction result
type ExtractResponse struct {
	Text       string `json:"text"`
	MIMEType   string `json:"mime_type" example:"application/pdf"`
	Characters int    `json:"characters" example:"5231"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns readiness, AI capability flags and the session backend state
// @Tags         Health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ReadyResponse  "Session backend unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := ReadyResponse{Status: "ready"}
	if s.runtimeConfig != nil {
		caps := s.runtimeConfig.Capabilities()
		resp.SessionBackend = caps.SessionBackend
		resp.CanEmbed = caps.CanEmbed
		resp.CanAnswer = caps.CanAnswer
		resp.EmbeddingModel = caps.EmbeddingModel
		resp.LLMModel = caps.LLMModel
	}

	status := http.StatusOK
	if s.redisClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.redisClient.Ping(ctx); err != nil {
			s.logger.Warn("redis ping failed", "error", err)
			resp.Status = "unavailable"
			resp.Redis = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Redis = "ok"
		}
	}

	writeJSON(w, status, resp)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

// handleSwagger serves the registered OpenAPI document
func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusNotFound, "api documentation not registered")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}

// Session endpoints

// handleCreateSession godoc
// @Summary      Create session
// @Description  Opens an ephemeral session that holds one document until it expires
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        request  body      CreateSessionRequest  true  "Session source type"
// @Success      201      {object}  domain.SessionInfo
// @Failure      400      {object}  ErrorResponse  "Invalid source type"
// @Failure      503      {object}  ErrorResponse  "Session capacity exceeded"
// @Router       /api/session/create [post]
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.SourceType.Valid() {
		writeError(w, http.StatusBadRequest, "source_type must be 'resume' or 'jd'")
		return
	}

	info, err := s.sessionService.Create(r.Context(), req.SourceType)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, info)
}

// handleGetSession godoc
// @Summary      Get session
// @Description  Returns the state of a live session
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  domain.SessionInfo
// @Failure      404  {object}  ErrorResponse  "Session not found or expired"
// @Router       /api/session/{id} [get]
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.sessionService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// handleDeleteSession godoc
// @Summary      Delete session
// @Description  Removes a session and everything it holds
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  DeleteSessionResponse
// @Router       /api/session/{id} [delete]
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	deleted, err := s.sessionService.Delete(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := DeleteSessionResponse{Success: deleted, Message: fmt.Sprintf("Session %s deleted", id)}
	if !deleted {
		resp.Message = fmt.Sprintf("Session %s not found", id)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStats godoc
// @Summary      Session statistics
// @Description  Returns the number of live sessions and the configured limit
// @Tags         Sessions
// @Produce      json
// @Success      200  {object}  domain.SessionStats
// @Router       /api/stats [get]
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.sessionService.Stats(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Document endpoints

// handleExtract godoc
// @Summary      Extract document text
// @Description  Converts an uploaded PDF, DOCX, HTML or text file into plain text
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Document to extract"
// @Success      200   {object}  ExtractResponse
// @Failure      400   {object}  ErrorResponse  "Missing or empty file"
// @Failure      413   {object}  ErrorResponse  "File too large"
// @Failure      415   {object}  ErrorResponse  "Unsupported document type"
// @Failure      422   {object}  ErrorResponse  "Text could not be extracted"
// @Router       /api/document/extract [post]
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	limit := s.maxUpload + multipartOverhead
	if r.ContentLength > limit {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", s.maxUpload))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", s.maxUpload))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if header.Size > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", s.maxUpload))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	mimeType := detectMIMEType(header.Filename, header.Header.Get("Content-Type"), content)

	text, err := s.docService.Extract(r.Context(), content, mimeType)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ExtractResponse{
		Text:       text,
		MIMEType:   mimeType,
		Characters: len([]rune(text)),
	})
}

// handleChunk godoc
// @Summary      Chunk text
// @Description  Splits text into overlapping, word-aligned chunks
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      ChunkRequest  true  "Text and chunking parameters"
// @Success      200      {object}  ChunkResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      404      {object}  ErrorResponse  "Session not found or expired"
// @Router       /api/chunk [post]
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	var req ChunkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.MaxChunkSize != nil && *req.MaxChunkSize == 0 {
		// Zero would silently select the default
		writeError(w, http.StatusBadRequest, "max_chunk_size must be between 100 and 2000")
		return
	}

	in := driving.ChunkRequest{
		Text:       req.Text,
		SessionID:  req.SessionID,
		Overlap:    req.Overlap,
		SourceType: req.SourceType,
	}
	if req.MaxChunkSize != nil {
		in.MaxChunkSize = *req.MaxChunkSize
	}
	if req.Metadata != nil {
		in.Section = req.Metadata.Section
		in.PageNumber = req.Metadata.PageNumber
	}

	chunks, err := s.docService.Chunk(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if chunks == nil {
		chunks = []domain.Chunk{}
	}

	writeJSON(w, http.StatusOK, ChunkResponse{Chunks: chunks, TotalChunks: len(chunks)})
}

// handleEmbed godoc
// @Summary      Embed chunks
// @Description  Embeds every chunk and stores the document in the session, replacing any previous one
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      EmbedRequest  true  "Session and chunks"
// @Success      200      {object}  EmbedResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      404      {object}  ErrorResponse  "Session not found or expired"
// @Failure      429      {object}  ErrorResponse  "Provider quota exceeded"
// @Failure      502      {object}  ErrorResponse  "Embedding generation failed"
// @Router       /api/embed [post]
func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	var req EmbedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	info, err := s.docService.EmbedAndStore(r.Context(), req.SessionID, req.Chunks)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, EmbedResponse{
		Success:        true,
		EmbeddingCount: info.EmbeddingCount,
		DocumentDigest: info.DocumentDigest,
	})
}

// Retrieval endpoints

// handleSearch godoc
// @Summary      Vector search
// @Description  Ranks the session's chunks by cosine similarity to a query embedding
// @Tags         Retrieval
// @Accept       json
// @Produce      json
// @Param        request  body      SearchRequest  true  "Session, query vector and result count"
// @Success      200      {object}  SearchResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      404      {object}  ErrorResponse  "Session not found or expired"
// @Router       /api/search [post]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	topK, ok := parseTopK(w, req.TopK)
	if !ok {
		return
	}

	results, err := s.searchService.Search(r.Context(), req.SessionID, req.QueryEmbedding, topK)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if results == nil {
		results = []domain.SearchResult{}
	}

	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// handleRAGChat godoc
// @Summary      Ask a question
// @Description  Answers a question grounded in the session's document, citing the chunks used
// @Tags         Retrieval
// @Accept       json
// @Produce      json
// @Param        request  body      RAGRequest  true  "Session, question and result count"
// @Success      200      {object}  domain.RAGResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      404      {object}  ErrorResponse  "Session not found or expired"
// @Failure      429      {object}  ErrorResponse  "Provider quota exceeded"
// @Failure      502      {object}  ErrorResponse  "Provider call failed"
// @Failure      503      {object}  ErrorResponse  "AI services not configured"
// @Router       /api/rag/chat [post]
func (s *Server) handleRAGChat(w http.ResponseWriter, r *http.Request) {
	var req RAGRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	topK, ok := parseTopK(w, req.TopK)
	if !ok {
		return
	}

	resp, err := s.ragService.Query(r.Context(), req.SessionID, req.Query, topK)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Helper functions

// multipartOverhead allows for boundaries and part headers around the file
const multipartOverhead = 64 << 10

var extensionMIMETypes = map[string]string{
	".pdf":      "application/pdf",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".html":     "text/html",
	".htm":      "text/html",
	".xhtml":    "application/xhtml+xml",
	".txt":      "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
}

// detectMIMEType prefers the file extension, then the part header, then sniffing
func detectMIMEType(filename, declared string, content []byte) string {
	if t, ok := extensionMIMETypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(content)
}

// parseTopK rejects out-of-range values. An omitted top_k becomes 0 so the
// service applies the configured default.
func parseTopK(w http.ResponseWriter, topK *int) (int, bool) {
	if topK == nil {
		return 0, true
	}
	if *topK < 1 || *topK > domain.MaxTopK {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("top_k must be between 1 and %d", domain.MaxTopK))
		return 0, false
	}
	return *topK, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeErrorMessage(w http.ResponseWriter, status int, errMsg, message string) {
	writeJSON(w, status, ErrorResponse{Error: errMsg, Message: message})
}
