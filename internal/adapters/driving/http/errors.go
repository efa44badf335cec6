package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/custodia-labs/resumelens/internal/core/domain"
)

const (
	// QuotaRetryAfterSeconds is advertised when a provider rejects a call for quota reasons
	QuotaRetryAfterSeconds = 60
	// CapacityRetryAfterSeconds is advertised when the session store is full
	CapacityRetryAfterSeconds = 30

	quotaErrorMessage = "The AI provider quota has been exceeded. Please wait a few minutes and try again, " +
		"or upgrade your API plan at https://ai.google.dev/pricing"
)

// writeServiceError maps a service error onto a status code and error body
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		w.Header().Set("Retry-After", strconv.Itoa(QuotaRetryAfterSeconds))
		writeErrorMessage(w, http.StatusTooManyRequests, "API quota exceeded", quotaErrorMessage)

	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found or expired")

	case errors.Is(err, domain.ErrUnsupportedMediaType):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())

	case errors.Is(err, domain.ErrDocumentProcessingFailed):
		writeError(w, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, domain.ErrCapacityExceeded):
		w.Header().Set("Retry-After", strconv.Itoa(CapacityRetryAfterSeconds))
		writeErrorMessage(w, http.StatusServiceUnavailable, "session capacity exceeded",
			"The server is at its session limit. Please try again shortly.")

	case errors.Is(err, domain.ErrDimensionMismatch):
		s.logger.ErrorContext(r.Context(), "vector dimension mismatch",
			"path", r.URL.Path, "request_id", GetRequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")

	case errors.Is(err, domain.ErrServiceUnavailable):
		writeErrorMessage(w, http.StatusServiceUnavailable, "AI service unavailable", err.Error())

	case errors.Is(err, domain.ErrEmbeddingGenerationFailed):
		s.logFailure(r, err)
		writeError(w, http.StatusBadGateway, "embedding generation failed")

	case errors.Is(err, domain.ErrLLMGenerationFailed):
		s.logFailure(r, err)
		writeError(w, http.StatusBadGateway, "answer generation failed")

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "request cancelled")

	default:
		s.logFailure(r, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) logFailure(r *http.Request, err error) {
	s.logger.LogAttrs(r.Context(), slog.LevelWarn, "request failed",
		slog.String("path", r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
		slog.Any("error", err),
	)
}
