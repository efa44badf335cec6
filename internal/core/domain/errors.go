package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Domain errors - used across all layers
var (
	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionNotFound indicates the session does not exist or has expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrCapacityExceeded indicates the store holds the maximum number of live sessions
	ErrCapacityExceeded = errors.New("session capacity exceeded")

	// ErrDimensionMismatch indicates embeddings and chunks (or two vectors) disagree in size
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmbeddingGenerationFailed indicates the embedding provider call failed
	ErrEmbeddingGenerationFailed = errors.New("embedding generation failed")

	// ErrLLMGenerationFailed indicates the generation provider call failed
	ErrLLMGenerationFailed = errors.New("llm generation failed")

	// ErrDocumentProcessingFailed indicates text could not be extracted from a document
	ErrDocumentProcessingFailed = errors.New("document processing failed")

	// ErrUnsupportedMediaType indicates no extractor handles the uploaded content type
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrQuotaExceeded indicates a provider rejected the call for quota or rate limit reasons
	ErrQuotaExceeded = errors.New("provider quota exceeded")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates the AI service is not configured or could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)

// FailureKind distinguishes quota rejections from other provider failures.
type FailureKind string

const (
	FailureKindGeneric FailureKind = "generic"
	FailureKindQuota   FailureKind = "quota"
)

// ProviderError is returned when an external embedding or generation call fails.
// Stage is ErrEmbeddingGenerationFailed or ErrLLMGenerationFailed.
type ProviderError struct {
	Stage error
	Kind  FailureKind
	Err   error
}

// NewProviderError wraps err for the given stage and derives its kind.
func NewProviderError(stage, err error) *ProviderError {
	kind := FailureKindGeneric
	if IsQuotaError(err) {
		kind = FailureKindQuota
	}
	return &ProviderError{Stage: stage, Kind: kind, Err: err}
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return e.Stage.Error()
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap exposes both the stage sentinel and the cause to errors.Is / errors.As.
func (e *ProviderError) Unwrap() []error {
	errs := []error{e.Stage}
	if e.Kind == FailureKindQuota {
		errs = append(errs, ErrQuotaExceeded)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// IsQuota reports whether the provider rejected the call for quota reasons.
func (e *ProviderError) IsQuota() bool {
	return e.Kind == FailureKindQuota
}

// quotaStatus matches an HTTP 429 status in a provider message ("Error 429",
// "status code: 429", a leading "429 ...") but not digits inside ids or durations.
var quotaStatus = regexp.MustCompile(`(?i)(?:^|\bstatus|\bcode|\berror)[\s:=]*429\b`)

var quotaMarkers = []string{
	"quota",
	"rate limit",
	"ratelimit",
	"rate_limit",
	"resource_exhausted",
	"resource exhausted",
	"too many requests",
}

// IsQuotaError reports whether err signals a provider quota or rate limit rejection.
// Provider SDKs surface these as plain errors, so the message is inspected as a fallback.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	if quotaStatus.MatchString(msg) {
		return true
	}
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
