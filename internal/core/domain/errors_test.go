package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrInvalidInput", ErrInvalidInput, "invalid input"},
		{"ErrSessionNotFound", ErrSessionNotFound, "session not found"},
		{"ErrCapacityExceeded", ErrCapacityExceeded, "session capacity exceeded"},
		{"ErrDimensionMismatch", ErrDimensionMismatch, "dimension mismatch"},
		{"ErrEmbeddingGenerationFailed", ErrEmbeddingGenerationFailed, "embedding generation failed"},
		{"ErrLLMGenerationFailed", ErrLLMGenerationFailed, "llm generation failed"},
		{"ErrDocumentProcessingFailed", ErrDocumentProcessingFailed, "document processing failed"},
		{"ErrQuotaExceeded", ErrQuotaExceeded, "provider quota exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	allErrors := []error{
		ErrInvalidInput,
		ErrSessionNotFound,
		ErrCapacityExceeded,
		ErrDimensionMismatch,
		ErrEmbeddingGenerationFailed,
		ErrLLMGenerationFailed,
		ErrDocumentProcessingFailed,
		ErrUnsupportedMediaType,
		ErrQuotaExceeded,
		ErrInvalidProvider,
		ErrServiceUnavailable,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrQuotaExceeded, true},
		{"wrapped sentinel", fmt.Errorf("call: %w", ErrQuotaExceeded), true},
		{"http status", errors.New("googleapi: Error 429: Too Many Requests"), true},
		{"grpc status", errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"), true},
		{"quota text", errors.New("You exceeded your current quota"), true},
		{"rate limit text", errors.New("Rate limit reached for requests"), true},
		{"leading status", errors.New("429 Too Many Requests"), true},
		{"status code", errors.New("API returned unexpected status code: 429"), true},
		{"digits in request id", errors.New("upstream error (request id req-8f429c1)"), false},
		{"digits in duration", errors.New("embedding timed out after 429ms"), false},
		{"other status", errors.New("googleapi: Error 500: backend 4291 failed"), false},
		{"generic", errors.New("connection refused"), false},
		{"deadline", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsQuotaError(tt.err); got != tt.want {
				t.Errorf("IsQuotaError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProviderError(t *testing.T) {
	cause := errors.New("429 quota exhausted")
	err := error(NewProviderError(ErrEmbeddingGenerationFailed, cause))

	if !errors.Is(err, ErrEmbeddingGenerationFailed) {
		t.Error("expected error to match stage")
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Error("expected error to match quota sentinel")
	}
	if !errors.Is(err, cause) {
		t.Error("expected error to match cause")
	}
	if errors.Is(err, ErrLLMGenerationFailed) {
		t.Error("expected error not to match other stage")
	}

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatal("expected errors.As to find ProviderError")
	}
	if !perr.IsQuota() {
		t.Errorf("expected quota kind, got %s", perr.Kind)
	}

	generic := NewProviderError(ErrLLMGenerationFailed, errors.New("boom"))
	if generic.Kind != FailureKindGeneric {
		t.Errorf("expected generic kind, got %s", generic.Kind)
	}
	if errors.Is(generic, ErrQuotaExceeded) {
		t.Error("generic failure should not match quota sentinel")
	}
	if generic.Error() != "llm generation failed: boom" {
		t.Errorf("unexpected message %q", generic.Error())
	}
}
