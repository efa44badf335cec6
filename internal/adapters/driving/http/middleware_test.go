package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		allowedOrigins []string
		origin         string
		method         string
		wantOrigin     string
		wantStatus     int
	}{
		{
			name:           "allowed origin",
			allowedOrigins: []string{"http://localhost:3000"},
			origin:         "http://localhost:3000",
			method:         "GET",
			wantOrigin:     "http://localhost:3000",
			wantStatus:     http.StatusOK,
		},
		{
			name:           "disallowed origin",
			allowedOrigins: []string{"http://localhost:3000"},
			origin:         "http://evil.example",
			method:         "GET",
			wantOrigin:     "",
			wantStatus:     http.StatusOK,
		},
		{
			name:           "wildcard",
			allowedOrigins: []string{"*"},
			origin:         "http://any.example",
			method:         "POST",
			wantOrigin:     "http://any.example",
			wantStatus:     http.StatusOK,
		},
		{
			name:           "no origin header",
			allowedOrigins: []string{"*"},
			origin:         "",
			method:         "GET",
			wantOrigin:     "",
			wantStatus:     http.StatusOK,
		},
		{
			name:           "preflight",
			allowedOrigins: []string{"http://localhost:3000"},
			origin:         "http://localhost:3000",
			method:         "OPTIONS",
			wantOrigin:     "http://localhost:3000",
			wantStatus:     http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCORSMiddleware(tt.allowedOrigins).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/api/chunk", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("expected allow origin %q, got %q", tt.wantOrigin, got)
			}
			if tt.wantOrigin != "" && rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
				t.Error("expected credentials to be allowed")
			}
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var seenID string
	handler := NewLoggingMiddleware(logger).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seenID == "" {
		t.Fatal("expected a generated request ID")
	}
	if rr.Header().Get(RequestIDHeader) != seenID {
		t.Errorf("expected response header %q, got %q", seenID, rr.Header().Get(RequestIDHeader))
	}

	out := buf.String()
	for _, want := range []string{"method=GET", "path=/health", "status=418", "request_id=" + seenID} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %q, got %q", want, out)
		}
	}
}

func TestLoggingMiddleware_PropagatesRequestID(t *testing.T) {
	handler := NewLoggingMiddleware(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))).Handler(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetRequestID(r.Context()) != "abc-123" {
				t.Errorf("expected incoming request ID, got %q", GetRequestID(r.Context()))
			}
		}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("expected echoed request ID, got %q", rr.Header().Get(RequestIDHeader))
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := NewRecoveryMiddleware(logger).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "internal server error") {
		t.Errorf("unexpected body %q", rr.Body.String())
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Error("expected panic to be logged")
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if id := GetRequestID(req.Context()); id != "" {
		t.Errorf("expected empty request ID, got %q", id)
	}
}
