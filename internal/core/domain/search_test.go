package domain

import (
	"testing"
)

func TestClampTopK(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultTopK},
		{-3, 1},
		{1, 1},
		{8, 8},
		{50, 50},
		{51, MaxTopK},
	}

	for _, tt := range tests {
		if got := ClampTopK(tt.in); got != tt.want {
			t.Errorf("ClampTopK(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFixedResponses(t *testing.T) {
	noDoc := NewNoDocumentResponse()
	if noDoc.Answer != "No document has been processed yet. Please upload a document first." {
		t.Errorf("unexpected answer %q", noDoc.Answer)
	}
	if noDoc.Sources == nil || len(noDoc.Sources) != 0 {
		t.Errorf("expected empty non-nil sources, got %v", noDoc.Sources)
	}
	if noDoc.Confidence != 0 {
		t.Errorf("expected confidence 0, got %v", noDoc.Confidence)
	}

	noRel := NewNoRelevantResponse()
	if noRel.Answer != "No relevant information found in the document." {
		t.Errorf("unexpected answer %q", noRel.Answer)
	}
	if noRel.Confidence != 0 {
		t.Errorf("expected confidence 0, got %v", noRel.Confidence)
	}
}
