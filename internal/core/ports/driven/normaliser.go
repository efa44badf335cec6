package driven

import (
	"context"
)

// Normaliser turns an uploaded document into clean plain text.
type Normaliser interface {
	// Normalise extracts and cleans the text of content.
	// The mimeType helps determine the appropriate processing.
	Normalise(ctx context.Context, content []byte, mimeType string) (string, error)

	// SupportedTypes returns MIME types this normaliser handles.
	// Can include wildcards like "text/*" or specific types like "application/pdf".
	SupportedTypes() []string

	// Priority returns the normaliser priority (higher = more specific).
	// Priority ranges:
	//   50-89:  Format-specific (PDF, DOCX, HTML)
	//   10-49:  Generic (text/*)
	Priority() int
}

// NormaliserRegistry manages document normalisers.
// When multiple normalisers match a MIME type, the highest priority one is used.
type NormaliserRegistry interface {
	// Get retrieves the best-matching normaliser for a MIME type.
	// Returns nil if no normaliser is registered for the type.
	Get(mimeType string) Normaliser

	// Register registers a normaliser.
	Register(normaliser Normaliser)

	// List returns all registered MIME types.
	List() []string
}
