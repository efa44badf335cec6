package normalisers

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
)

var _ driven.Normaliser = (*Plaintext)(nil)

// Plaintext handles UTF-8 text documents.
type Plaintext struct{}

// NewPlaintext creates a plain text normaliser.
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

func (n *Plaintext) Normalise(_ context.Context, content []byte, _ string) (string, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf")) // UTF-8 BOM
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: text is not valid UTF-8", domain.ErrDocumentProcessingFailed)
	}
	return CleanText(string(content)), nil
}

func (n *Plaintext) SupportedTypes() []string {
	return []string{"text/plain", "text/markdown", "text/*"}
}

func (n *Plaintext) Priority() int {
	return 10
}
