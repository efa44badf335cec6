package normalisers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
)

var _ driven.Normaliser = (*PDF)(nil)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found: install poppler (brew install poppler / apt install poppler-utils)")

// CommandRunner runs an external command with stdin and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, ErrPDFToolNotFound
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes()))
		}
		return nil, err
	}
	return out, nil
}

// PDF extracts text from PDF documents with poppler's pdftotext.
type PDF struct {
	runner CommandRunner
}

// NewPDF creates a PDF normaliser that shells out to pdftotext.
func NewPDF() *PDF {
	return &PDF{runner: execRunner{}}
}

// NewPDFWithRunner creates a PDF normaliser with a custom command runner.
func NewPDFWithRunner(runner CommandRunner) *PDF {
	return &PDF{runner: runner}
}

func (n *PDF) Normalise(ctx context.Context, content []byte, _ string) (string, error) {
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return "", fmt.Errorf("%w: missing PDF header", domain.ErrDocumentProcessingFailed)
	}

	// Read the document from stdin, write text to stdout.
	out, err := n.runner.Run(ctx, content, "pdftotext", "-layout", "-enc", "UTF-8", "-", "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext failed: %v", domain.ErrDocumentProcessingFailed, err)
	}

	// pdftotext separates pages with form feeds.
	out = bytes.ReplaceAll(out, []byte("\f"), []byte("\n"))
	return CleanText(string(out)), nil
}

func (n *PDF) SupportedTypes() []string {
	return []string{"application/pdf"}
}

func (n *PDF) Priority() int {
	return 50
}
