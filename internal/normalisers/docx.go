package normalisers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
)

var _ driven.Normaliser = (*DOCX)(nil)

const docxMIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// maxDocumentXML bounds the decompressed size of word/document.xml.
const maxDocumentXML = 32 << 20

// DOCX extracts paragraph text from Word documents.
type DOCX struct{}

// NewDOCX creates a DOCX normaliser.
func NewDOCX() *DOCX {
	return &DOCX{}
}

func (n *DOCX) Normalise(_ context.Context, content []byte, _ string) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: not a DOCX archive: %v", domain.ErrDocumentProcessingFailed, err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrDocumentProcessingFailed, err)
		}
		data, err := io.ReadAll(io.LimitReader(rc, maxDocumentXML))
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrDocumentProcessingFailed, err)
		}

		text, err := parseDocumentXML(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrDocumentProcessingFailed, err)
		}
		return CleanText(text), nil
	}

	return "", fmt.Errorf("%w: word/document.xml missing", domain.ErrDocumentProcessingFailed)
}

func (n *DOCX) SupportedTypes() []string {
	return []string{docxMIMEType}
}

func (n *DOCX) Priority() int {
	return 50
}

// documentXML is the subset of word/document.xml we read.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []struct {
		Text []struct {
			Content string `xml:",chardata"`
		} `xml:"t"`
	} `xml:"r"`
}

// parseDocumentXML joins the text runs of each paragraph, one paragraph per line.
func parseDocumentXML(data []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", err
	}

	lines := make([]string, 0, len(doc.Body.Paragraphs))
	for _, p := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, r := range p.Runs {
			for _, t := range r.Text {
				b.WriteString(t.Content)
			}
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n"), nil
}
