package normalisers

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	generic := mocks.NewMockNormaliser()
	generic.SupportedTypesFn = func() []string { return []string{"text/*"} }
	generic.PriorityFn = func() int { return 10 }
	specific := mocks.NewMockNormaliser()
	specific.SupportedTypesFn = func() []string { return []string{"text/html"} }
	specific.PriorityFn = func() int { return 50 }

	r.Register(generic)
	r.Register(specific)

	assert.Same(t, specific, r.Get("text/html; charset=utf-8"))
	assert.Same(t, specific, r.Get("TEXT/HTML"))
	assert.Same(t, generic, r.Get("text/csv"))
	assert.Nil(t, r.Get("application/zip"))
	assert.Nil(t, r.Get(""))
	assert.Equal(t, []string{"text/*", "text/html"}, r.List())
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		mimeType string
		want     interface{}
	}{
		{"text/plain", &Plaintext{}},
		{"text/markdown", &Plaintext{}},
		{"text/html", &HTML{}},
		{docxMIMEType, &DOCX{}},
		{"application/pdf", &PDF{}},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			assert.IsType(t, tt.want, r.Get(tt.mimeType))
		})
	}

	assert.Nil(t, r.Get("image/png"))
}

func TestCleanText(t *testing.T) {
	in := "  Jane   Doe \r\n\r\n\n\n Senior\tEngineer \n   \n Go, Kubernetes  "
	assert.Equal(t, "Jane Doe\nSenior Engineer\nGo, Kubernetes", CleanText(in))
	assert.Equal(t, "", CleanText(" \n\t\n "))
}

func TestPlaintext_Normalise(t *testing.T) {
	n := NewPlaintext()

	text, err := n.Normalise(context.Background(), []byte("\xef\xbb\xbfHello   world\n\n\nBye"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "Hello world\nBye", text)

	_, err = n.Normalise(context.Background(), []byte{0xff, 0xfe, 0xfd}, "text/plain")
	assert.ErrorIs(t, err, domain.ErrDocumentProcessingFailed)
}

func TestHTML_Normalise(t *testing.T) {
	doc := `<html><head><title>Role</title><style>p { color: red }</style></head>
<body><h1>Backend Engineer</h1><script>track()</script>
<p>Requirements: Go &amp; Postgres</p><ul><li>5 years</li><li>Remote</li></ul></body></html>`

	text, err := NewHTML().Normalise(context.Background(), []byte(doc), "text/html")
	require.NoError(t, err)

	assert.Contains(t, text, "Backend Engineer")
	assert.Contains(t, text, "Requirements: Go & Postgres")
	assert.Contains(t, text, "5 years\nRemote")
	assert.NotContains(t, text, "track()")
	assert.NotContains(t, text, "color")
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if documentXML != "" {
		w, err := zw.Create("word/document.xml")
		require.NoError(t, err)
		_, err = w.Write([]byte(documentXML))
		require.NoError(t, err)
	}
	w, err := zw.Create("docProps/core.xml")
	require.NoError(t, err)
	_, _ = w.Write([]byte(`<coreProperties/>`))
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDOCX_Normalise(t *testing.T) {
	xmlDoc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p></w:p>
    <w:p><w:r><w:t xml:space="preserve">Staff </w:t></w:r><w:r><w:t>Engineer</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := NewDOCX().Normalise(context.Background(), buildDOCX(t, xmlDoc), docxMIMEType)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nStaff Engineer", text)
}

func TestDOCX_Normalise_Invalid(t *testing.T) {
	n := NewDOCX()

	_, err := n.Normalise(context.Background(), []byte("not a zip"), docxMIMEType)
	assert.ErrorIs(t, err, domain.ErrDocumentProcessingFailed)

	_, err = n.Normalise(context.Background(), buildDOCX(t, ""), docxMIMEType)
	assert.ErrorIs(t, err, domain.ErrDocumentProcessingFailed)

	_, err = n.Normalise(context.Background(), buildDOCX(t, "<w:document><w:body>"), docxMIMEType)
	assert.ErrorIs(t, err, domain.ErrDocumentProcessingFailed)
}

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error

	name  string
	args  []string
	stdin []byte
}

func (m *mockRunner) Run(_ context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	m.stdin, m.name, m.args = stdin, name, args
	return m.output, m.err
}

func TestPDF_Normalise(t *testing.T) {
	runner := &mockRunner{output: []byte("Jane Doe\n\n   Page one   text\n\fPage two\n")}
	n := NewPDFWithRunner(runner)
	content := []byte("%PDF-1.4 fake pdf content")

	text, err := n.Normalise(context.Background(), content, "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\nPage one text\nPage two", text)
	assert.Equal(t, "pdftotext", runner.name)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-", "-"}, runner.args)
	assert.Equal(t, content, runner.stdin)
}

func TestPDF_Normalise_Errors(t *testing.T) {
	n := NewPDFWithRunner(&mockRunner{err: errors.New("crashed")})

	_, err := n.Normalise(context.Background(), []byte("%PDF-1.7"), "application/pdf")
	assert.ErrorIs(t, err, domain.ErrDocumentProcessingFailed)
	assert.Contains(t, err.Error(), "pdftotext failed")

	_, err = n.Normalise(context.Background(), []byte("plain text"), "application/pdf")
	assert.ErrorIs(t, err, domain.ErrDocumentProcessingFailed)
}
