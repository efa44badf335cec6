package normalisers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
	"golang.org/x/net/html"
)

var _ driven.Normaliser = (*HTML)(nil)

// HTML extracts visible text from HTML documents, such as job descriptions
// saved from a browser.
type HTML struct{}

// NewHTML creates an HTML normaliser.
func NewHTML() *HTML {
	return &HTML{}
}

// blockTags end a line of text.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "header": true, "footer": true, "ul": true, "ol": true,
}

func (n *HTML) Normalise(_ context.Context, content []byte, _ string) (string, error) {
	z := html.NewTokenizer(bytes.NewReader(content))
	var b strings.Builder
	skip := 0 // depth inside script/style

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%w: %v", domain.ErrDocumentProcessingFailed, err)
			}
			return CleanText(b.String()), nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				skip++
			}
			if blockTags[tag] {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
			if blockTags[tag] {
				b.WriteByte('\n')
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func (n *HTML) SupportedTypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

func (n *HTML) Priority() int {
	return 50
}
