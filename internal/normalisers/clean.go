package normalisers

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(` +`)

// CleanText normalises extracted text before chunking. Blank lines are
// dropped and runs of spaces collapse to one.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.ReplaceAll(text, "\t", " ")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, multiSpace.ReplaceAllString(line, " "))
		}
	}
	return strings.Join(kept, "\n")
}
