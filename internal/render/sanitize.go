package render

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/x/ansi"
)

// Sanitize makes provider-supplied text safe for terminal display: escape
// sequences, control characters and bidi overrides are removed and runs of
// whitespace collapse to a single space.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteByte(' ')
		case unicode.IsControl(r), unicode.Is(unicode.Bidi_Control, r):
			continue
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// PlainText decodes the HTML entities and stray markup Gmail leaves in
// snippets. Text without either is returned unchanged.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

// Preview prepares a snippet for display.
func Preview(s string) string {
	return Sanitize(PlainText(s))
}
