package linker

import "strings"

// Apply renders spans into text and copies everything between them verbatim.
// Spans must be sorted by Start and must not overlap, as returned by Find.
// With no spans the input string itself is returned.
func Apply(text string, spans []Span, opts Options) string {
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	// Each anchor adds roughly 15 bytes of markup plus a copy of the href.
	b.Grow(len(text) + len(spans)*32)

	cursor := 0
	for _, s := range spans {
		b.WriteString(text[cursor:s.Start])
		renderTo(&b, s, opts)
		cursor = s.End
	}
	b.WriteString(text[cursor:])

	return b.String()
}
