package linker

import "strings"

// Render returns the anchor markup for a single span:
//
//	<a href="HREF" name="value">DISPLAY</a>
//
// Attribute values and display text are substituted literally.
func Render(s Span, opts Options) string {
	var b strings.Builder
	renderTo(&b, s, opts)
	return b.String()
}

// renderTo writes the anchor for s into b.
func renderTo(b *strings.Builder, s Span, opts Options) {
	display := s.Text
	if opts.TextReplacer != nil {
		display = opts.TextReplacer(s.Text)
	}

	b.WriteString(`<a href="`)
	b.WriteString(s.Href())
	b.WriteByte('"')
	for _, a := range opts.Attributes {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	b.WriteString(display)
	b.WriteString("</a>")
}
