package linker

// Kind identifies the pattern family that produced a span.
// The ordinal doubles as the merge tie-break: URLs win over emails.
type Kind int

const (
	// KindURL is an http:// or https:// URL.
	KindURL Kind = iota
	// KindEmail is a local-part@domain address.
	KindEmail
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindEmail:
		return "email"
	default:
		return "unknown"
	}
}

// Span is a linkable range of the input.
// Start and End are byte offsets; End is exclusive and Start < End.
type Span struct {
	Text  string
	Start int
	End   int
	Kind  Kind
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether s and o share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Href returns the anchor target for the span.
func (s Span) Href() string {
	if s.Kind == KindEmail {
		return "mailto:" + s.Text
	}
	return s.Text
}
