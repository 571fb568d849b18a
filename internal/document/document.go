// Package document applies the linker to whole files. Each file format has a
// Handler that decides which parts of the content are eligible for linking.
package document

import (
	"sort"

	"github.com/leonardomso/autolink/internal/linker"
)

// Handler finds linkable spans in one file format.
type Handler interface {
	// Name is the type name used by --types (e.g., "md").
	Name() string

	// Extensions returns the file extensions this handler covers,
	// with the leading dot (e.g., [".md", ".markdown"]).
	Extensions() []string

	// Find returns the sorted, non-overlapping spans eligible for linking.
	Find(content []byte, mode linker.LinkMode) ([]linker.Span, error)
}

// Match is a span with its position in the source file.
type Match struct {
	linker.Span
	Line    int  // 1-indexed
	Column  int  // 1-indexed, in bytes
	Skipped bool // Left as plain text by Options.Skip
}

// Result is the outcome of linking one document.
type Result struct {
	Output  string
	Matches []Match // Every span found, including skipped ones
	Linked  int     // Spans turned into anchors
	Skipped int     // Spans left as text by opts.Skip
}

// Changed reports whether linking altered the document.
func (r Result) Changed() bool {
	return r.Linked > 0
}

// Link runs h over content and renders the eligible spans.
// Options are validated before anything is parsed.
func Link(h Handler, content []byte, opts linker.Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	spans, err := h.Find(content, opts.Mode)
	if err != nil {
		return Result{}, err
	}

	text := string(content)
	res := Result{Matches: Locate(content, spans)}

	linked := spans
	if opts.Skip != nil {
		linked = make([]linker.Span, 0, len(spans))
		for i, s := range spans {
			if opts.Skip(s) {
				res.Matches[i].Skipped = true
				res.Skipped++
				continue
			}
			linked = append(linked, s)
		}
	}
	res.Linked = len(linked)
	res.Output = linker.Apply(text, linked, opts)

	return res, nil
}

// FindMatches runs h over content and attaches positions to the spans.
func FindMatches(h Handler, content []byte, mode linker.LinkMode) ([]Match, error) {
	spans, err := h.Find(content, mode)
	if err != nil {
		return nil, err
	}
	return Locate(content, spans), nil
}

// LineIndex holds the byte offset at which each line starts.
type LineIndex []int

// BuildLineIndex scans content once for newlines.
func BuildLineIndex(content []byte) LineIndex {
	// Pre-allocate assuming ~40 bytes per line on average.
	idx := make(LineIndex, 1, len(content)/40+1)
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

// Position converts a byte offset to a 1-indexed line and column.
func (idx LineIndex) Position(offset int) (line, col int) {
	// First line start strictly greater than offset, minus one.
	i := sort.SearchInts(idx, offset+1) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - idx[i] + 1
}

// Locate attaches line and column numbers to spans.
func Locate(content []byte, spans []linker.Span) []Match {
	if len(spans) == 0 {
		return nil
	}
	idx := BuildLineIndex(content)
	matches := make([]Match, len(spans))
	for i, s := range spans {
		line, col := idx.Position(s.Start)
		matches[i] = Match{Span: s, Line: line, Column: col}
	}
	return matches
}
