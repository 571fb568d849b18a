// Package markdown handles Markdown files. Only prose is eligible for
// linking: code spans, code blocks, existing links, images, autolinks and
// text inside raw <a> tags are left alone.
package markdown

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	"github.com/leonardomso/autolink/internal/document"
	"github.com/leonardomso/autolink/internal/linker"
)

// Handler implements document.Handler for Markdown.
type Handler struct {
	md goldmark.Markdown
}

// New creates a Markdown handler. Linkify is deliberately not enabled so
// bare URLs stay plain text nodes.
func New() *Handler {
	return &Handler{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
				extension.TaskList,
			),
		),
	}
}

// Name implements document.Handler.
func (*Handler) Name() string {
	return "md"
}

// Extensions implements document.Handler.
func (*Handler) Extensions() []string {
	return []string{".md", ".mdx", ".markdown"}
}

// Find implements document.Handler. Each prose region is matched on its
// own, so a greedy URL never runs into neighbouring markup.
func (h *Handler) Find(content []byte, mode linker.LinkMode) ([]linker.Span, error) {
	if !mode.Valid() {
		return linker.Find("", mode)
	}
	if len(content) == 0 {
		return nil, nil
	}

	var spans []linker.Span
	for _, r := range h.Regions(content) {
		found, err := linker.Find(string(content[r.Start:r.Stop]), mode)
		if err != nil {
			return nil, err
		}
		for _, s := range found {
			s.Start += r.Start
			s.End += r.Start
			spans = append(spans, s)
		}
	}
	return spans, nil
}

// Region is a byte range of prose in the source.
type Region struct {
	Start int
	Stop  int
}

// Regions parses content and returns the prose ranges in document order.
// Adjacent text nodes are joined into one region. So are text nodes split
// only by emphasis or strikethrough delimiters inside a word, as in
// "http://a.com/*b*/c".
func (h *Handler) Regions(content []byte) []Region {
	doc := h.md.Parser().Parse(gmtext.NewReader(content))

	w := &regionWalker{source: content}
	_ = ast.Walk(doc, w.walk)
	return w.regions
}

// regionWalker collects text segments while walking the AST.
type regionWalker struct {
	source  []byte
	regions []Region

	// Set between a raw "<a ...>" and "</a>" in inline HTML.
	inAnchor bool

	// Emphasis and strikethrough nodes currently open, and those closed
	// since the last text segment.
	open   []*delimiterFrame
	closed []*delimiterFrame
}

// delimiterFrame records whether the text after an opening delimiter run
// was joined to the text before it.
type delimiterFrame struct {
	pending bool
	joined  bool
}

func (w *regionWalker) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n.(type) {
	case *ast.Emphasis, *extast.Strikethrough:
		if entering {
			w.open = append(w.open, &delimiterFrame{pending: true})
		} else if last := len(w.open) - 1; last >= 0 {
			w.closed = append(w.closed, w.open[last])
			w.open = w.open[:last]
		}
		return ast.WalkContinue, nil
	}

	if !entering {
		return ast.WalkContinue, nil
	}

	switch node := n.(type) {
	case *ast.Link, *ast.Image, *ast.AutoLink, *ast.CodeSpan:
		return ast.WalkSkipChildren, nil

	case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
		// Raw anchors and delimiters do not span blocks.
		w.inAnchor = false
		w.open = w.open[:0]
		w.closed = w.closed[:0]

	case *ast.RawHTML:
		w.trackAnchor(node)

	case *ast.Text:
		if !w.inAnchor {
			w.add(node.Segment.Start, node.Segment.Stop)
		}
	}

	return ast.WalkContinue, nil
}

// trackAnchor flips inAnchor on opening and closing <a> tags.
func (w *regionWalker) trackAnchor(node *ast.RawHTML) {
	var buf bytes.Buffer
	for i := 0; i < node.Segments.Len(); i++ {
		seg := node.Segments.At(i)
		buf.Write(seg.Value(w.source))
	}

	z := html.NewTokenizer(&buf)
	switch z.Next() {
	case html.StartTagToken:
		if name, _ := z.TagName(); string(name) == "a" {
			w.inAnchor = true
		}
	case html.EndTagToken:
		if name, _ := z.TagName(); string(name) == "a" {
			w.inAnchor = false
		}
	}
}

// add appends a segment. It extends the last region when the two touch,
// or when only an intraword delimiter run separates them.
func (w *regionWalker) add(start, stop int) {
	if start >= stop {
		return
	}

	n := len(w.regions)
	join := n > 0 && (w.regions[n-1].Stop == start ||
		(w.closedJoined() && w.intraword(w.regions[n-1].Stop, start)))

	for _, f := range w.open {
		if f.pending {
			f.pending = false
			f.joined = join
		}
	}
	w.closed = w.closed[:0]

	if join {
		w.regions[n-1].Stop = stop
		return
	}
	w.regions = append(w.regions, Region{Start: start, Stop: stop})
}

// closedJoined reports whether every delimiter run closed since the last
// segment was opened in the middle of a word. A closing run may only join
// text that its opening run joined.
func (w *regionWalker) closedJoined() bool {
	for _, f := range w.closed {
		if !f.joined {
			return false
		}
	}
	return true
}

// intraword reports whether source[from:to] holds only delimiter characters
// with no whitespace on either side.
func (w *regionWalker) intraword(from, to int) bool {
	if from <= 0 || from >= to || to >= len(w.source) {
		return false
	}
	for _, c := range w.source[from:to] {
		if c != '*' && c != '_' && c != '~' {
			return false
		}
	}
	before, _ := utf8.DecodeLastRune(w.source[:from])
	after, _ := utf8.DecodeRune(w.source[to:])
	return !unicode.IsSpace(before) && !unicode.IsSpace(after)
}

func init() {
	document.RegisterHandler(New())
}
