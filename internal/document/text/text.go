// Package text handles plain text files: the whole content is eligible.
package text

import (
	"github.com/leonardomso/autolink/internal/document"
	"github.com/leonardomso/autolink/internal/linker"
)

// Handler implements document.Handler for plain text.
type Handler struct{}

// New creates a plain text handler.
func New() *Handler {
	return &Handler{}
}

// Name implements document.Handler.
func (*Handler) Name() string {
	return "txt"
}

// Extensions implements document.Handler.
func (*Handler) Extensions() []string {
	return []string{".txt", ".text", ".log"}
}

// Find implements document.Handler.
func (*Handler) Find(content []byte, mode linker.LinkMode) ([]linker.Span, error) {
	return linker.Find(string(content), mode)
}

func init() {
	document.RegisterHandler(New())
}
