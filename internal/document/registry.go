package document

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry manages document handlers by extension and type name.
// It provides thread-safe registration and lookup.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler // extension -> handler
	byName   map[string]Handler // type name -> handler
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: map[string]Handler{},
		byName:   map[string]Handler{},
	}
}

// Register adds a handler for its name and all its extensions.
// Existing registrations are overwritten.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[strings.ToLower(h.Name())] = h
	for _, ext := range h.Extensions() {
		r.handlers[normalizeExtension(ext)] = h
	}
}

// Get returns the handler for a file extension.
func (r *Registry) Get(ext string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[normalizeExtension(ext)]
	return h, ok
}

// GetForFile returns the handler for filename based on its extension.
func (r *Registry) GetForFile(filename string) (Handler, bool) {
	return r.Get(filepath.Ext(filename))
}

// Lookup returns the handler registered under a type name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return h, ok
}

// SupportedTypes returns the sorted type names.
func (r *Registry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtensionsForTypes expands type names into every extension their
// handlers cover. A name may also be a bare extension ("markdown").
// Returns an error if any name is unknown.
func (r *Registry) ExtensionsForTypes(types []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]bool{}
	var exts []string
	add := func(ext string) {
		if !seen[ext] {
			seen[ext] = true
			exts = append(exts, ext)
		}
	}

	for _, t := range types {
		name := strings.ToLower(strings.TrimSpace(t))
		if h, ok := r.byName[name]; ok {
			for _, ext := range h.Extensions() {
				add(normalizeExtension(ext))
			}
			continue
		}
		ext := normalizeExtension(name)
		if _, ok := r.handlers[ext]; ok {
			add(ext)
			continue
		}
		return nil, fmt.Errorf("unsupported file type: %s", t)
	}
	return exts, nil
}

// normalizeExtension ensures the extension is lowercase with a leading dot.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the global registry that handler packages
// register themselves with from init.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// RegisterHandler registers h with the default registry.
func RegisterHandler(h Handler) {
	defaultRegistry.Register(h)
}

// HandlerForFile returns a handler from the default registry.
func HandlerForFile(filename string) (Handler, bool) {
	return defaultRegistry.GetForFile(filename)
}

// SupportedFileTypes returns the type names in the default registry.
func SupportedFileTypes() []string {
	return defaultRegistry.SupportedTypes()
}
