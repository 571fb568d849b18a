package processor

import (
	"github.com/leonardomso/autolink/internal/document"
	"github.com/leonardomso/autolink/internal/filter"
	"github.com/leonardomso/autolink/internal/linker"
)

// Default values for processor options.
const (
	// DefaultConcurrency is the number of files processed at once.
	// The work is CPU-bound, so a small pool is enough.
	DefaultConcurrency = 8

	// DefaultMaxFileSize is the largest file that will be read (10 MiB).
	DefaultMaxFileSize int64 = 10 << 20
)

// Options configures a Processor.
type Options struct {
	// Link is passed to every document. Its Skip predicate, if any, runs
	// before the filter.
	Link linker.Options

	// Filter drops ignored spans and records why. Nil disables filtering.
	Filter *filter.Filter

	// Registry picks a handler per file. Nil uses the default registry.
	Registry *document.Registry

	// Concurrency is the number of worker goroutines.
	Concurrency int

	// MaxFileSize rejects larger files. Zero or less means no limit.
	MaxFileSize int64

	// Write rewrites changed files in place.
	Write bool

	// FindOnly locates matches without rendering output. Write is ignored.
	FindOnly bool
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Link:        linker.DefaultOptions(),
		Concurrency: DefaultConcurrency,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// WithLinkOptions returns a copy of Options with the linker options set.
func (o Options) WithLinkOptions(opts linker.Options) Options {
	o.Link = opts
	return o
}

// WithFilter returns a copy of Options with the ignore filter set.
func (o Options) WithFilter(f *filter.Filter) Options {
	o.Filter = f
	return o
}

// WithRegistry returns a copy of Options with the handler registry set.
func (o Options) WithRegistry(r *document.Registry) Options {
	o.Registry = r
	return o
}

// WithConcurrency returns a copy of Options with the given concurrency.
// Values below 1 fall back to DefaultConcurrency.
func (o Options) WithConcurrency(n int) Options {
	if n < 1 {
		n = DefaultConcurrency
	}
	o.Concurrency = n
	return o
}

// WithMaxFileSize returns a copy of Options with the given size limit.
func (o Options) WithMaxFileSize(n int64) Options {
	o.MaxFileSize = n
	return o
}

// WithWrite returns a copy of Options with in-place rewriting toggled.
func (o Options) WithWrite(write bool) Options {
	o.Write = write
	return o
}

// WithFindOnly returns a copy of Options that only locates matches.
func (o Options) WithFindOnly(findOnly bool) Options {
	o.FindOnly = findOnly
	return o
}
