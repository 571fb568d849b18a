// Package processor links many files concurrently. It uses a bounded worker
// pool and streams one Result per file.
package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/leonardomso/autolink/internal/document"
	"github.com/leonardomso/autolink/internal/linker"
)

// ErrNoHandler is returned for files no registered handler covers.
var ErrNoHandler = errors.New("no handler for file type")

// ErrTooLarge is returned for files above Options.MaxFileSize.
var ErrTooLarge = errors.New("file exceeds size limit")

// Result is the outcome of processing one file.
type Result struct {
	Err     error
	File    string
	Handler string
	Output  string
	Matches []document.Match
	Linked  int
	Skipped int
	Written bool

	index int
}

// Changed reports whether linking altered the file.
func (r Result) Changed() bool {
	return r.Err == nil && r.Linked > 0
}

// Processor runs document handlers over files.
type Processor struct {
	opts Options
}

// New creates a Processor. Invalid link options are rejected up front so
// workers never see them.
func New(opts Options) (*Processor, error) {
	if err := opts.Link.Validate(); err != nil {
		return nil, err
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Registry == nil {
		opts.Registry = document.DefaultRegistry()
	}
	return &Processor{opts: opts}, nil
}

// ProcessAll processes files and returns the results in input order.
// This is a blocking operation.
func (p *Processor) ProcessAll(files []string) []Result {
	results := make([]Result, len(files))
	for r := range p.Process(context.Background(), files) {
		results[r.index] = r
	}
	return results
}

type job struct {
	path  string
	index int
}

// Process handles files concurrently and streams results in completion
// order. The channel is closed once every file is done. Canceling ctx stops
// new work; files already queued report the context error.
func (p *Processor) Process(ctx context.Context, files []string) <-chan Result {
	results := make(chan Result, p.opts.Concurrency)

	go func() {
		defer close(results)

		jobs := make(chan job, len(files))

		var wg sync.WaitGroup
		for i := 0; i < p.opts.Concurrency; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.worker(ctx, jobs, results)
			}()
		}

	sendLoop:
		for i, f := range files {
			select {
			case jobs <- job{path: f, index: i}:
			case <-ctx.Done():
				break sendLoop
			}
		}
		close(jobs)

		wg.Wait()
	}()

	return results
}

func (p *Processor) worker(ctx context.Context, jobs <-chan job, results chan<- Result) {
	for j := range jobs {
		var r Result
		select {
		case <-ctx.Done():
			r = Result{File: j.path, Err: ctx.Err()}
		default:
			r = p.ProcessFile(j.path)
		}
		r.index = j.index
		results <- r
	}
}

// ProcessFile reads, links and optionally rewrites a single file.
func (p *Processor) ProcessFile(path string) Result {
	res := Result{File: path}

	h, ok := p.opts.Registry.GetForFile(path)
	if !ok {
		res.Err = fmt.Errorf("%s: %w", path, ErrNoHandler)
		return res
	}
	res.Handler = h.Name()

	info, err := os.Stat(path)
	if err != nil {
		res.Err = err
		return res
	}
	if p.opts.MaxFileSize > 0 && info.Size() > p.opts.MaxFileSize {
		res.Err = fmt.Errorf("%s: %w (%d bytes)", path, ErrTooLarge, info.Size())
		return res
	}

	content, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}

	opts := p.linkOptions(path, content)
	if p.opts.FindOnly {
		return p.findOnly(res, h, content, opts)
	}

	doc, err := document.Link(h, content, opts)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}
	res.Output = doc.Output
	res.Matches = doc.Matches
	res.Linked = doc.Linked
	res.Skipped = doc.Skipped

	if p.opts.Write && doc.Changed() {
		if err := os.WriteFile(path, []byte(doc.Output), info.Mode().Perm()); err != nil {
			res.Err = fmt.Errorf("writing %s: %w", path, err)
			return res
		}
		res.Written = true
	}

	return res
}

// findOnly fills res with the located matches. Linked counts the matches
// that would become anchors.
func (*Processor) findOnly(res Result, h document.Handler, content []byte, opts linker.Options) Result {
	matches, err := document.FindMatches(h, content, opts.Mode)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", res.File, err)
		return res
	}

	res.Matches = matches
	for i := range res.Matches {
		if opts.Skip != nil && opts.Skip(res.Matches[i].Span) {
			res.Matches[i].Skipped = true
			res.Skipped++
			continue
		}
		res.Linked++
	}
	return res
}

// ProcessContent links content that did not come from a file, such as
// stdin. name selects the handler by extension and labels ignore records;
// an unknown extension falls back to the txt handler.
func (p *Processor) ProcessContent(name string, content []byte) (document.Result, error) {
	h, ok := p.opts.Registry.GetForFile(name)
	if !ok {
		h, ok = p.opts.Registry.Lookup("txt")
		if !ok {
			return document.Result{}, fmt.Errorf("%s: %w", name, ErrNoHandler)
		}
	}
	return document.Link(h, content, p.linkOptions(name, content))
}

// linkOptions combines the caller's skip predicate with the filter.
func (p *Processor) linkOptions(file string, content []byte) linker.Options {
	opts := p.opts.Link
	if !p.opts.Filter.HasRules() {
		return opts
	}

	idx := document.BuildLineIndex(content)
	filterSkip := p.opts.Filter.SkipWithLines(file, func(offset int) int {
		line, _ := idx.Position(offset)
		return line
	})

	userSkip := opts.Skip
	if userSkip == nil {
		return opts.WithSkip(filterSkip)
	}
	return opts.WithSkip(func(s linker.Span) bool {
		return userSkip(s) || filterSkip(s)
	})
}
