// Package filter decides which found URLs and email addresses stay plain
// text, based on domains, glob patterns and regular expressions.
package filter

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/leonardomso/autolink/internal/linker"
)

// IgnoreReason describes why a span was left unlinked.
type IgnoreReason struct {
	Type string      // "domain", "pattern", or "regex"
	Rule string      // The rule that matched
	Text string      // The matched URL or address
	File string      // Source file, empty for inline text
	Line int         // Line number, 0 if unknown
	Kind linker.Kind // URL or email
}

// Filter holds compiled ignore rules. It is safe for concurrent use.
type Filter struct {
	// domains maps lowercase domain names for O(1) lookup.
	// Each domain also matches its subdomains.
	domains map[string]bool

	globPatterns  []compiledGlob
	regexPatterns []compiledRegex

	mu      sync.Mutex
	ignored []IgnoreReason
}

// compiledGlob holds a glob pattern and its original string for reporting.
type compiledGlob struct {
	pattern  glob.Glob
	original string
}

// compiledRegex holds a regex pattern and its original string for reporting.
type compiledRegex struct {
	pattern  *regexp.Regexp
	original string
}

// Config holds filter configuration.
type Config struct {
	Domains       []string // Domains to ignore (includes subdomains)
	GlobPatterns  []string // Glob patterns (e.g., "*.local/*")
	RegexPatterns []string // Regex patterns (e.g., ".*\\.internal\\..*")
}

// New compiles cfg into a Filter.
// Returns an error if any pattern fails to compile.
func New(cfg Config) (*Filter, error) {
	f := &Filter{
		domains: map[string]bool{},
	}

	for _, d := range cfg.Domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			f.domains[d] = true
		}
	}

	for _, p := range cfg.GlobPatterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", p, err)
		}
		f.globPatterns = append(f.globPatterns, compiledGlob{pattern: g, original: p})
	}

	for _, p := range cfg.RegexPatterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", p, err)
		}
		f.regexPatterns = append(f.regexPatterns, compiledRegex{pattern: r, original: p})
	}

	return f, nil
}

// ShouldIgnore reports whether the span must stay plain text and records
// the reason when it does. Check order (fastest first): domain, glob, regex.
// A nil Filter ignores nothing.
func (f *Filter) ShouldIgnore(span linker.Span, file string, line int) bool {
	if f == nil {
		return false
	}

	ruleType, rule, ok := f.match(span)
	if !ok {
		return false
	}

	f.mu.Lock()
	f.ignored = append(f.ignored, IgnoreReason{
		Type: ruleType,
		Rule: rule,
		Text: span.Text,
		File: file,
		Line: line,
		Kind: span.Kind,
	})
	f.mu.Unlock()
	return true
}

// Skip returns a predicate for linker.Options.Skip bound to file.
// Ignored spans are recorded with line 0.
func (f *Filter) Skip(file string) func(linker.Span) bool {
	return f.SkipWithLines(file, nil)
}

// SkipWithLines is like Skip but records the line lineOf returns for the
// span's start offset. A nil lineOf records 0.
func (f *Filter) SkipWithLines(file string, lineOf func(offset int) int) func(linker.Span) bool {
	if f == nil || !f.HasRules() {
		return nil
	}
	return func(s linker.Span) bool {
		line := 0
		if lineOf != nil {
			line = lineOf(s.Start)
		}
		return f.ShouldIgnore(s, file, line)
	}
}

// Matches reports whether the span matches a rule without recording it.
func (f *Filter) Matches(span linker.Span) bool {
	if f == nil {
		return false
	}
	_, _, ok := f.match(span)
	return ok
}

func (f *Filter) match(span linker.Span) (ruleType, rule string, ok bool) {
	if rule, ok := f.matchesDomain(span); ok {
		return "domain", rule, true
	}
	if rule, ok := f.matchesGlob(span.Text); ok {
		return "pattern", rule, true
	}
	if rule, ok := f.matchesRegex(span.Text); ok {
		return "regex", rule, true
	}
	return "", "", false
}

// matchesDomain checks the span's host (URL) or domain (email) against the
// ignored domains, including subdomains.
func (f *Filter) matchesDomain(span linker.Span) (string, bool) {
	if len(f.domains) == 0 {
		return "", false
	}

	host := Host(span)
	if host == "" {
		return "", false
	}

	if f.domains[host] {
		return host, true
	}

	// "example.com" also covers "www.example.com".
	for domain := range f.domains {
		if strings.HasSuffix(host, "."+domain) {
			return domain, true
		}
	}

	return "", false
}

// Host returns the lowercase host of a URL span or the domain of an email
// span. The authority is cut out by hand because greedy URL matches often
// carry text net/url rejects, such as a stray '%'. Trailing punctuation
// picked up by the match is dropped.
func Host(span linker.Span) string {
	if span.Kind == linker.KindEmail {
		at := strings.LastIndexByte(span.Text, '@')
		if at < 0 {
			return ""
		}
		return strings.ToLower(span.Text[at+1:])
	}

	host := span.Text
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if at := strings.LastIndexByte(host, '@'); at >= 0 {
		host = host[at+1:]
	}

	if strings.HasPrefix(host, "[") {
		end := strings.IndexByte(host, ']')
		if end < 0 {
			return ""
		}
		host = host[1:end]
	} else if colon := strings.LastIndexByte(host, ':'); colon >= 0 {
		host = host[:colon]
	}

	return strings.TrimRight(strings.ToLower(host), ".,;:!?)]}'\"")
}

func (f *Filter) matchesGlob(text string) (string, bool) {
	for _, g := range f.globPatterns {
		if g.pattern.Match(text) {
			return g.original, true
		}
	}
	return "", false
}

func (f *Filter) matchesRegex(text string) (string, bool) {
	for _, r := range f.regexPatterns {
		if r.pattern.MatchString(text) {
			return r.original, true
		}
	}
	return "", false
}

// IgnoredCount returns the number of spans that were ignored.
func (f *Filter) IgnoredCount() int {
	if f == nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ignored)
}

// IgnoredSpans returns a copy of every ignored span with its reason, sorted
// by file and line. Records of one file keep the order they were made in.
func (f *Filter) IgnoredSpans() []IgnoreReason {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	out := make([]IgnoreReason, len(f.ignored))
	copy(out, f.ignored)
	f.mu.Unlock()

	slices.SortStableFunc(out, func(a, b IgnoreReason) int {
		if c := cmp.Compare(a.File, b.File); c != 0 {
			return c
		}
		return cmp.Compare(a.Line, b.Line)
	})
	return out
}

// HasRules returns true if the filter has any rules defined.
func (f *Filter) HasRules() bool {
	if f == nil {
		return false
	}
	return len(f.domains) > 0 || len(f.globPatterns) > 0 || len(f.regexPatterns) > 0
}

// Stats returns a summary of the filter's rules.
func (f *Filter) Stats() (domains, globs, regexes int) {
	if f == nil {
		return 0, 0, 0
	}
	return len(f.domains), len(f.globPatterns), len(f.regexPatterns)
}
