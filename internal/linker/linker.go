// Package linker finds URLs and email addresses in plain text and rewrites
// them into HTML anchor markup. Everything outside a match is copied verbatim.
package linker

import (
	"errors"
	"fmt"
	"strings"
)

// LinkMode restricts which pattern families are active.
type LinkMode int

const (
	// ModeAll links both URLs and email addresses.
	ModeAll LinkMode = iota
	// ModeURL links only http/https URLs.
	ModeURL
	// ModeEmail links only email addresses.
	ModeEmail
)

// String returns the config/flag spelling of the mode.
func (m LinkMode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeURL:
		return "url"
	case ModeEmail:
		return "email"
	default:
		return fmt.Sprintf("LinkMode(%d)", int(m))
	}
}

// Valid reports whether m is one of the supported modes.
func (m LinkMode) Valid() bool {
	return m >= ModeAll && m <= ModeEmail
}

// linksURLs reports whether the URL family is active.
func (m LinkMode) linksURLs() bool {
	return m == ModeAll || m == ModeURL
}

// linksEmails reports whether the email family is active.
func (m LinkMode) linksEmails() bool {
	return m == ModeAll || m == ModeEmail
}

// ParseMode converts "all", "url" or "email" (any case) to a LinkMode.
// An empty string yields ModeAll.
func ParseMode(s string) (LinkMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ModeAll, nil
	case "url", "urls":
		return ModeURL, nil
	case "email", "emails":
		return ModeEmail, nil
	default:
		return ModeAll, &ConfigError{Field: "mode", Value: s, Err: ErrInvalidMode}
	}
}

// ModeNames returns the accepted mode spellings for help text.
func ModeNames() []string {
	return []string{ModeAll.String(), ModeURL.String(), ModeEmail.String()}
}

// Sentinel errors returned (wrapped in a *ConfigError) by option validation.
var (
	ErrInvalidMode      = errors.New("unsupported link mode")
	ErrInvalidAttribute = errors.New("invalid anchor attribute")
)

// ConfigError describes an option that failed validation.
type ConfigError struct {
	Err   error
	Field string
	Value string
}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns the sentinel error so callers can use errors.Is.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// AutoLink replaces every URL and email address in text with an anchor tag.
//
// Options are validated before any matching takes place. Empty text is
// returned unchanged, as is text with no linkable spans.
func AutoLink(text string, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	if text == "" {
		return text, nil
	}

	spans := find(text, opts.Mode)
	if opts.Skip != nil {
		spans = dropSkipped(spans, opts.Skip)
	}

	return Apply(text, spans, opts), nil
}

// Find returns the merged, non-overlapping spans for text without rendering
// anything.
func Find(text string, mode LinkMode) ([]Span, error) {
	if !mode.Valid() {
		return nil, &ConfigError{Field: "mode", Value: mode.String(), Err: ErrInvalidMode}
	}
	return find(text, mode), nil
}

// find runs only the families enabled by mode and merges their matches.
func find(text string, mode LinkMode) []Span {
	if text == "" {
		return nil
	}

	var urls, emails []Span
	if mode.linksURLs() {
		urls = FindURLs(text)
	}
	if mode.linksEmails() {
		emails = FindEmails(text)
	}

	return Merge(urls, emails)
}

// dropSkipped filters out spans the skip predicate rejects.
func dropSkipped(spans []Span, skip func(Span) bool) []Span {
	kept := spans[:0]
	for _, s := range spans {
		if !skip(s) {
			kept = append(kept, s)
		}
	}
	return kept
}
