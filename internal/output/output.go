// Package output formats and writes reports of the links found in files.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leonardomso/autolink/internal/filter"
	"github.com/leonardomso/autolink/internal/helpers"
	"github.com/leonardomso/autolink/internal/linker"
	"github.com/leonardomso/autolink/internal/processor"
)

// Format represents an output format type.
type Format string

const (
	// FormatJSON outputs as JSON.
	FormatJSON Format = "json"
	// FormatYAML outputs as YAML.
	FormatYAML Format = "yaml"
	// FormatTOML outputs as TOML.
	FormatTOML Format = "toml"
	// FormatXML outputs as generic XML.
	FormatXML Format = "xml"
	// FormatMarkdown outputs as a Markdown report.
	FormatMarkdown Format = "markdown"
)

// ValidFormats returns all valid format strings.
func ValidFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTOML),
		string(FormatXML),
		string(FormatMarkdown),
	}
}

// IsValidFormat checks if a format string is valid.
func IsValidFormat(s string) bool {
	switch Format(strings.ToLower(s)) {
	case FormatJSON, FormatYAML, FormatTOML, FormatXML, FormatMarkdown:
		return true
	default:
		return false
	}
}

// Entry is one link found in a file.
type Entry struct {
	File   string
	Text   string
	Href   string
	Anchor string // Markup that would replace Text
	Kind   linker.Kind
	Line   int
	Column int
}

// FileError is a file that could not be processed.
type FileError struct {
	File  string
	Error string
}

// Summary holds the report totals.
type Summary struct {
	Files            int
	FilesWithMatches int
	URLs             int
	Emails           int
	UniqueHrefs      int
	Ignored          int
	Errors           int
}

// Report contains all data needed for output formatting.
type Report struct {
	GeneratedAt time.Time
	Files       []string
	Entries     []Entry
	Ignored     []filter.IgnoreReason
	Errors      []FileError
	Stats       map[string]any // Optional performance stats (from --stats)
}

// NewReport builds a report from processor results. opts renders the
// Anchor of each entry. Matches left as text by a skip predicate are not
// entries; the filter reports them through ignored.
func NewReport(results []processor.Result, ignored []filter.IgnoreReason, opts linker.Options) *Report {
	r := &Report{
		GeneratedAt: time.Now(),
		Files:       make([]string, 0, len(results)),
		Ignored:     ignored,
	}

	for _, res := range results {
		r.Files = append(r.Files, res.File)
		if res.Err != nil {
			r.Errors = append(r.Errors, FileError{File: res.File, Error: res.Err.Error()})
			continue
		}
		for _, m := range res.Matches {
			if m.Skipped {
				continue
			}
			r.Entries = append(r.Entries, Entry{
				File:   res.File,
				Text:   m.Text,
				Href:   m.Href(),
				Anchor: linker.Render(m.Span, opts),
				Kind:   m.Kind,
				Line:   m.Line,
				Column: m.Column,
			})
		}
	}

	return r
}

// Summary computes the report totals.
func (r *Report) Summary() Summary {
	s := Summary{
		Files:   len(r.Files),
		Ignored: len(r.Ignored),
		Errors:  len(r.Errors),
	}

	files := make([]string, 0, len(r.Entries))
	hrefs := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		files = append(files, e.File)
		hrefs = append(hrefs, e.Href)
		if e.Kind == linker.KindEmail {
			s.Emails++
		} else {
			s.URLs++
		}
	}
	s.FilesWithMatches = helpers.CountUniqueStrings(files)
	s.UniqueHrefs = helpers.CountUniqueStrings(hrefs)

	return s
}

// Formatter is the interface that output formatters implement.
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// GetFormatter returns the appropriate formatter for a format.
func GetFormatter(format Format) (Formatter, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatTOML:
		return &TOMLFormatter{}, nil
	case FormatXML:
		return &XMLFormatter{}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// FormatReport formats a report using the specified format.
func FormatReport(report *Report, format Format) ([]byte, error) {
	formatter, err := GetFormatter(format)
	if err != nil {
		return nil, err
	}
	return formatter.Format(report)
}

// InferFormat determines the output format from a filename extension.
func InferFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".xml":
		return FormatXML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf(
			"cannot infer format from extension %q (supported: .json, .yaml, .yml, .toml, .xml, .md, .markdown)",
			ext,
		)
	}
}

// WriteToFile writes a formatted report to a file.
func WriteToFile(report *Report, filename string) error {
	format, err := InferFormat(filename)
	if err != nil {
		return err
	}

	data, err := FormatReport(report, format)
	if err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
