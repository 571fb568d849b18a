package output

import (
	"encoding/json"
	"time"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct{}

// reportView is the serialized report shape shared by the JSON, YAML and
// TOML formatters.
type reportView struct {
	GeneratedAt string         `json:"generated_at" yaml:"generated_at" toml:"generated_at"`
	Summary     summaryView    `json:"summary" yaml:"summary" toml:"summary"`
	Files       []string       `json:"files" yaml:"files" toml:"files"`
	Links       []entryView    `json:"links" yaml:"links" toml:"links"`
	Ignored     []ignoredView  `json:"ignored,omitempty" yaml:"ignored,omitempty" toml:"ignored,omitempty"`
	Errors      []errorView    `json:"errors,omitempty" yaml:"errors,omitempty" toml:"errors,omitempty"`
	Stats       map[string]any `json:"stats,omitempty" yaml:"stats,omitempty" toml:"stats,omitempty"`
}

type summaryView struct {
	Files            int `json:"files" yaml:"files" toml:"files"`
	FilesWithMatches int `json:"files_with_matches" yaml:"files_with_matches" toml:"files_with_matches"`
	URLs             int `json:"urls" yaml:"urls" toml:"urls"`
	Emails           int `json:"emails" yaml:"emails" toml:"emails"`
	UniqueHrefs      int `json:"unique_hrefs" yaml:"unique_hrefs" toml:"unique_hrefs"`
	Ignored          int `json:"ignored" yaml:"ignored" toml:"ignored"`
	Errors           int `json:"errors" yaml:"errors" toml:"errors"`
}

type entryView struct {
	File   string `json:"file" yaml:"file" toml:"file"`
	Line   int    `json:"line" yaml:"line" toml:"line"`
	Column int    `json:"column" yaml:"column" toml:"column"`
	Kind   string `json:"kind" yaml:"kind" toml:"kind"`
	Text   string `json:"text" yaml:"text" toml:"text"`
	Href   string `json:"href" yaml:"href" toml:"href"`
	Anchor string `json:"anchor" yaml:"anchor" toml:"anchor"`
}

type ignoredView struct {
	Text   string `json:"text" yaml:"text" toml:"text"`
	Kind   string `json:"kind" yaml:"kind" toml:"kind"`
	File   string `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty" toml:"line,omitempty"`
	Reason string `json:"reason" yaml:"reason" toml:"reason"`
	Rule   string `json:"rule" yaml:"rule" toml:"rule"`
}

type errorView struct {
	File  string `json:"file" yaml:"file" toml:"file"`
	Error string `json:"error" yaml:"error" toml:"error"`
}

// newReportView converts a report to its serialized shape.
func newReportView(report *Report) reportView {
	s := report.Summary()
	v := reportView{
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Summary: summaryView{
			Files:            s.Files,
			FilesWithMatches: s.FilesWithMatches,
			URLs:             s.URLs,
			Emails:           s.Emails,
			UniqueHrefs:      s.UniqueHrefs,
			Ignored:          s.Ignored,
			Errors:           s.Errors,
		},
		Files: report.Files,
		Links: make([]entryView, 0, len(report.Entries)),
		Stats: report.Stats,
	}
	if v.Files == nil {
		v.Files = []string{}
	}

	for _, e := range report.Entries {
		v.Links = append(v.Links, entryView{
			File:   e.File,
			Line:   e.Line,
			Column: e.Column,
			Kind:   e.Kind.String(),
			Text:   e.Text,
			Href:   e.Href,
			Anchor: e.Anchor,
		})
	}

	for _, ig := range report.Ignored {
		v.Ignored = append(v.Ignored, ignoredView{
			Text:   ig.Text,
			Kind:   ig.Kind.String(),
			File:   ig.File,
			Line:   ig.Line,
			Reason: ig.Type,
			Rule:   ig.Rule,
		})
	}

	for _, fe := range report.Errors {
		v.Errors = append(v.Errors, errorView(fe))
	}

	return v
}

// Format implements Formatter.
func (*JSONFormatter) Format(report *Report) ([]byte, error) {
	return json.MarshalIndent(newReportView(report), "", "  ")
}
