package output

import (
	"encoding/xml"
	"time"
)

// XMLFormatter formats reports as generic XML.
type XMLFormatter struct{}

// xmlOutput is the XML structure for output.
type xmlOutput struct {
	Ignored     *xmlIgnored `xml:"ignored,omitempty"`
	Errors      *xmlErrors  `xml:"errors,omitempty"`
	XMLName     xml.Name    `xml:"report"`
	GeneratedAt string      `xml:"generated_at,attr"`
	Links       xmlLinks    `xml:"links"`
	Summary     xmlSummary  `xml:"summary"`
	TotalFiles  int         `xml:"total_files,attr"`
}

type xmlSummary struct {
	FilesWithMatches int `xml:"files_with_matches"`
	URLs             int `xml:"urls"`
	Emails           int `xml:"emails"`
	UniqueHrefs      int `xml:"unique_hrefs"`
	Ignored          int `xml:"ignored"`
	Errors           int `xml:"errors"`
}

type xmlLinks struct {
	Links []xmlLink `xml:"link"`
}

type xmlLink struct {
	Kind   string `xml:"kind,attr"`
	File   string `xml:"file"`
	Text   string `xml:"text"`
	Href   string `xml:"href"`
	Anchor string `xml:"anchor"`
	Line   int    `xml:"line,attr"`
	Column int    `xml:"column,attr"`
}

type xmlIgnored struct {
	Items []xmlIgnoredItem `xml:"item"`
}

type xmlIgnoredItem struct {
	Kind   string `xml:"kind,attr"`
	Reason string `xml:"reason,attr"`
	Rule   string `xml:"rule,attr"`
	Text   string `xml:"text"`
	File   string `xml:"file,omitempty"`
	Line   int    `xml:"line,omitempty"`
}

type xmlErrors struct {
	Items []xmlError `xml:"error"`
}

type xmlError struct {
	File    string `xml:"file,attr"`
	Message string `xml:",chardata"`
}

// Format implements Formatter.
func (*XMLFormatter) Format(report *Report) ([]byte, error) {
	s := report.Summary()
	output := xmlOutput{
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		TotalFiles:  s.Files,
		Summary: xmlSummary{
			FilesWithMatches: s.FilesWithMatches,
			URLs:             s.URLs,
			Emails:           s.Emails,
			UniqueHrefs:      s.UniqueHrefs,
			Ignored:          s.Ignored,
			Errors:           s.Errors,
		},
		Links: xmlLinks{Links: make([]xmlLink, 0, len(report.Entries))},
	}

	for _, e := range report.Entries {
		output.Links.Links = append(output.Links.Links, xmlLink{
			Kind:   e.Kind.String(),
			File:   e.File,
			Text:   e.Text,
			Href:   e.Href,
			Anchor: e.Anchor,
			Line:   e.Line,
			Column: e.Column,
		})
	}

	if len(report.Ignored) > 0 {
		output.Ignored = &xmlIgnored{Items: make([]xmlIgnoredItem, 0, len(report.Ignored))}
		for _, ig := range report.Ignored {
			output.Ignored.Items = append(output.Ignored.Items, xmlIgnoredItem{
				Kind:   ig.Kind.String(),
				Reason: ig.Type,
				Rule:   ig.Rule,
				Text:   ig.Text,
				File:   ig.File,
				Line:   ig.Line,
			})
		}
	}

	if len(report.Errors) > 0 {
		output.Errors = &xmlErrors{Items: make([]xmlError, 0, len(report.Errors))}
		for _, fe := range report.Errors {
			output.Errors.Items = append(output.Errors.Items, xmlError{File: fe.File, Message: fe.Error})
		}
	}

	data, err := xml.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), data...), nil
}
