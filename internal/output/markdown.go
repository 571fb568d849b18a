package output

import (
	"fmt"
	"strings"

	"github.com/leonardomso/autolink/internal/helpers"
	"github.com/leonardomso/autolink/internal/linker"
)

// MarkdownFormatter formats reports as Markdown.
type MarkdownFormatter struct{}

// Format implements Formatter.
func (*MarkdownFormatter) Format(report *Report) ([]byte, error) {
	s := report.Summary()

	// ~150 bytes per table row plus the header.
	var b strings.Builder
	b.Grow((len(report.Entries)+len(report.Ignored))*150 + 500)

	b.WriteString("# Autolink Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s  \n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Files Scanned:** %d  \n", s.Files)
	fmt.Fprintf(&b, "**Files With Links:** %d\n\n", s.FilesWithMatches)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Kind | Count |\n")
	b.WriteString("|------|-------|\n")
	fmt.Fprintf(&b, "| URLs | %d |\n", s.URLs)
	fmt.Fprintf(&b, "| Emails | %d |\n", s.Emails)
	fmt.Fprintf(&b, "| Unique | %d |\n", s.UniqueHrefs)
	if s.Ignored > 0 {
		fmt.Fprintf(&b, "| Ignored | %d |\n", s.Ignored)
	}
	if s.Errors > 0 {
		fmt.Fprintf(&b, "| Errors | %d |\n", s.Errors)
	}
	b.WriteString("\n")

	writeEntries(&b, "URLs", filterByKind(report.Entries, linker.KindURL))
	writeEntries(&b, "Emails", filterByKind(report.Entries, linker.KindEmail))

	if len(report.Ignored) > 0 {
		fmt.Fprintf(&b, "## Ignored (%d)\n\n", len(report.Ignored))
		b.WriteString("| Text | File | Line | Reason | Rule |\n")
		b.WriteString("|------|------|------|--------|------|\n")
		for _, ig := range report.Ignored {
			fmt.Fprintf(&b, "| %s | %s | %d | %s | `%s` |\n",
				escapeMarkdown(helpers.TruncateText(ig.Text, 60)), ig.File, ig.Line, ig.Type, ig.Rule)
		}
		b.WriteString("\n")
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(&b, "## Errors (%d)\n\n", len(report.Errors))
		for _, fe := range report.Errors {
			fmt.Fprintf(&b, "- `%s`: %s\n", fe.File, fe.Error)
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

// writeEntries writes one table section. Empty sections are omitted.
func writeEntries(b *strings.Builder, title string, entries []Entry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s (%d)\n\n", title, len(entries))
	b.WriteString("| Text | File | Line | Column |\n")
	b.WriteString("|------|------|------|--------|\n")
	for _, e := range entries {
		fmt.Fprintf(b, "| %s | %s | %d | %d |\n",
			escapeMarkdown(helpers.TruncateText(e.Text, 60)), e.File, e.Line, e.Column)
	}
	b.WriteString("\n")
}

// filterByKind returns the entries of one kind, preserving order.
func filterByKind(entries []Entry, kind linker.Kind) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// escapeMarkdown escapes characters that break table cells.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "`", "\\`")
	return s
}
