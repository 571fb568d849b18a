package ui

import (
	"fmt"
	"strings"

	"github.com/leonardomso/autolink/internal/document"
	"github.com/leonardomso/autolink/internal/filter"
	"github.com/leonardomso/autolink/internal/helpers"
	"github.com/leonardomso/autolink/internal/linker"
)

// MatchItem wraps a found span to implement list.Item.
type MatchItem struct {
	File   string
	Anchor string // Markup the span would be replaced with
	Reason *filter.IgnoreReason
	Match  document.Match
}

// FilterValue implements list.Item.
func (i MatchItem) FilterValue() string {
	return i.Match.Text
}

// Title implements list.DefaultItem.
func (i MatchItem) Title() string {
	return helpers.TruncateText(i.Match.Text, 70)
}

// Description implements list.DefaultItem.
func (i MatchItem) Description() string {
	loc := fmt.Sprintf("%s:%d:%d", i.File, i.Match.Line, i.Match.Column)
	if i.Match.Skipped {
		return "ignored | " + loc
	}
	return i.Match.Kind.String() + " | " + loc
}

// DetailView returns an expanded view of the selected item.
func (i MatchItem) DetailView() string {
	m := i.Match
	var b strings.Builder

	b.WriteString("┌─ Details ─────────────────────────────────────────────────────────────\n")
	fmt.Fprintf(&b, "│ %s  %s\n", DetailLabelStyle.Render("Kind:"), KindBadge(m.Kind, m.Skipped))
	fmt.Fprintf(&b, "│ %s  %s\n", DetailLabelStyle.Render("Href:"), m.Href())

	if m.Skipped {
		b.WriteString("│\n")
		if i.Reason != nil {
			fmt.Fprintf(&b, "│ %s  %s %q\n", DetailLabelStyle.Render("Rule:"), i.Reason.Type, i.Reason.Rule)
		}
		fmt.Fprintf(&b, "│ %s\n", DetailNoteStyle.Render("Note: left as plain text by an ignore rule"))
	} else {
		fmt.Fprintf(&b, "│ %s  %s\n", DetailLabelStyle.Render("Anchor:"), i.Anchor)
	}

	b.WriteString("│\n")
	fmt.Fprintf(&b, "│ %s  %s (line %d, column %d)\n",
		DetailLabelStyle.Render("File:"), i.File, m.Line, m.Column)
	b.WriteString("└────────────────────────────────────────────────────────────────────────\n")

	return b.String()
}

// ResultToItems converts the matches of one file into list items.
// reasons maps "file:line:text" to the rule that ignored the span.
func ResultToItems(file string, matches []document.Match, opts linker.Options,
	reasons map[string]*filter.IgnoreReason,
) []MatchItem {
	items := make([]MatchItem, 0, len(matches))
	for _, m := range matches {
		item := MatchItem{File: file, Match: m}
		if m.Skipped {
			item.Reason = reasons[reasonKey(file, m.Line, m.Text)]
		} else {
			item.Anchor = linker.Render(m.Span, opts)
		}
		items = append(items, item)
	}
	return items
}

// reasonKey identifies an ignored span across the filter and the matches.
func reasonKey(file string, line int, text string) string {
	return fmt.Sprintf("%s:%d:%s", file, line, text)
}

// indexReasons builds the lookup used by ResultToItems.
func indexReasons(ignored []filter.IgnoreReason) map[string]*filter.IgnoreReason {
	idx := make(map[string]*filter.IgnoreReason, len(ignored))
	for i := range ignored {
		ig := &ignored[i]
		idx[reasonKey(ig.File, ig.Line, ig.Text)] = ig
	}
	return idx
}
