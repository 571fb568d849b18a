package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardomso/autolink/internal/document"
	"github.com/leonardomso/autolink/internal/filter"
	"github.com/leonardomso/autolink/internal/linker"
	"github.com/leonardomso/autolink/internal/processor"
)

func testMatch(text string, kind linker.Kind, line int, skipped bool) document.Match {
	return document.Match{
		Span:    linker.Span{Text: text, Start: 0, End: len(text), Kind: kind},
		Line:    line,
		Column:  1,
		Skipped: skipped,
	}
}

func TestFilterType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filterURLs, filterAll.Next())
	assert.Equal(t, filterAll, filterIgnored.Next())
	assert.Equal(t, "Emails", filterEmails.String())

	url := MatchItem{Match: testMatch("http://a.example", linker.KindURL, 1, false)}
	email := MatchItem{Match: testMatch("a@b.org", linker.KindEmail, 1, false)}
	ignored := MatchItem{Match: testMatch("http://localhost", linker.KindURL, 1, true)}

	assert.True(t, filterAll.keep(ignored))
	assert.True(t, filterURLs.keep(url))
	assert.False(t, filterURLs.keep(ignored))
	assert.True(t, filterEmails.keep(email))
	assert.False(t, filterEmails.keep(url))
	assert.True(t, filterIgnored.keep(ignored))
	assert.False(t, filterIgnored.keep(email))
}

func TestResultToItems(t *testing.T) {
	t.Parallel()

	ignored := []filter.IgnoreReason{{Type: "domain", Rule: "localhost", Text: "http://localhost", File: "a.md", Line: 2}}
	matches := []document.Match{
		testMatch("a@b.org", linker.KindEmail, 1, false),
		testMatch("http://localhost", linker.KindURL, 2, true),
	}

	items := ResultToItems("a.md", matches, linker.DefaultOptions().WithAttribute("class", "x"), indexReasons(ignored))
	require.Len(t, items, 2)

	assert.Equal(t, `<a href="mailto:a@b.org" class="x">a@b.org</a>`, items[0].Anchor)
	assert.Nil(t, items[0].Reason)
	assert.Equal(t, "email | a.md:1:1", items[0].Description())
	assert.Contains(t, items[0].DetailView(), "Anchor:")

	assert.Empty(t, items[1].Anchor)
	require.NotNil(t, items[1].Reason)
	assert.Equal(t, "localhost", items[1].Reason.Rule)
	assert.Equal(t, "ignored | a.md:2:1", items[1].Description())
	assert.Contains(t, items[1].DetailView(), "ignore rule")
	assert.Equal(t, "http://localhost", items[1].FilterValue())
}

func TestModel_Flow(t *testing.T) {
	t.Parallel()

	m := New(Options{Processor: processor.DefaultOptions()})
	assert.Equal(t, ".", m.opts.Scan.Root)
	assert.Equal(t, stateScanning, m.state)

	next, cmd := m.Update(FilesFoundMsg{Files: []string{"a.md"}})
	m = next.(Model)
	assert.Equal(t, stateFinding, m.state)
	assert.NotNil(t, cmd)

	next, _ = m.Update(FileProcessedMsg{Result: processor.Result{
		File: "a.md",
		Matches: []document.Match{
			testMatch("http://a.example", linker.KindURL, 1, false),
			testMatch("a@b.org", linker.KindEmail, 2, false),
			testMatch("http://localhost", linker.KindURL, 3, true),
		},
	}})
	m = next.(Model)
	assert.Equal(t, 1, m.urls)
	assert.Equal(t, 1, m.emails)
	assert.Equal(t, 1, m.ignored)

	next, _ = m.Update(AllFilesProcessedMsg{})
	m = next.(Model)
	assert.Equal(t, stateResults, m.state)
	assert.Len(t, m.items, 3)
	assert.Equal(t, 3, m.filteredCount())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	m = next.(Model)
	assert.Equal(t, filterURLs, m.filter)
	assert.Equal(t, 1, m.filteredCount())
	assert.Contains(t, m.View(), "Filter:")

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(Model)
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
	assert.Equal(t, "Goodbye!\n", m.View())
}

func TestModel_Errors(t *testing.T) {
	t.Parallel()

	m := New(Options{})
	next, _ := m.Update(FilesFoundMsg{Err: errors.New("no such dir")})
	m = next.(Model)
	assert.Equal(t, stateResults, m.state)
	assert.Contains(t, m.View(), "no such dir")

	m = New(Options{})
	next, _ = m.Update(FilesFoundMsg{})
	m = next.(Model)
	assert.Equal(t, stateResults, m.state)
	assert.Contains(t, m.View(), "No links found.")
}
