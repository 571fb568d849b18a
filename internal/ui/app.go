// Package ui is an interactive terminal browser for the links autolink
// would create.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonardomso/autolink/internal/linker"
	"github.com/leonardomso/autolink/internal/processor"
	"github.com/leonardomso/autolink/internal/scanner"
)

// =============================================================================
// STATE MACHINE
// =============================================================================

type appState int

const (
	stateScanning appState = iota // Finding files
	stateFinding                  // Searching files for links
	stateResults                  // Showing results (list view)
)

// =============================================================================
// FILTER TYPES
// =============================================================================

type filterType int

const (
	filterAll     filterType = iota // Every match, ignored included
	filterURLs                      // Linked URLs
	filterEmails                    // Linked emails
	filterIgnored                   // Left alone by ignore rules
)

const filterCount = 4

func (f filterType) String() string {
	switch f {
	case filterAll:
		return "All"
	case filterURLs:
		return "URLs"
	case filterEmails:
		return "Emails"
	case filterIgnored:
		return "Ignored"
	default:
		return "Unknown"
	}
}

func (f filterType) Next() filterType {
	return (f + 1) % filterCount
}

func (f filterType) keep(item MatchItem) bool {
	switch f {
	case filterURLs:
		return !item.Match.Skipped && item.Match.Kind == linker.KindURL
	case filterEmails:
		return !item.Match.Skipped && item.Match.Kind == linker.KindEmail
	case filterIgnored:
		return item.Match.Skipped
	default:
		return true
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Options configures the browser.
type Options struct {
	Scan      scanner.ScanOptions
	Processor processor.Options
}

// Model is the main application model.
type Model struct {
	err  error
	opts Options

	// Data
	files   []string
	results []processor.Result
	items   []MatchItem

	// Progress tracking
	processed int
	urls      int
	emails    int
	ignored   int
	failed    int

	// Components
	spinner spinner.Model
	list    list.Model
	help    help.Model
	keys    KeyMap

	// Shared across model copies; commands write to it.
	process *ProcessState

	state    appState
	filter   filterType
	width    int
	height   int
	showHelp bool
	quitting bool
}

// New creates a Model. An empty scan root means the current directory.
func New(opts Options) Model {
	if opts.Scan.Root == "" {
		opts.Scan.Root = "."
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = SelectedStyle
	delegate.Styles.SelectedDesc = StatusStyle

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Links"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.Styles.Title = TitleStyle

	return Model{
		opts:    opts,
		state:   stateScanning,
		spinner: s,
		list:    l,
		help:    help.New(),
		keys:    DefaultKeyMap(),
		filter:  filterAll,
		process: &ProcessState{},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, ScanFilesCmd(m.opts.Scan))
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Header, summary and detail panel
		m.list.SetSize(msg.Width, max(msg.Height-14, 5))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case FilesFoundMsg:
		return m.handleFilesFound(msg)

	case FileProcessedMsg:
		return m.handleFileProcessed(msg)

	case AllFilesProcessedMsg:
		return m.handleAllProcessed(msg)
	}

	if m.state == stateResults {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if m.process.CancelFunc != nil {
			m.process.CancelFunc()
		}
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.state != stateResults {
		return m, nil
	}

	if key.Matches(msg, m.keys.Filter) && m.list.FilterState() == list.Unfiltered {
		m.filter = m.filter.Next()
		m.updateListItems()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleFilesFound(msg FilesFoundMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.state = stateResults
		return m, nil
	}

	m.files = msg.Files
	if len(m.files) == 0 {
		m.state = stateResults
		return m, nil
	}

	m.state = stateFinding
	return m, StartProcessingCmd(m.files, m.opts.Processor, m.process)
}

func (m Model) handleFileProcessed(msg FileProcessedMsg) (tea.Model, tea.Cmd) {
	r := msg.Result
	m.results = append(m.results, r)
	m.processed++

	if r.Err != nil {
		m.failed++
	}
	for _, match := range r.Matches {
		switch {
		case match.Skipped:
			m.ignored++
		case match.Kind == linker.KindEmail:
			m.emails++
		default:
			m.urls++
		}
	}

	return m, WaitForNextResultCmd(m.process)
}

func (m Model) handleAllProcessed(msg AllFilesProcessedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
	}
	m.state = stateResults
	m.process.ResultsChan = nil

	reasons := indexReasons(m.opts.Processor.Filter.IgnoredSpans())
	m.items = m.items[:0]
	for _, r := range m.results {
		m.items = append(m.items, ResultToItems(r.File, r.Matches, m.opts.Processor.Link, reasons)...)
	}

	m.updateListItems()
	return m, nil
}

// updateListItems refills the list for the current filter.
func (m *Model) updateListItems() {
	items := make([]list.Item, 0, len(m.items))
	for _, it := range m.items {
		if m.filter.keep(it) {
			items = append(items, it)
		}
	}
	m.list.SetItems(items)
}

// filteredCount returns how many items the current filter keeps.
func (m Model) filteredCount() int {
	n := 0
	for _, it := range m.items {
		if m.filter.keep(it) {
			n++
		}
	}
	return n
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Autolink - Link Browser"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("Press q to quit"))
		return b.String()
	}

	switch m.state {
	case stateScanning:
		b.WriteString(m.spinner.View() + " Scanning for files...")
	case stateFinding:
		b.WriteString(m.spinner.View() +
			fmt.Sprintf(" Searching for links... %d/%d files", m.processed, len(m.files)))
		b.WriteString("\n\n  " + m.renderCounts())
	case stateResults:
		b.WriteString(m.renderResults())
	}

	if m.showHelp {
		b.WriteString("\n\n" + m.help.View(m.keys))
	} else {
		b.WriteString("\n\n" + HelpStyle.Render("↑/↓ navigate • f filter • / search • ? help • q quit"))
	}

	return b.String()
}

func (m Model) renderCounts() string {
	s := fmt.Sprintf("%s  %s  %s",
		URLStyle.Render(fmt.Sprintf("%d urls", m.urls)),
		EmailStyle.Render(fmt.Sprintf("%d emails", m.emails)),
		MutedStyle.Render(fmt.Sprintf("%d ignored", m.ignored)))
	if m.failed > 0 {
		s += "  " + ErrorStyle.Render(fmt.Sprintf("%d failed", m.failed))
	}
	return s
}

func (m Model) renderResults() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Searched %d file(s)\n\n", len(m.files))
	b.WriteString(m.renderCounts())
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(MutedStyle.Render("No links found."))
		return b.String()
	}

	fmt.Fprintf(&b, "Filter: %s (%d/%d)\n\n",
		SelectedStyle.Render(m.filter.String()), m.filteredCount(), len(m.items))

	b.WriteString(m.list.View())

	if selected, ok := m.list.SelectedItem().(MatchItem); ok {
		b.WriteString("\n" + selected.DetailView())
	}

	return b.String()
}
