package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonardomso/autolink/internal/processor"
	"github.com/leonardomso/autolink/internal/scanner"
)

// ScanFilesCmd returns a command that finds the files to search.
func ScanFilesCmd(opts scanner.ScanOptions) tea.Cmd {
	return func() tea.Msg {
		files, err := scanner.FindFilesWithOptions(opts)
		return FilesFoundMsg{Files: files, Err: err}
	}
}

// ProcessState holds the running processor's channel so commands can stay
// stateless functions.
type ProcessState struct {
	ResultsChan <-chan processor.Result
	CancelFunc  context.CancelFunc
}

// StartProcessingCmd starts the processor and returns the first result.
// The browser only locates matches and never modifies files.
func StartProcessingCmd(files []string, opts processor.Options, state *ProcessState) tea.Cmd {
	return func() tea.Msg {
		p, err := processor.New(opts.WithWrite(false).WithFindOnly(true))
		if err != nil {
			return AllFilesProcessedMsg{Err: err}
		}

		ctx, cancel := context.WithCancel(context.Background())
		state.CancelFunc = cancel
		state.ResultsChan = p.Process(ctx, files)

		return nextResult(state)
	}
}

// WaitForNextResultCmd waits for the next result from the channel.
func WaitForNextResultCmd(state *ProcessState) tea.Cmd {
	return func() tea.Msg {
		return nextResult(state)
	}
}

func nextResult(state *ProcessState) tea.Msg {
	if state.ResultsChan == nil {
		return AllFilesProcessedMsg{}
	}
	result, ok := <-state.ResultsChan
	if !ok {
		return AllFilesProcessedMsg{}
	}
	return FileProcessedMsg{Result: result}
}
