package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/leonardomso/autolink/internal/ui"
)

var interactiveFlags sharedFlags

// interactiveCmd represents the interactive command.
var interactiveCmd = &cobra.Command{
	Use:   "interactive [path]",
	Short: "Browse linkable URLs and emails in a terminal UI",
	Long: `Launch an interactive terminal UI that scans for linkable URLs and
email addresses and shows the anchor each one would become.

Controls:
  up/down or j/k   Navigate through results
  f                Cycle filter (All / URLs / Emails / Ignored)
  /                Search
  ?                Toggle help
  q                Quit`,
	Args: cobra.MaximumNArgs(1),
	Run:  runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
	interactiveFlags.register(interactiveCmd)
}

func runInteractive(_ *cobra.Command, args []string) {
	lc, err := LoadConfig(configFiles, interactiveFlags.noConfig)
	exitOnError(err, "")

	procOpts, err := lc.BuildProcessorOptions(&interactiveFlags)
	exitOnError(err, "")

	scanOpts := lc.BuildScanOptions(interactiveFlags.types)
	scanOpts.Root = getPathArgs(args)[0]

	m := ui.New(ui.Options{Scan: scanOpts, Processor: procOpts})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		exitOnError(fmt.Errorf("running interactive mode: %w", err), "")
	}
}
