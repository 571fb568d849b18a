package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set by main.go via SetVersion.
var version = "dev"

// configFiles are the --config paths, merged in order.
var configFiles []string

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "autolink",
	Short:   "Turn URLs and email addresses into HTML links",
	Version: version,
	Long: `Autolink finds http/https URLs and email addresses in text and
Markdown files and wraps them in <a href> anchors.

Use 'link' to rewrite text, 'find' to report what would be linked,
or 'interactive' to browse the matches in a terminal UI.

Examples:
  autolink link --text "mail me@example.com"
  autolink link README.md             # Print the linked file
  autolink link ./docs --write        # Rewrite files in place
  autolink find ./docs --format=json
  autolink interactive`,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVar(&configFiles, "config", nil,
		"Config file to use instead of the nearest .autolinkrc (repeatable, later files override)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1) //nolint:revive // deep-exit is acceptable for CLI entry points
	}
}
