package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leonardomso/autolink/internal/filter"
	"github.com/leonardomso/autolink/internal/linker"
	"github.com/leonardomso/autolink/internal/output"
	"github.com/leonardomso/autolink/internal/processor"
	"github.com/leonardomso/autolink/internal/stats"
	"github.com/leonardomso/autolink/internal/ui"
)

var (
	findFlags       sharedFlags
	findFormat      string
	findOutputFile  string
	findShowIgnored bool
	findShowStats   bool
)

var findCmd = &cobra.Command{
	Use:   "find [path...]",
	Short: "Report the URLs and email addresses that would be linked",
	Long: `Find scans files for linkable URLs and email addresses without
changing anything, and lists each match with its position.

Use --format to print a structured report to stdout, or --output to write
one to a file (the format is inferred from the extension).

Formats: json, yaml, toml, xml, markdown

Examples:
  autolink find
  autolink find ./docs --mode url
  autolink find --format=json
  autolink find --output=links.yaml
  autolink find --ignore-domain=localhost --show-ignored`,
	Args: cobra.ArbitraryArgs,
	Run:  runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)

	findFlags.register(findCmd)
	findCmd.Flags().StringVarP(&findFormat, "format", "f", "",
		"Report format printed to stdout: "+strings.Join(output.ValidFormats(), ", "))
	findCmd.Flags().StringVarP(&findOutputFile, "output", "o", "",
		"Write the report to a file (.json, .yaml, .toml, .xml, .md)")
	findCmd.Flags().BoolVar(&findShowIgnored, "show-ignored", false,
		"List the matches left unlinked by ignore rules")
	findCmd.Flags().BoolVar(&findShowStats, "stats", false,
		"Show performance statistics (embedded in structured reports)")
	findCmd.MarkFlagsMutuallyExclusive("format", "output")
}

func runFind(cmd *cobra.Command, args []string) {
	lc, err := LoadConfig(configFiles, findFlags.noConfig)
	exitOnError(err, "")

	format := lc.GetOutputFormat(findFormat)
	if findOutputFile != "" {
		// An explicit file wins over the configured stdout format.
		format = ""
		_, err := output.InferFormat(findOutputFile)
		exitOnError(err, "")
	}
	if format != "" && !output.IsValidFormat(format) {
		exitOnError(fmt.Errorf("invalid format %q (valid: %s)",
			format, strings.Join(output.ValidFormats(), ", ")), "")
	}

	opts, err := lc.BuildProcessorOptions(&findFlags)
	exitOnError(err, "")

	var st *stats.Stats
	if findShowStats {
		st = stats.New()
		st.StartScan()
	}

	files, err := scanRoots(getPathArgs(args), lc.BuildScanOptions(findFlags.types))
	exitOnError(err, "Error scanning files")

	if st != nil {
		st.EndScan(len(files))
	}

	p, err := processor.New(opts.WithFindOnly(true))
	exitOnError(err, "")

	if st != nil {
		st.StartProcess()
	}
	results := p.ProcessAll(files)
	if st != nil {
		st.EndProcess(results)
		st.StartWrite()
	}

	report := output.NewReport(results, opts.Filter.IgnoredSpans(), opts.Link)
	out := cmd.OutOrStdout()

	structured := findOutputFile != "" || format != ""
	if st != nil && structured {
		st.EndWrite()
		report.Stats = st.ToJSON()
	}

	switch {
	case findOutputFile != "":
		exitOnError(output.WriteToFile(report, findOutputFile), "Error writing report")
		s := report.Summary()
		fmt.Fprintf(out, "Report written to %s (%d URL(s), %d email(s))\n",
			findOutputFile, s.URLs, s.Emails)
	case format != "":
		data, err := output.FormatReport(report, output.Format(format))
		exitOnError(err, "Error formatting report")
		_, err = out.Write(data)
		exitOnError(err, "")
	default:
		printFindText(out, report, findShowIgnored)
	}

	if st != nil && !structured {
		st.EndWrite()
		fmt.Fprintln(os.Stderr)
		fmt.Fprint(os.Stderr, st.String())
	}

	printFileErrors(results)
	if countFailed(results) > 0 {
		os.Exit(1) //nolint:revive // deep-exit is acceptable for CLI entry points
	}
}

// printFindText prints one line per match followed by a summary.
func printFindText(out io.Writer, report *output.Report, showIgnored bool) {
	s := report.Summary()

	if len(report.Files) == 0 {
		fmt.Fprintln(out, "No supported files found.")
		return
	}

	for _, e := range report.Entries {
		fmt.Fprintf(out, "%s:%d:%d  %s  %s\n",
			e.File, e.Line, e.Column, kindLabel(e.Kind), e.Text)
	}

	if showIgnored && len(report.Ignored) > 0 {
		if len(report.Entries) > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Ignored (%d):\n", len(report.Ignored))
		for _, r := range report.Ignored {
			fmt.Fprintf(out, "  %s  %s\n", ignoredLocation(r),
				ui.MutedStyle.Render(fmt.Sprintf("%s (%s: %s)", r.Text, r.Type, r.Rule)))
		}
	}

	if len(report.Entries) > 0 || (showIgnored && len(report.Ignored) > 0) {
		fmt.Fprintln(out)
	}

	summary := fmt.Sprintf("Found %d URL(s) and %d email address(es) in %d of %d file(s).",
		s.URLs, s.Emails, s.FilesWithMatches, s.Files)
	if s.URLs+s.Emails == 0 {
		fmt.Fprintln(out, ui.StatusStyle.Render(summary))
	} else {
		fmt.Fprintln(out, ui.URLStyle.Render(summary))
	}
	if s.Ignored > 0 && !showIgnored {
		fmt.Fprintln(out, ui.MutedStyle.Render(
			fmt.Sprintf("%d match(es) ignored by rules (use --show-ignored to list).", s.Ignored)))
	}
}

// kindLabel returns a fixed-width colored label for a match kind.
func kindLabel(k linker.Kind) string {
	if k == linker.KindEmail {
		return ui.EmailStyle.Render("email")
	}
	return ui.URLStyle.Render("url  ")
}

// ignoredLocation formats where an ignored match was found.
func ignoredLocation(r filter.IgnoreReason) string {
	switch {
	case r.File == "":
		return "-"
	case r.Line > 0:
		return fmt.Sprintf("%s:%d", r.File, r.Line)
	default:
		return r.File
	}
}
