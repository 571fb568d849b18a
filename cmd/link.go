package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/leonardomso/autolink/internal/document"
	"github.com/leonardomso/autolink/internal/processor"
	"github.com/leonardomso/autolink/internal/stats"
	"github.com/leonardomso/autolink/internal/ui"
)

// stdinPath is the path argument that reads from standard input.
const stdinPath = "-"

var (
	linkFlags     sharedFlags
	linkText      string
	linkStdinType string
	linkWrite     bool
	linkDryRun    bool
	linkShowStats bool
)

var linkCmd = &cobra.Command{
	Use:   "link [path...]",
	Short: "Wrap URLs and email addresses in <a href> anchors",
	Long: `Link finds http/https URLs and email addresses and replaces each one
with an HTML anchor.

Input can be inline text (--text), standard input ("-", or piped with
no path), files or directories. Directories are scanned recursively for supported file types.
Without --write the linked content is printed to stdout.

Markdown files only link plain prose: code, existing links, images and
raw HTML are left untouched.

Examples:
  autolink link --text "docs at https://go.dev"
  echo "ping me@example.com" | autolink link -
  autolink link README.md --attr target=_blank --attr rel=noopener
  autolink link ./docs --write
  autolink link ./docs --dry-run
  autolink link notes.txt --mode email --transform upper`,
	Args: cobra.ArbitraryArgs,
	Run:  runLink,
}

func init() {
	rootCmd.AddCommand(linkCmd)

	linkFlags.register(linkCmd)
	linkCmd.Flags().StringVarP(&linkText, "text", "t", "",
		"Link this text instead of reading files")
	linkCmd.Flags().StringVar(&linkStdinType, "stdin-type", "txt",
		"File type used for standard input: "+strings.Join(document.SupportedFileTypes(), ", "))
	linkCmd.Flags().BoolVarP(&linkWrite, "write", "w", false,
		"Rewrite files in place")
	linkCmd.Flags().BoolVarP(&linkDryRun, "dry-run", "n", false,
		"List the files that would change without writing them")
	linkCmd.Flags().BoolVar(&linkShowStats, "stats", false,
		"Show performance statistics after the run")
}

func runLink(cmd *cobra.Command, args []string) {
	if linkWrite && linkDryRun {
		exitOnError(errors.New("--write and --dry-run cannot be used together"), "")
	}
	if linkText != "" && len(args) > 0 {
		exitOnError(errors.New("--text cannot be combined with path arguments"), "")
	}

	lc, err := LoadConfig(configFiles, linkFlags.noConfig)
	exitOnError(err, "")

	opts, err := lc.BuildProcessorOptions(&linkFlags)
	exitOnError(err, "")

	out := cmd.OutOrStdout()

	switch {
	case linkText != "":
		exitOnError(linkContent(out, opts, "text", []byte(linkText)), "")
		return
	case (len(args) == 1 && args[0] == stdinPath) || (len(args) == 0 && stdinPiped()):
		content, err := io.ReadAll(cmd.InOrStdin())
		exitOnError(err, "Error reading stdin")
		name, err := stdinName(linkStdinType)
		exitOnError(err, "")
		exitOnError(linkContent(out, opts, name, content), "")
		return
	}

	var st *stats.Stats
	if linkShowStats {
		st = stats.New()
		st.StartScan()
	}

	files, err := scanRoots(getPathArgs(args), lc.BuildScanOptions(linkFlags.types))
	exitOnError(err, "Error scanning files")

	if st != nil {
		st.EndScan(len(files))
	}

	if len(files) == 0 {
		fmt.Fprintln(out, "No supported files found.")
		return
	}

	p, err := processor.New(opts.WithWrite(linkWrite))
	exitOnError(err, "")

	if st != nil {
		st.StartProcess()
	}
	results := p.ProcessAll(files)
	if st != nil {
		st.EndProcess(results)
		st.StartWrite()
	}

	switch {
	case linkWrite:
		printWriteSummary(out, results)
		printIgnoredCount(out, opts.Filter.IgnoredCount())
	case linkDryRun:
		printDryRun(out, results)
		printIgnoredCount(out, opts.Filter.IgnoredCount())
	default:
		printLinked(out, results)
	}

	if st != nil {
		st.EndWrite()
		fmt.Fprintln(os.Stderr)
		fmt.Fprint(os.Stderr, st.String())
	}

	printFileErrors(results)
	if countFailed(results) > 0 {
		os.Exit(1) //nolint:revive // deep-exit is acceptable for CLI entry points
	}
}

// linkContent links in-memory content and writes the result to out.
func linkContent(out io.Writer, opts processor.Options, name string, content []byte) error {
	p, err := processor.New(opts)
	if err != nil {
		return err
	}
	res, err := p.ProcessContent(name, content)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, res.Output)
	return err
}

// stdinPiped reports whether standard input is a pipe rather than a terminal.
func stdinPiped() bool {
	fd := os.Stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return false
	}
	info, err := os.Stdin.Stat()
	return err == nil && info.Mode()&os.ModeNamedPipe != 0
}

// stdinName returns a pseudo file name that selects the handler for typ.
func stdinName(typ string) (string, error) {
	h, ok := document.DefaultRegistry().Lookup(typ)
	if !ok {
		return "", fmt.Errorf("unsupported file type: %s", typ)
	}
	return "stdin" + h.Extensions()[0], nil
}

// printLinked prints the output of every file. With several files each
// one gets a header line.
func printLinked(out io.Writer, results []processor.Result) {
	var ok []processor.Result
	for _, r := range results {
		if r.Err == nil {
			ok = append(ok, r)
		}
	}

	if len(ok) == 1 {
		fmt.Fprint(out, ok[0].Output)
		return
	}
	for i, r := range ok {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "==> %s <==\n", r.File)
		fmt.Fprint(out, r.Output)
		if !strings.HasSuffix(r.Output, "\n") {
			fmt.Fprintln(out)
		}
	}
}

// printDryRun lists the files that --write would change.
func printDryRun(out io.Writer, results []processor.Result) {
	changed := 0
	for _, r := range results {
		if r.Err != nil || !r.Changed() {
			continue
		}
		changed++
		fmt.Fprintf(out, "%s %s\n", r.File, ui.MutedStyle.Render(linkCounts(r)))
	}

	if changed == 0 {
		fmt.Fprintln(out, ui.URLStyle.Render("Nothing to link."))
		return
	}
	fmt.Fprintf(out, "\n%d file(s) would be changed.\n", changed)
}

// printWriteSummary lists the rewritten files.
func printWriteSummary(out io.Writer, results []processor.Result) {
	written, links := 0, 0
	for _, r := range results {
		if !r.Written {
			continue
		}
		written++
		links += r.Linked
		fmt.Fprintf(out, "Linked %s %s\n", r.File, ui.MutedStyle.Render(linkCounts(r)))
	}

	if written == 0 {
		fmt.Fprintln(out, ui.URLStyle.Render("Nothing to link."))
		return
	}
	fmt.Fprintln(out, ui.URLStyle.Render(
		fmt.Sprintf("\nWrote %d link(s) to %d file(s).", links, written)))
}

// printIgnoredCount notes how many spans the ignore rules kept plain.
func printIgnoredCount(out io.Writer, n int) {
	if n == 0 {
		return
	}
	fmt.Fprintln(out, ui.MutedStyle.Render(fmt.Sprintf("%d match(es) ignored by rules.", n)))
}

// linkCounts describes how many spans a result linked and skipped.
func linkCounts(r processor.Result) string {
	if r.Skipped > 0 {
		return fmt.Sprintf("(%d linked, %d ignored)", r.Linked, r.Skipped)
	}
	return fmt.Sprintf("(%d linked)", r.Linked)
}
