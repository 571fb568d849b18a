package cmd

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/leonardomso/autolink/internal/config"
	"github.com/leonardomso/autolink/internal/document"
	"github.com/leonardomso/autolink/internal/filter"
	"github.com/leonardomso/autolink/internal/linker"
	"github.com/leonardomso/autolink/internal/processor"
	"github.com/leonardomso/autolink/internal/scanner"
	"github.com/leonardomso/autolink/internal/transform"

	// Import handler subpackages to trigger their init() registration.
	_ "github.com/leonardomso/autolink/internal/document/markdown"
	_ "github.com/leonardomso/autolink/internal/document/text"
)

// exitOnError prints an error message and exits if err is not nil.
func exitOnError(err error, message string) {
	if err != nil {
		if message != "" {
			fmt.Fprintf(os.Stderr, "%s: %v\n", message, err)
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1) //nolint:revive // deep-exit is acceptable for CLI entry points
	}
}

// getPathArgs returns the path arguments or "." as default.
func getPathArgs(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return []string{"."}
}

// sharedFlags are the linking and scanning flags every command takes.
type sharedFlags struct {
	mode           string
	transform      string
	attrs          []string
	types          []string
	ignoreDomains  []string
	ignorePatterns []string
	ignoreRegex    []string
	maxSize        string
	concurrency    int
	noConfig       bool
}

// register adds the shared flags to cmd.
func (f *sharedFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringVarP(&f.mode, "mode", "m", "",
		"What to link: "+strings.Join(linker.ModeNames(), ", ")+" (default all)")
	flags.StringVar(&f.transform, "transform", "",
		"Display text transform, chain with '|': "+strings.Join(transform.Names(), ", "))
	flags.StringArrayVarP(&f.attrs, "attr", "a", nil,
		"Extra anchor attribute as name=value (repeatable, kept in order)")
	flags.StringSliceVarP(&f.types, "types", "T", nil,
		"File types to scan (comma-separated): "+strings.Join(document.SupportedFileTypes(), ", "))

	flags.IntVarP(&f.concurrency, "concurrency", "c", processor.DefaultConcurrency,
		"Number of files processed concurrently")
	flags.StringVar(&f.maxSize, "max-size", humanize.IBytes(uint64(processor.DefaultMaxFileSize)),
		"Skip files larger than this (e.g. 512KB, 10MiB; 0 disables)")

	flags.StringSliceVar(&f.ignoreDomains, "ignore-domain", nil,
		"Domains to leave unlinked, includes subdomains (can be repeated or comma-separated)")
	flags.StringSliceVar(&f.ignorePatterns, "ignore-pattern", nil,
		"Glob patterns to leave unlinked (can be repeated)")
	flags.StringSliceVar(&f.ignoreRegex, "ignore-regex", nil,
		"Regex patterns to leave unlinked (can be repeated)")
	flags.BoolVar(&f.noConfig, "no-config", false,
		"Skip loading the .autolinkrc config file")
}

// LoadedConfig wraps a loaded configuration and provides helper methods
// for getting effective values that respect CLI overrides.
type LoadedConfig struct {
	cfg      *config.Config
	noConfig bool
}

// LoadConfig loads the configuration unless noConfig is true.
// With explicit paths every file must exist and later files are merged
// over earlier ones. Without paths the nearest .autolinkrc file found from
// the working directory upward is used.
// Returns an error if a config file exists but is invalid.
func LoadConfig(paths []string, noConfig bool) (*LoadedConfig, error) {
	if noConfig {
		return &LoadedConfig{cfg: &config.Config{}, noConfig: true}, nil
	}

	cfg, err := loadConfigFiles(paths)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &LoadedConfig{cfg: cfg}, nil
}

func loadConfigFiles(paths []string) (*config.Config, error) {
	if len(paths) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		return config.FindAndLoad(wd)
	}

	cfg := &config.Config{}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		c, err := config.LoadFrom(path)
		if err != nil {
			return nil, err
		}
		cfg.Merge(c)
	}
	return cfg, nil
}

// Config returns the underlying config for direct access.
func (lc *LoadedConfig) Config() *config.Config {
	return lc.cfg
}

// GetMode returns the effective link mode. CLI overrides config if set.
func (lc *LoadedConfig) GetMode(cliValue string) string {
	if cliValue != "" {
		return cliValue
	}
	return lc.cfg.Link.Mode
}

// GetTransform returns the effective transform. CLI overrides config if set.
func (lc *LoadedConfig) GetTransform(cliValue string) string {
	if cliValue != "" {
		return cliValue
	}
	return lc.cfg.Link.Transform
}

// GetTypes returns the effective file types. CLI overrides config if set.
// Empty means every supported type.
func (lc *LoadedConfig) GetTypes(cliTypes []string) []string {
	if len(cliTypes) > 0 || !lc.cfg.HasTypes() {
		return cliTypes
	}
	return lc.cfg.Scan.Types
}

// GetOutputFormat returns the effective output format.
// CLI overrides config if set.
func (lc *LoadedConfig) GetOutputFormat(cliValue string) string {
	if cliValue != "" {
		return cliValue
	}
	return lc.cfg.Output.Format
}

// GetAttributes returns the config attributes followed by the CLI ones.
// A CLI attribute replaces the value of a config attribute with the same
// name in place.
func (lc *LoadedConfig) GetAttributes(cliAttrs []linker.Attribute) []linker.Attribute {
	merged := make([]linker.Attribute, 0, len(lc.cfg.Link.Attributes)+len(cliAttrs))
	merged = append(merged, lc.cfg.Link.Attributes...)

	for _, a := range cliAttrs {
		replaced := false
		for i := range merged {
			if strings.EqualFold(merged[i].Name, a.Name) {
				merged[i].Value = a.Value
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, a)
		}
	}
	return merged
}

// BuildLinkerOptions creates linker.Options from config and CLI values.
func (lc *LoadedConfig) BuildLinkerOptions(f *sharedFlags) (linker.Options, error) {
	cliAttrs, err := parseAttrFlags(f.attrs)
	if err != nil {
		return linker.Options{}, err
	}

	cfg := &config.Config{
		Link: config.LinkConfig{
			Mode:       lc.GetMode(f.mode),
			Transform:  lc.GetTransform(f.transform),
			Attributes: lc.GetAttributes(cliAttrs),
		},
	}
	return cfg.LinkerOptions()
}

// BuildScanOptions creates scanner.ScanOptions from config and CLI types.
func (lc *LoadedConfig) BuildScanOptions(cliTypes []string) scanner.ScanOptions {
	return scanner.ScanOptions{
		Types:   lc.GetTypes(cliTypes),
		Include: lc.cfg.Scan.Include,
		Exclude: lc.cfg.Scan.Exclude,
	}
}

// BuildProcessorOptions assembles the processor options for a run.
func (lc *LoadedConfig) BuildProcessorOptions(f *sharedFlags) (processor.Options, error) {
	linkOpts, err := lc.BuildLinkerOptions(f)
	if err != nil {
		return processor.Options{}, err
	}

	spanFilter, err := CreateFilterWithConfig(lc.cfg, f.ignoreDomains, f.ignorePatterns, f.ignoreRegex)
	if err != nil {
		return processor.Options{}, err
	}

	maxSize, err := parseSize(f.maxSize)
	if err != nil {
		return processor.Options{}, err
	}

	return processor.DefaultOptions().
		WithLinkOptions(linkOpts).
		WithFilter(spanFilter).
		WithConcurrency(f.concurrency).
		WithMaxFileSize(maxSize), nil
}

// parseSize reads a --max-size value. Empty keeps the default, 0 disables.
func parseSize(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return processor.DefaultMaxFileSize, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --max-size %q: %w", s, err)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("invalid --max-size %q: too large", s)
	}
	return int64(n), nil
}

// CreateFilterWithConfig builds a span filter using a pre-loaded config.
// CLI flags are merged additively with the config settings.
// Returns nil if no filter rules are defined.
func CreateFilterWithConfig(cfg *config.Config, cliDomains, cliPatterns, cliRegex []string) (*filter.Filter, error) {
	fc := cfg.FilterConfig()

	domains := append([]string{}, fc.Domains...)
	domains = append(domains, cliDomains...)

	patterns := append([]string{}, fc.GlobPatterns...)
	patterns = append(patterns, cliPatterns...)

	regex := append([]string{}, fc.RegexPatterns...)
	regex = append(regex, cliRegex...)

	if len(domains) == 0 && len(patterns) == 0 && len(regex) == 0 {
		return nil, nil
	}

	return filter.New(filter.Config{
		Domains:       domains,
		GlobPatterns:  patterns,
		RegexPatterns: regex,
	})
}

// parseAttrFlags converts name=value flag values into attributes.
// The value may be empty ("download=") and may itself contain '='.
func parseAttrFlags(values []string) ([]linker.Attribute, error) {
	attrs := make([]linker.Attribute, 0, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --attr %q: expected name=value", v)
		}
		name = strings.TrimSpace(name)
		if err := linker.ValidateAttributeName(name); err != nil {
			return nil, err
		}
		attrs = append(attrs, linker.Attribute{Name: name, Value: value})
	}
	return attrs, nil
}

// scanRoots finds the files under every root.
func scanRoots(roots []string, opts scanner.ScanOptions) ([]string, error) {
	return scanner.FindAll(roots, opts)
}

// countFailed returns the number of results that carry an error.
func countFailed(results []processor.Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// printFileErrors reports failed files on stderr.
func printFileErrors(results []processor.Result) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", r.Err)
		}
	}
}
