package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardomso/autolink/internal/config"
	"github.com/leonardomso/autolink/internal/filter"
	"github.com/leonardomso/autolink/internal/linker"
	"github.com/leonardomso/autolink/internal/output"
	"github.com/leonardomso/autolink/internal/processor"
)

func loadedConfig(cfg config.Config) *LoadedConfig {
	return &LoadedConfig{cfg: &cfg}
}

func TestGetPathArgs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"."}, getPathArgs(nil))
	assert.Equal(t, []string{"a", "b"}, getPathArgs([]string{"a", "b"}))
}

func TestParseAttrFlags(t *testing.T) {
	t.Parallel()

	t.Run("KeepsOrder", func(t *testing.T) {
		t.Parallel()
		attrs, err := parseAttrFlags([]string{"target=_blank", "rel=noopener noreferrer"})
		require.NoError(t, err)
		assert.Equal(t, []linker.Attribute{
			{Name: "target", Value: "_blank"},
			{Name: "rel", Value: "noopener noreferrer"},
		}, attrs)
	})

	t.Run("ValueWithEquals", func(t *testing.T) {
		t.Parallel()
		attrs, err := parseAttrFlags([]string{"data-q=a=b", "download="})
		require.NoError(t, err)
		assert.Equal(t, "a=b", attrs[0].Value)
		assert.Equal(t, "", attrs[1].Value)
	})

	t.Run("MissingEquals", func(t *testing.T) {
		t.Parallel()
		_, err := parseAttrFlags([]string{"target"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected name=value")
	})

	t.Run("InvalidName", func(t *testing.T) {
		t.Parallel()
		_, err := parseAttrFlags([]string{"=x"})
		assert.True(t, errors.Is(err, linker.ErrInvalidAttribute))

		_, err = parseAttrFlags([]string{"href=http://evil"})
		assert.True(t, errors.Is(err, linker.ErrInvalidAttribute))
	})

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()
		attrs, err := parseAttrFlags(nil)
		require.NoError(t, err)
		assert.Empty(t, attrs)
	})
}

func TestLoadedConfig_Getters(t *testing.T) {
	t.Parallel()

	lc := loadedConfig(config.Config{
		Link:   config.LinkConfig{Mode: "url", Transform: "upper"},
		Output: config.OutputConfig{Format: "yaml"},
		Scan:   config.ScanConfig{Types: []string{"md"}},
	})

	t.Run("ConfigValues", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "url", lc.GetMode(""))
		assert.Equal(t, "upper", lc.GetTransform(""))
		assert.Equal(t, "yaml", lc.GetOutputFormat(""))
		assert.Equal(t, []string{"md"}, lc.GetTypes(nil))
	})

	t.Run("CLIOverrides", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "email", lc.GetMode("email"))
		assert.Equal(t, "lower", lc.GetTransform("lower"))
		assert.Equal(t, "json", lc.GetOutputFormat("json"))
		assert.Equal(t, []string{"txt"}, lc.GetTypes([]string{"txt"}))
	})
}

func TestLoadedConfig_GetAttributes(t *testing.T) {
	t.Parallel()

	lc := loadedConfig(config.Config{Link: config.LinkConfig{
		Attributes: config.Attributes{
			{Name: "target", Value: "_self"},
			{Name: "class", Value: "ext"},
		},
	}})

	got := lc.GetAttributes([]linker.Attribute{
		{Name: "rel", Value: "noopener"},
		{Name: "TARGET", Value: "_blank"},
	})
	assert.Equal(t, []linker.Attribute{
		{Name: "target", Value: "_blank"},
		{Name: "class", Value: "ext"},
		{Name: "rel", Value: "noopener"},
	}, got)

	// The config slice is left untouched.
	assert.Equal(t, "_self", lc.cfg.Link.Attributes[0].Value)
}

func TestLoadedConfig_BuildLinkerOptions(t *testing.T) {
	t.Parallel()

	t.Run("MergesConfigAndFlags", func(t *testing.T) {
		t.Parallel()
		lc := loadedConfig(config.Config{Link: config.LinkConfig{
			Mode:       "url",
			Attributes: config.Attributes{{Name: "target", Value: "_self"}},
		}})

		opts, err := lc.BuildLinkerOptions(&sharedFlags{
			attrs: []string{"target=_blank", "rel=noopener"},
		})
		require.NoError(t, err)

		out, err := linker.AutoLink("http://x.io or a@b.io", opts)
		require.NoError(t, err)
		assert.Equal(t,
			`<a href="http://x.io" target="_blank" rel="noopener">http://x.io</a> or a@b.io`, out)
	})

	t.Run("FlagModeAndTransform", func(t *testing.T) {
		t.Parallel()
		lc := loadedConfig(config.Config{})

		opts, err := lc.BuildLinkerOptions(&sharedFlags{mode: "email", transform: "upper"})
		require.NoError(t, err)

		out, err := linker.AutoLink("http://x.io or a@b.io", opts)
		require.NoError(t, err)
		assert.Equal(t, `http://x.io or <a href="mailto:a@b.io">A@B.IO</a>`, out)
	})

	t.Run("InvalidMode", func(t *testing.T) {
		t.Parallel()
		_, err := loadedConfig(config.Config{}).BuildLinkerOptions(&sharedFlags{mode: "phone"})
		assert.True(t, errors.Is(err, linker.ErrInvalidMode))
	})

	t.Run("InvalidAttr", func(t *testing.T) {
		t.Parallel()
		_, err := loadedConfig(config.Config{}).BuildLinkerOptions(&sharedFlags{attrs: []string{"bad"}})
		assert.Error(t, err)
	})
}

func TestLoadedConfig_BuildScanOptions(t *testing.T) {
	t.Parallel()

	lc := loadedConfig(config.Config{Scan: config.ScanConfig{
		Types:   []string{"md"},
		Include: []string{"docs/**"},
		Exclude: []string{"**/vendor/**"},
	}})

	opts := lc.BuildScanOptions(nil)
	assert.Equal(t, []string{"md"}, opts.Types)
	assert.Equal(t, []string{"docs/**"}, opts.Include)
	assert.Equal(t, []string{"**/vendor/**"}, opts.Exclude)

	assert.Equal(t, []string{"txt"}, lc.BuildScanOptions([]string{"txt"}).Types)
}

func TestLoadedConfig_BuildProcessorOptions(t *testing.T) {
	t.Parallel()

	lc := loadedConfig(config.Config{Ignore: config.IgnoreConfig{Domains: []string{"example.com"}}})
	opts, err := lc.BuildProcessorOptions(&sharedFlags{concurrency: 3, maxSize: "1KiB"})
	require.NoError(t, err)

	assert.Equal(t, 3, opts.Concurrency)
	assert.Equal(t, int64(1024), opts.MaxFileSize)
	require.NotNil(t, opts.Filter)
	assert.True(t, opts.Filter.Matches(linker.Span{Text: "http://www.example.com", Kind: linker.KindURL}))
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("NoConfig", func(t *testing.T) {
		t.Parallel()
		lc, err := LoadConfig([]string{"does-not-matter.yaml"}, true)
		require.NoError(t, err)
		assert.True(t, lc.Config().IsEmpty())
	})

	t.Run("MergesFilesInOrder", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		base := filepath.Join(dir, "base.yaml")
		local := filepath.Join(dir, "local.toml")
		require.NoError(t, os.WriteFile(base,
			[]byte("link:\n  mode: url\nignore:\n  domains: [example.com]\n"), 0o600))
		require.NoError(t, os.WriteFile(local,
			[]byte("[link]\nmode = \"email\"\n\n[ignore]\ndomains = [\"localhost\"]\n"), 0o600))

		lc, err := LoadConfig([]string{base, local}, false)
		require.NoError(t, err)
		assert.Equal(t, "email", lc.Config().Link.Mode)
		assert.Equal(t, []string{"example.com", "localhost"}, lc.Config().Ignore.Domains)
	})

	t.Run("MissingExplicitFile", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfig([]string{filepath.Join(t.TempDir(), "nope.yaml")}, false)
		assert.Error(t, err)
	})

	t.Run("InvalidValues", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("link:\n  mode: phone\n"), 0o600))

		_, err := LoadConfig([]string{path}, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})
}

func TestParseSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		expected int64
	}{
		{"Empty", "", 10 << 20},
		{"Zero", "0", 0},
		{"Kilobytes", "512KB", 512000},
		{"Mebibytes", "10MiB", 10 << 20},
		{"DefaultFlagValue", "10 MiB", 10 << 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n, err := parseSize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}

	_, err := parseSize("lots")
	assert.Error(t, err)
}

func TestCreateFilterWithConfig(t *testing.T) {
	t.Parallel()

	t.Run("NoRules", func(t *testing.T) {
		t.Parallel()
		f, err := CreateFilterWithConfig(&config.Config{}, nil, nil, nil)
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("MergesCLIAndConfig", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{Ignore: config.IgnoreConfig{Domains: []string{"example.com"}}}
		f, err := CreateFilterWithConfig(cfg, []string{"localhost"}, []string{"noreply@*"}, []string{`\.test$`})
		require.NoError(t, err)

		domains, globs, regexes := f.Stats()
		assert.Equal(t, 2, domains)
		assert.Equal(t, 1, globs)
		assert.Equal(t, 1, regexes)

		// The config lists are not modified by the merge.
		assert.Equal(t, []string{"example.com"}, cfg.Ignore.Domains)
	})

	t.Run("InvalidRegex", func(t *testing.T) {
		t.Parallel()
		_, err := CreateFilterWithConfig(&config.Config{}, nil, nil, []string{"["})
		assert.Error(t, err)
	})
}

func TestStdinName(t *testing.T) {
	t.Parallel()

	name, err := stdinName("md")
	require.NoError(t, err)
	assert.Equal(t, "stdin.md", name)

	name, err = stdinName("txt")
	require.NoError(t, err)
	assert.Equal(t, "stdin.txt", name)

	_, err = stdinName("pdf")
	assert.Error(t, err)
}

func TestLinkContent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := processor.DefaultOptions().WithLinkOptions(linker.DefaultOptions())
	require.NoError(t, linkContent(&buf, opts, "stdin.md", []byte("`https://a.io` https://b.io\n")))
	assert.Equal(t, "`https://a.io` <a href=\"https://b.io\">https://b.io</a>\n", buf.String())
}

func TestPrintLinked(t *testing.T) {
	t.Parallel()

	t.Run("SingleFileHasNoHeader", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		printLinked(&buf, []processor.Result{{File: "a.txt", Output: "linked\n"}})
		assert.Equal(t, "linked\n", buf.String())
	})

	t.Run("MultipleFiles", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		printLinked(&buf, []processor.Result{
			{File: "a.txt", Output: "one"},
			{File: "bad.txt", Err: errors.New("boom")},
			{File: "b.txt", Output: "two\n"},
		})
		assert.Equal(t, "==> a.txt <==\none\n\n==> b.txt <==\ntwo\n", buf.String())
	})
}

func TestPrintDryRun(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printDryRun(&buf, []processor.Result{
		{File: "a.md", Linked: 2, Skipped: 1},
		{File: "b.md"},
	})
	assert.Contains(t, buf.String(), "a.md")
	assert.Contains(t, buf.String(), "(2 linked, 1 ignored)")
	assert.NotContains(t, buf.String(), "b.md")
	assert.Contains(t, buf.String(), "1 file(s) would be changed.")

	buf.Reset()
	printDryRun(&buf, []processor.Result{{File: "b.md"}})
	assert.Contains(t, buf.String(), "Nothing to link.")
}

func TestPrintWriteSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printWriteSummary(&buf, []processor.Result{
		{File: "a.md", Linked: 2, Written: true},
		{File: "b.md", Linked: 3, Written: true},
		{File: "c.md"},
	})
	assert.Contains(t, buf.String(), "Linked a.md")
	assert.NotContains(t, buf.String(), "c.md")
	assert.Contains(t, buf.String(), "Wrote 5 link(s) to 2 file(s).")
}

func TestPrintIgnoredCount(t *testing.T) {
	t.Parallel()

	t.Run("None", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		printIgnoredCount(&buf, 0)
		assert.Empty(t, buf.String())
	})

	t.Run("FromFilter", func(t *testing.T) {
		t.Parallel()
		f, err := filter.New(filter.Config{Domains: []string{"localhost"}})
		require.NoError(t, err)
		f.ShouldIgnore(linker.Span{Kind: linker.KindURL, Text: "http://localhost:1"}, "a.md", 1)
		f.ShouldIgnore(linker.Span{Kind: linker.KindURL, Text: "http://localhost:2"}, "a.md", 2)

		var buf bytes.Buffer
		printIgnoredCount(&buf, f.IgnoredCount())
		assert.Contains(t, buf.String(), "2 match(es) ignored by rules.")
	})
}

func TestPrintFindText(t *testing.T) {
	t.Parallel()

	report := &output.Report{
		Files: []string{"a.md", "b.md"},
		Entries: []output.Entry{
			{File: "a.md", Text: "https://go.dev", Href: "https://go.dev", Kind: linker.KindURL, Line: 3, Column: 7},
			{File: "a.md", Text: "me@x.io", Href: "mailto:me@x.io", Kind: linker.KindEmail, Line: 4, Column: 1},
		},
		Ignored: []filter.IgnoreReason{
			{Type: "domain", Rule: "example.com", Text: "http://example.com", File: "b.md", Line: 2},
		},
	}

	t.Run("Default", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		printFindText(&buf, report, false)
		out := buf.String()
		assert.Contains(t, out, "a.md:3:7")
		assert.Contains(t, out, "https://go.dev")
		assert.Contains(t, out, "a.md:4:1")
		assert.Contains(t, out, "Found 1 URL(s) and 1 email address(es) in 1 of 2 file(s).")
		assert.Contains(t, out, "1 match(es) ignored")
		assert.NotContains(t, out, "b.md:2")
	})

	t.Run("ShowIgnored", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		printFindText(&buf, report, true)
		out := buf.String()
		assert.Contains(t, out, "Ignored (1):")
		assert.Contains(t, out, "b.md:2")
		assert.Contains(t, out, "domain: example.com")
	})

	t.Run("NoFiles", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		printFindText(&buf, &output.Report{}, false)
		assert.Equal(t, "No supported files found.\n", buf.String())
	})
}

func TestIgnoredLocation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-", ignoredLocation(filter.IgnoreReason{}))
	assert.Equal(t, "a.md", ignoredLocation(filter.IgnoreReason{File: "a.md"}))
	assert.Equal(t, "a.md:9", ignoredLocation(filter.IgnoreReason{File: "a.md", Line: 9}))
}

func TestCountFailed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, countFailed(nil))
	assert.Equal(t, 1, countFailed([]processor.Result{
		{File: "a"},
		{File: "b", Err: processor.ErrNoHandler},
	}))
}
