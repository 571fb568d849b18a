// Package transform builds display-text transforms for anchors from short
// names such as "upper" or "strip-scheme|truncate:40".
package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/leonardomso/autolink/internal/helpers"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Func maps the matched text of a span to its visible link text.
type Func func(string) string

// Separator chains several transforms, applied left to right.
const Separator = "|"

// builders maps a transform name to a constructor taking its optional argument.
var builders = map[string]func(arg string) (Func, error){
	"none":         noArg(func(s string) string { return s }),
	"upper":        noArg(caser(func() cases.Caser { return cases.Upper(language.Und) })),
	"lower":        noArg(caser(func() cases.Caser { return cases.Lower(language.Und) })),
	"title":        noArg(caser(func() cases.Caser { return cases.Title(language.Und, cases.NoLower) })),
	"strip-scheme": noArg(StripScheme),
	"truncate":     truncate,
}

// noArg adapts a plain function into a builder that rejects arguments.
func noArg(fn Func) func(string) (Func, error) {
	return func(arg string) (Func, error) {
		if arg != "" {
			return nil, fmt.Errorf("takes no argument, got %q", arg)
		}
		return fn, nil
	}
}

// caser wraps a Caser constructor. Casers keep state between calls, so each
// call gets a fresh one and the result is safe for concurrent use.
func caser(newCaser func() cases.Caser) Func {
	return func(s string) string {
		c := newCaser()
		return c.String(s)
	}
}

// truncate builds a transform limiting display text to n characters.
func truncate(arg string) (Func, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 4 {
		return nil, fmt.Errorf("needs a length of at least 4, got %q", arg)
	}
	return func(s string) string {
		return helpers.TruncateGraphemes(s, n)
	}, nil
}

// Parse turns a chain like "strip-scheme|truncate:30" into a single Func.
// An empty chain returns nil, which callers treat as identity.
func Parse(chain string) (Func, error) {
	chain = strings.TrimSpace(chain)
	if chain == "" {
		return nil, nil
	}

	var fns []Func
	for _, part := range strings.Split(chain, Separator) {
		name, arg, _ := strings.Cut(strings.TrimSpace(part), ":")
		name = strings.ToLower(strings.TrimSpace(name))

		build, ok := builders[name]
		if !ok {
			return nil, fmt.Errorf("unknown transform %q (supported: %s)", name, strings.Join(Names(), ", "))
		}
		fn, err := build(strings.TrimSpace(arg))
		if err != nil {
			return nil, fmt.Errorf("transform %q: %w", name, err)
		}
		fns = append(fns, fn)
	}

	if len(fns) == 1 {
		return fns[0], nil
	}
	return func(s string) string {
		for _, fn := range fns {
			s = fn(s)
		}
		return s
	}, nil
}

// Validate reports whether chain parses.
func Validate(chain string) error {
	_, err := Parse(chain)
	return err
}

// Names returns the supported transform names, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StripScheme removes a leading http://, https:// or mailto: from s.
func StripScheme(s string) string {
	lower := strings.ToLower(s)
	for _, prefix := range []string{"https://", "http://", "mailto:"} {
		if strings.HasPrefix(lower, prefix) {
			return s[len(prefix):]
		}
	}
	return s
}
