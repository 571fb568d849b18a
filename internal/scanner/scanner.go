// Package scanner finds the files a linking run should visit.
package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/leonardomso/autolink/internal/document"
)

// FindFiles walks root and returns all files matching the given extensions.
// Extensions include the leading dot (e.g., ".md", ".txt").
// Hidden directories such as .git are skipped.
func FindFiles(root string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		return nil, nil
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if wanted[strings.ToLower(filepath.Ext(d.Name()))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// FindFilesByTypes walks root and returns the files whose handler type is
// listed in types (e.g., "md", "txt"). The default registry resolves names.
func FindFilesByTypes(root string, types []string) ([]string, error) {
	return findByTypes(document.DefaultRegistry(), root, types)
}

func findByTypes(reg *document.Registry, root string, types []string) ([]string, error) {
	if len(types) == 0 {
		return nil, nil
	}

	exts, err := reg.ExtensionsForTypes(types)
	if err != nil {
		return nil, err
	}
	return FindFiles(root, exts)
}

// ScanOptions holds options for scanning files with filtering.
type ScanOptions struct {
	// Registry resolves Types. Nil uses the default registry.
	Registry *document.Registry

	// Root is the directory (or single file) to scan.
	Root string

	// Types limits the scan to these handler types.
	// Empty means every registered type.
	Types []string

	// Include patterns (glob). If set, only matching files are kept.
	Include []string

	// Exclude patterns (glob). Matching files are dropped.
	Exclude []string
}

// FindFilesWithOptions scans opts.Root with type and include/exclude
// filtering. Patterns match the slash-separated path relative to Root.
func FindFilesWithOptions(opts ScanOptions) ([]string, error) {
	reg := opts.Registry
	if reg == nil {
		reg = document.DefaultRegistry()
	}

	types := opts.Types
	if len(types) == 0 {
		types = reg.SupportedTypes()
	}

	files, err := findByTypes(reg, opts.Root, types)
	if err != nil {
		return nil, err
	}

	if len(opts.Include) > 0 {
		files, err = filterByGlobPatterns(files, opts.Root, opts.Include, true)
		if err != nil {
			return nil, err
		}
	}

	if len(opts.Exclude) > 0 {
		files, err = filterByGlobPatterns(files, opts.Root, opts.Exclude, false)
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// FindAll scans several roots with the same options and drops duplicates,
// keeping first-seen order.
func FindAll(roots []string, opts ScanOptions) ([]string, error) {
	seen := make(map[string]bool)
	var all []string
	for _, root := range roots {
		o := opts
		o.Root = root
		files, err := FindFilesWithOptions(o)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			clean := filepath.Clean(f)
			if !seen[clean] {
				seen[clean] = true
				all = append(all, f)
			}
		}
	}
	return all, nil
}

// filterByGlobPatterns keeps files matching any pattern when include is
// true, and drops them otherwise.
func filterByGlobPatterns(files []string, root string, patterns []string, include bool) ([]string, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}

	result := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil || rel == "." {
			rel = filepath.Base(f)
		}
		rel = filepath.ToSlash(rel)

		if matchesAnyGlob(rel, compiled) == include {
			result = append(result, f)
		}
	}

	return result, nil
}

func matchesAnyGlob(path string, patterns []glob.Glob) bool {
	for _, g := range patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}
