// Package helpers provides small string utilities shared across packages.
package helpers

import (
	"strings"

	"github.com/rivo/uniseg"
)

// TruncateText trims surrounding whitespace and shortens text to maxLen
// characters, ending in "..." when cut. maxLen below 4 disables truncation.
func TruncateText(text string, maxLen int) string {
	return TruncateGraphemes(strings.TrimSpace(text), maxLen)
}

// TruncateGraphemes shortens s to at most maxLen user-perceived characters
// (grapheme clusters), replacing the tail with "..." when it is cut.
// Combining marks and emoji sequences are never split.
// maxLen below 4 leaves s unchanged.
func TruncateGraphemes(s string, maxLen int) string {
	if maxLen < 4 || uniseg.GraphemeClusterCount(s) <= maxLen {
		return s
	}

	keep := maxLen - 3
	end := 0
	g := uniseg.NewGraphemes(s)
	for keep > 0 && g.Next() {
		_, end = g.Positions()
		keep--
	}
	return s[:end] + "..."
}

// CountUniqueStrings returns the number of distinct strings in items.
func CountUniqueStrings(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item] = struct{}{}
	}
	return len(seen)
}
