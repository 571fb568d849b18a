package linker

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// urlRegex matches http and https URLs.
//   - (?i)https?://   - scheme, any case
//   - [^\s\v\p{Z}\x{85}]+   - everything up to the next whitespace (ASCII or Unicode)
//
// NEL (U+0085) is a control character, so \p{Z} does not cover it.
var urlRegex = regexp.MustCompile(`(?i)https?://[^\s\v\p{Z}\x{85}]+`)

// emailRegex matches local-part@domain with at least one dot in the domain.
// Isolation on both sides is checked separately since RE2 has no lookaround.
var emailRegex = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)+`)

// FindURLs returns every URL in text, left to right.
func FindURLs(text string) []Span {
	locs := urlRegex.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(locs))
	for _, loc := range locs {
		spans = append(spans, Span{
			Start: loc[0],
			End:   loc[1],
			Text:  text[loc[0]:loc[1]],
			Kind:  KindURL,
		})
	}
	return spans
}

// FindEmails returns every isolated email address in text, left to right.
func FindEmails(text string) []Span {
	locs := emailRegex.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(locs))
	for _, loc := range locs {
		if !isolated(text, loc[0], loc[1]) {
			continue
		}
		spans = append(spans, Span{
			Start: loc[0],
			End:   loc[1],
			Text:  text[loc[0]:loc[1]],
			Kind:  KindEmail,
		})
	}
	return spans
}

// isolated reports whether the email at text[start:end] is not glued to a
// surrounding word. The neighbours may be punctuation or whitespace, but not
// letters, digits, '@' or '_'.
func isolated(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '@' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
