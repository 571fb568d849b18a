package linker

import "sort"

// Merge combines per-family span lists into one list sorted by start offset
// with no two spans overlapping.
//
// Ties on the start offset go to the lower Kind (URL before email), then to
// the longer span. A span that overlaps one already accepted is dropped, so
// the earlier-starting span always wins.
func Merge(lists ...[]Span) []Span {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	if total == 0 {
		return nil
	}

	all := make([]Span, 0, total)
	for _, l := range lists {
		all = append(all, l...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Len() > b.Len()
	})

	merged := all[:0]
	cursor := 0
	for _, s := range all {
		if s.Start >= s.End {
			continue
		}
		if len(merged) > 0 && s.Start < cursor {
			continue
		}
		merged = append(merged, s)
		cursor = s.End
	}
	return merged
}
