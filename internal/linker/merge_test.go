package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, Merge())
		assert.Nil(t, Merge(nil, nil))
	})

	t.Run("SortsByStart", func(t *testing.T) {
		t.Parallel()
		urls := []Span{{Start: 10, End: 20, Kind: KindURL}, {Start: 40, End: 50, Kind: KindURL}}
		emails := []Span{{Start: 0, End: 5, Kind: KindEmail}, {Start: 25, End: 30, Kind: KindEmail}}

		merged := Merge(urls, emails)
		starts := make([]int, len(merged))
		for i, s := range merged {
			starts[i] = s.Start
		}
		assert.Equal(t, []int{0, 10, 25, 40}, starts)
	})

	t.Run("SameStartPrefersURL", func(t *testing.T) {
		t.Parallel()
		urls := []Span{{Start: 3, End: 8, Kind: KindURL, Text: "url"}}
		emails := []Span{{Start: 3, End: 12, Kind: KindEmail, Text: "email"}}

		merged := Merge(emails, urls)
		assert.Equal(t, []Span{{Start: 3, End: 8, Kind: KindURL, Text: "url"}}, merged)
	})

	t.Run("SameStartSameKindPrefersLonger", func(t *testing.T) {
		t.Parallel()
		merged := Merge([]Span{
			{Start: 0, End: 4, Kind: KindURL, Text: "short"},
			{Start: 0, End: 9, Kind: KindURL, Text: "long"},
		})
		assert.Equal(t, []Span{{Start: 0, End: 9, Kind: KindURL, Text: "long"}}, merged)
	})

	t.Run("OverlapKeepsEarlier", func(t *testing.T) {
		t.Parallel()
		urls := []Span{{Start: 0, End: 30, Kind: KindURL}}
		emails := []Span{{Start: 10, End: 40, Kind: KindEmail}, {Start: 30, End: 35, Kind: KindEmail}}

		merged := Merge(urls, emails)
		assert.Equal(t, []Span{{Start: 0, End: 30, Kind: KindURL}, {Start: 30, End: 35, Kind: KindEmail}}, merged)
	})

	t.Run("DropsEmptySpans", func(t *testing.T) {
		t.Parallel()
		merged := Merge([]Span{{Start: 5, End: 5}, {Start: 6, End: 7}})
		assert.Equal(t, []Span{{Start: 6, End: 7}}, merged)
	})

	t.Run("ResultIsDisjoint", func(t *testing.T) {
		t.Parallel()
		text := "a@b.co http://x.io/?m=c@d.io e@f.io https://y.io"
		merged := Merge(FindURLs(text), FindEmails(text))
		for i := 1; i < len(merged); i++ {
			assert.LessOrEqual(t, merged[i-1].End, merged[i].Start)
			assert.False(t, merged[i-1].Overlaps(merged[i]))
		}
		assert.Equal(t, []string{"a@b.co", "http://x.io/?m=c@d.io", "e@f.io", "https://y.io"}, spanTexts(merged))
	})
}

func TestSpan(t *testing.T) {
	t.Parallel()

	url := Span{Start: 0, End: 12, Text: "http://a.com", Kind: KindURL}
	email := Span{Start: 20, End: 27, Text: "a@b.com", Kind: KindEmail}

	assert.Equal(t, 12, url.Len())
	assert.Equal(t, "http://a.com", url.Href())
	assert.Equal(t, "mailto:a@b.com", email.Href())
	assert.False(t, url.Overlaps(email))
	assert.True(t, url.Overlaps(Span{Start: 11, End: 13}))
	assert.False(t, url.Overlaps(Span{Start: 12, End: 13}))

	assert.Equal(t, "url", KindURL.String())
	assert.Equal(t, "email", KindEmail.String())
	assert.Equal(t, "unknown", Kind(7).String())
}
