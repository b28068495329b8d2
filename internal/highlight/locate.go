package highlight

import (
	"unicode/utf8"

	"paper-extractor/internal/domain"
)

// Location is where one extracted value sits in the transcription. Start and
// End are byte offsets and only meaningful when Found is set.
type Location struct {
	Value   interface{} `json:"value"`
	Snippet string      `json:"snippet"`
	Found   bool        `json:"found"`
	Start   int         `json:"start"`
	End     int         `json:"end"`
	Excerpt []Segment   `json:"excerpt,omitempty"`
}

// Locate finds the snippet of every value of result in text. A snippet that
// does not occur is reported with Found unset and no excerpt.
func Locate(text string, result domain.ExtractionResult, radius int) []Location {
	out := make([]Location, 0, len(result.Values))
	for _, v := range result.Values {
		loc := Location{Value: v.Value, Snippet: v.Snippet}
		if start, end, ok := FindSnippet(text, v.Snippet); ok {
			loc.Found = true
			loc.Start, loc.End = start, end
			loc.Excerpt = Excerpt(text, v.Snippet, start, end, radius)
		}
		out = append(out, loc)
	}
	return out
}

// Excerpt returns the highlight segments for text[start:end] widened by
// radius bytes on each side, trimmed to whole runes.
func Excerpt(text, snippet string, start, end, radius int) []Segment {
	from := start - radius
	if from < 0 {
		from = 0
	}
	for from > 0 && !utf8.RuneStart(text[from]) {
		from--
	}

	to := end + radius
	if to > len(text) {
		to = len(text)
	}
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}
	return Segments(text[from:to], snippet)
}
