// Package highlight locates extraction snippets inside the transcribed text.
package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Segment is a run of text that is either part of a match or plain.
type Segment struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
}

// FindSnippet returns the byte range of the first case-insensitive occurrence
// of snippet in text. A blank snippet or no match reports ok=false.
func FindSnippet(text, snippet string) (start, end int, ok bool) {
	return findFrom(text, strings.TrimSpace(snippet), 0)
}

// Segments splits text around every non-overlapping occurrence of snippet.
// Without a match the whole text is returned as one plain segment.
func Segments(text, snippet string) []Segment {
	snippet = strings.TrimSpace(snippet)
	var out []Segment
	pos := 0
	for {
		start, end, ok := findFrom(text, snippet, pos)
		if !ok {
			break
		}
		if start > pos {
			out = append(out, Segment{Text: text[pos:start]})
		}
		out = append(out, Segment{Text: text[start:end], Highlighted: true})
		pos = end
	}
	if pos < len(text) || len(out) == 0 {
		out = append(out, Segment{Text: text[pos:]})
	}
	return out
}

func findFrom(text, snippet string, from int) (int, int, bool) {
	if snippet == "" {
		return 0, 0, false
	}
	for i := from; i < len(text); {
		if n, ok := matchAt(text[i:], snippet); ok {
			return i, i + n, true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return 0, 0, false
}

// matchAt reports whether s starts with snippet under simple case folding and
// how many bytes of s the match covers.
func matchAt(s, snippet string) (int, bool) {
	n := 0
	for _, want := range snippet {
		if n >= len(s) {
			return 0, false
		}
		got, size := utf8.DecodeRuneInString(s[n:])
		if !equalFold(got, want) {
			return 0, false
		}
		n += size
	}
	return n, true
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
