package expand

import (
	"strings"
	"unicode"
)

// Window holds the keys derived from the text in front of the cursor.
type Window struct {
	// Before is the raw text up to the cursor.
	Before string
	// LastWords is the last one or two tokens touching the cursor, lowercased and trimmed.
	LastWords string
	// LastWord is the final token of LastWords.
	LastWord string

	NormalizedLastWords string
	NormalizedLastWord  string
}

// ExtractWindow derives the match keys for text at cursor using Normalize.
func ExtractWindow(text string, cursor int) Window {
	return extractWindow(text, cursor, Normalize)
}

func extractWindow(text string, cursor int, normalize Normalizer) Window {
	rs, c := clampCursor(text, cursor)
	before := rs[:c]

	lastWords := strings.TrimSpace(strings.ToLower(string(before[trailingWordsStart(before):])))
	lastWord := ""
	if fields := strings.Fields(lastWords); len(fields) > 0 {
		lastWord = fields[len(fields)-1]
	}

	return Window{
		Before:              string(before),
		LastWords:           lastWords,
		LastWord:            lastWord,
		NormalizedLastWords: normalize(lastWords),
		NormalizedLastWord:  normalize(lastWord),
	}
}

// trailingWordsStart finds where the earliest match of `(?:\S+\s+)?\S*$` begins,
// i.e. the start of the last one or two tokens of rs.
func trailingWordsStart(rs []rune) int {
	p := len(rs)
	for p > 0 && !unicode.IsSpace(rs[p-1]) {
		p--
	}
	if p == 0 {
		return 0
	}

	q := p
	for q > 0 && unicode.IsSpace(rs[q-1]) {
		q--
	}
	if q == 0 {
		// leading whitespace only, the optional group cannot match
		return p
	}

	r := q
	for r > 0 && !unicode.IsSpace(rs[r-1]) {
		r--
	}
	return r
}

// trailingWordLen counts the non-whitespace runes at the end of rs.
func trailingWordLen(rs []rune) int {
	n := 0
	for i := len(rs) - 1; i >= 0 && !unicode.IsSpace(rs[i]); i-- {
		n++
	}
	return n
}
