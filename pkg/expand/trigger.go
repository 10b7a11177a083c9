package expand

import "unicode/utf8"

// Trigger pairs a short key with the text it expands to.
type Trigger struct {
	Key       string `toml:"key" yaml:"key" json:"key" msgpack:"k"`
	Expansion string `toml:"expansion" yaml:"expansion" json:"expansion" msgpack:"x"`
}

// Buffer is a snapshot of an editable text and the cursor inside it.
type Buffer struct {
	Text   string
	Cursor int
}

// clampCursor returns the text as runes and cursor forced into [0, len(runes)].
func clampCursor(text string, cursor int) ([]rune, int) {
	rs := []rune(text)
	if cursor < 0 {
		return rs, 0
	}
	if cursor > len(rs) {
		return rs, len(rs)
	}
	return rs, cursor
}

// runeLen is the length used for every threshold in this package.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
