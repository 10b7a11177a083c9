package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTriggers = []Trigger{
	{Key: ";em", Expansion: "example@email.com"},
	{Key: ";ph", Expansion: "+1234567890"},
	{Key: ";addr", Expansion: "123 Main Street, City, State 12345"},
	{Key: ";", Expansion: "Quick shortcut"},
	{Key: "habi", Expansion: "Happy Birthday"},
	{Key: "habitoyo", Expansion: "Happy Birthday To You"},
	{Key: "habitome", Expansion: "Happy Birthday To Me"},
	{Key: "ty", Expansion: "Thank you"},
	{Key: "tyvm", Expansion: "Thank you very much"},
	{Key: "lmk", Expansion: "Let me know"},
	{Key: "brb", Expansion: "Be right back"},
	{Key: "omw", Expansion: "On my way"},
	{Key: "greeting", Expansion: "Hello there, how are you doing today?"},
}

func keysOf(ms []*Trigger) []string {
	keys := make([]string, 0, len(ms))
	for _, m := range ms {
		keys = append(keys, m.Key)
	}
	return keys
}

func runeCount(s string) int {
	return len([]rune(s))
}

func TestFindMatches(t *testing.T) {
	testCases := []struct {
		name    string
		text    string
		cursor  int // -1 means end of text
		include []string
		exclude []string
	}{
		// single character keys
		{"single key at end", "Hello ;", -1, []string{";"}, nil},
		{"single key mid text", "Hello ; world", 7, []string{";"}, nil},
		{"single key not at cursor", "Hello ; world", -1, nil, []string{";"}},

		// multi character keys
		{"full key", "My email is ;em", -1, []string{";em"}, nil},
		{"partial key", "My email is ;e", -1, []string{";em"}, nil},
		{"one char of long key", "My email is ;", -1, nil, []string{";em"}},
		{"key mid text", "My email is ;em and my phone", 15, []string{";em"}, nil},

		// prefix of the expansion
		{"two char prefix", "He", -1, []string{"greeting"}, nil},
		{"full word prefix", "Hello", -1, []string{"greeting"}, nil},
		{"punctuation in input", "He!!", -1, []string{"greeting"}, nil},

		// two words anywhere
		{"two words at start", "Hello there", -1, []string{"greeting"}, nil},
		{"two words in middle", "are you", -1, []string{"greeting"}, nil},
		{"two words at end", "doing today", -1, []string{"greeting"}, nil},
		{"non consecutive words", "Hello you", -1, nil, []string{"greeting"}},
		{"punctuated two words", "Hello, there!", -1, []string{"greeting"}, nil},

		// abbreviations
		{"three letter abbreviation", "hbt", -1, []string{"habitoyo", "habitome"}, []string{"habi"}},
		{"four letter abbreviation", "hbty", -1, []string{"habitoyo"}, nil},
		{"uppercase abbreviation", "HABI", -1, []string{"habi"}, nil},
		{"symbols in abbreviation", "h!a-b@i#", -1, []string{"habi"}, nil},
		{"uppercase lmk", "LMK", -1, []string{"lmk"}, nil},

		// cursor handling
		{"only text before cursor", "Hello ;em world", 9, []string{";em"}, nil},
		{"text after cursor ignored", "Hello world ;em", 5, nil, []string{";em"}},
		{"cursor at end", "lmk", -1, []string{"lmk"}, nil},

		// several candidates
		{"key fragment of two keys", "ty", -1, []string{"ty", "tyvm"}, nil},

		// case
		{"uppercase prefix", "HELLO", -1, []string{"greeting"}, nil},
		{"uppercase key", ";EM", -1, []string{";em"}, nil},
		{"extra spaces", "Hello there", -1, []string{"greeting"}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cursor := tc.cursor
			if cursor < 0 {
				cursor = runeCount(tc.text)
			}
			keys := keysOf(FindMatches(sampleTriggers, tc.text, cursor))
			for _, k := range tc.include {
				assert.Contains(t, keys, k)
			}
			for _, k := range tc.exclude {
				assert.NotContains(t, keys, k)
			}
		})
	}
}

func TestFindMatchesEmpty(t *testing.T) {
	testCases := []struct {
		name     string
		triggers []Trigger
		text     string
		cursor   int
	}{
		{"single char prefix", sampleTriggers, "H", 1},
		{"two letter non abbreviation", sampleTriggers, "ht", 2},
		{"cursor at start", sampleTriggers, "Hello world", 0},
		{"empty text", sampleTriggers, "", 0},
		{"empty trigger list", nil, "Hello", 5},
		{"whitespace only", sampleTriggers, "   ", 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Empty(t, FindMatches(tc.triggers, tc.text, tc.cursor))
		})
	}
}

func TestFindMatchesMalformedCursor(t *testing.T) {
	assert.Equal(t,
		keysOf(FindMatches(sampleTriggers, "Hello", 5)),
		keysOf(FindMatches(sampleTriggers, "Hello", 100)))
	assert.Empty(t, FindMatches(sampleTriggers, "Hello", -1))

	// these only need to not panic
	for _, text := range []string{"!!!", "Hello\nthere", "Hello\tthere", "héllo wörld", "日本語 テキスト"} {
		_ = FindMatches(sampleTriggers, text, runeCount(text))
	}
}

func TestFindMatchesReturnsReferences(t *testing.T) {
	triggers := append([]Trigger(nil), sampleTriggers...)
	ms := FindMatches(triggers, "My email is ;em", 15)
	require.NotEmpty(t, ms)
	assert.Same(t, &triggers[0], ms[0])
}

func TestFindMatchesPreservesOrder(t *testing.T) {
	texts := []string{"ty", "hbt", "He", "Hello there", "habi", ";", "h", "a b c", "omw"}
	for _, text := range texts {
		ms := FindMatches(sampleTriggers, text, runeCount(text))
		pos := -1
		for _, m := range ms {
			next := -1
			for i := range sampleTriggers {
				if &sampleTriggers[i] == m {
					next = i
				}
			}
			require.Greater(t, next, pos, "text %q", text)
			pos = next
		}
	}
}

func TestSingleRuneKeyRequiresSuffix(t *testing.T) {
	triggers := []Trigger{{Key: "!", Expansion: "bang"}, {Key: "é", Expansion: "accent"}}

	for _, tc := range []struct {
		text string
		want []string
	}{
		{"wow!", []string{"!"}},
		{"wow! ", nil},
		{"!wow", nil},
		{"café", []string{"é"}},
		{"cafe", nil},
	} {
		got := keysOf(FindMatches(triggers, tc.text, runeCount(tc.text)))
		if tc.want == nil {
			assert.Empty(t, got, "text %q", tc.text)
			continue
		}
		assert.Equal(t, tc.want, got, "text %q", tc.text)
	}
}

func TestLongKeyNeedsTwoRawChars(t *testing.T) {
	triggers := []Trigger{{Key: "xylophone", Expansion: "zzz"}}
	assert.Empty(t, FindMatches(triggers, "x", 1))
	assert.Empty(t, FindMatches(triggers, "foo x", 5))
	assert.Len(t, FindMatches(triggers, "xy", 2), 1)
	assert.Len(t, FindMatches(triggers, "foo ph", 6), 1)
}

func TestAbbreviationSkipsWords(t *testing.T) {
	triggers := []Trigger{{Key: "k", Expansion: "the quick brown fox jumps"}}

	// t, b, j taken from non adjacent words
	ms := Explain(triggers, "tbj", 3)
	require.Len(t, ms, 1)
	assert.True(t, ms[0].Strategies.Has(StrategyAbbreviation))

	// order matters
	assert.Empty(t, FindMatches(triggers, "btj", 3))
}

func TestExplainStrategies(t *testing.T) {
	testCases := []struct {
		text string
		key  string
		want Strategy
	}{
		{";em", ";em", StrategyKey},
		{"He", "greeting", StrategyPrefix},
		{"are you", "greeting", StrategyTwoWord},
		{"hbt", "habitoyo", StrategyAbbreviation},
		{"tyvm", "tyvm", StrategyKey | StrategyAbbreviation},
		{"Thank", "ty", StrategyPrefix},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			var got Strategy
			for _, m := range Explain(sampleTriggers, tc.text, runeCount(tc.text)) {
				if m.Trigger.Key == tc.key {
					got = m.Strategies
				}
			}
			assert.Equal(t, tc.want, got, "got %s", got)
		})
	}
}

func TestExplainAgreesWithFindMatches(t *testing.T) {
	for _, text := range []string{"ty", "hbt", "He", "Hello there", "habi", ";", "!!!", "doing today"} {
		var explained []string
		for _, m := range Explain(sampleTriggers, text, runeCount(text)) {
			explained = append(explained, m.Trigger.Key)
		}
		found := keysOf(FindMatches(sampleTriggers, text, runeCount(text)))
		if len(found) == 0 {
			assert.Empty(t, explained)
			continue
		}
		assert.Equal(t, found, explained, "text %q", text)
	}
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "none", Strategy(0).String())
	assert.Equal(t, "key|abbreviation", (StrategyKey | StrategyAbbreviation).String())
	assert.Equal(t, []string{"prefix", "two_word"}, (StrategyPrefix | StrategyTwoWord).Names())
}

func TestScenarios(t *testing.T) {
	set := []Trigger{
		{Key: ";em", Expansion: "example@email.com"},
		{Key: "greeting", Expansion: "Hello there, how are you doing today?"},
		{Key: "habitoyo", Expansion: "Happy Birthday To You"},
	}

	assert.Contains(t, keysOf(FindMatches(set, "My email is ;em", 15)), ";em")
	assert.NotContains(t, keysOf(FindMatches(set, "My email is ;", 13)), ";em")
	assert.Contains(t, keysOf(FindMatches(set, "He", 2)), "greeting")
	assert.Contains(t, keysOf(FindMatches(set, "hbt", 3)), "habitoyo")

	plan := PlanReplacement(set, "My email is ;em", 15, "example@email.com")
	assert.Equal(t, "My email is example@email.com", plan.NewText)
	assert.Equal(t, 29, plan.NewCursor)

	assert.Empty(t, FindMatches(nil, "Hello", 5))
}

func TestUnicodeFoldEngine(t *testing.T) {
	triggers := []Trigger{{Key: "cafe", Expansion: "Café au lait, s'il vous plaît"}}
	e := New(WithNormalizer(UnicodeFold))

	ms := e.Explain(triggers, "cafe au", 7)
	require.Len(t, ms, 1)
	assert.True(t, ms[0].Strategies.Has(StrategyTwoWord))

	// the ASCII normalizer drops "é" and loses the two word match
	for _, m := range Explain(triggers, "cafe au", 7) {
		assert.False(t, m.Strategies.Has(StrategyTwoWord))
	}
}

func TestUnicodeFoldEngineAccentedKeys(t *testing.T) {
	triggers := []Trigger{
		{Key: "café", Expansion: "Coffee order"},
		{Key: "naïve", Expansion: "Innocent"},
	}
	e := New(WithNormalizer(UnicodeFold))

	tests := []struct {
		text string
		want []string
	}{
		// whole accented key typed
		{"café", []string{"café"}},
		{"order a café", []string{"café"}},
		// fragment with an accent
		{"naï", []string{"naïve"}},
		// unaccented spelling still folds onto the key
		{"cafe", []string{"café"}},
	}
	for _, tt := range tests {
		ms := e.Explain(triggers, tt.text, runeCount(tt.text))
		var keys []string
		for _, m := range ms {
			assert.True(t, m.Strategies.Has(StrategyKey), tt.text)
			keys = append(keys, m.Trigger.Key)
		}
		assert.Equal(t, tt.want, keys, tt.text)
	}

	// the default engine keeps comparing against the lowercased raw key
	assert.Equal(t, []string{"café"}, keysOf(FindMatches(triggers, "café", 4)))
}
