package expand

import (
	"strings"
)

// Strategy is a bit set of the predicates that made a trigger a candidate.
type Strategy uint8

const (
	StrategyKey Strategy = 1 << iota
	StrategyPrefix
	StrategyTwoWord
	StrategyAbbreviation
)

var strategyNames = []struct {
	s    Strategy
	name string
}{
	{StrategyKey, "key"},
	{StrategyPrefix, "prefix"},
	{StrategyTwoWord, "two_word"},
	{StrategyAbbreviation, "abbreviation"},
}

// Has reports whether every bit of o is set in s.
func (s Strategy) Has(o Strategy) bool {
	return s&o == o
}

// Names lists the strategies in s in a fixed order.
func (s Strategy) Names() []string {
	var names []string
	for _, sn := range strategyNames {
		if s.Has(sn.s) {
			names = append(names, sn.name)
		}
	}
	return names
}

func (s Strategy) String() string {
	if s == 0 {
		return "none"
	}
	return strings.Join(s.Names(), "|")
}

// Match is one candidate and the strategies that selected it.
type Match struct {
	Trigger    *Trigger
	Strategies Strategy
}

// FindMatches returns pointers into triggers, in list order, for every entry that
// matches the text in front of cursor.
func (e *Engine) FindMatches(triggers []Trigger, text string, cursor int) []*Trigger {
	w := e.Window(text, cursor)
	var out []*Trigger
	for i := range triggers {
		if e.match(&triggers[i], w) != 0 {
			out = append(out, &triggers[i])
		}
	}
	return out
}

// Explain returns the same candidates as FindMatches along with their strategies.
func (e *Engine) Explain(triggers []Trigger, text string, cursor int) []Match {
	w := e.Window(text, cursor)
	var out []Match
	for i := range triggers {
		if s := e.match(&triggers[i], w); s != 0 {
			out = append(out, Match{Trigger: &triggers[i], Strategies: s})
		}
	}
	return out
}

func (e *Engine) match(t *Trigger, w Window) Strategy {
	normalize := e.normalizer()
	var s Strategy

	if keyMatch(t.Key, w, e.keyForm) {
		s |= StrategyKey
	}

	spaced := strings.Contains(w.NormalizedLastWords, " ")
	lastWordLen := runeLen(w.NormalizedLastWord)

	if runeLen(w.NormalizedLastWords) >= 2 {
		expansion := normalize(t.Expansion)
		if !spaced && lastWordLen >= 2 && strings.HasPrefix(expansion, w.NormalizedLastWord) {
			s |= StrategyPrefix
		}
		if spaced && strings.Contains(expansion, w.NormalizedLastWords) {
			s |= StrategyTwoWord
		}
	}

	if lastWordLen >= 3 && !spaced && abbreviationMatch(t.Expansion, w.NormalizedLastWord, normalize) {
		s |= StrategyAbbreviation
	}
	return s
}

// keyMatch: a one rune key must sit right before the cursor, anything longer
// matches once two raw characters of it have been typed.
func keyMatch(key string, w Window, form func(string) string) bool {
	if runeLen(key) == 1 {
		return strings.HasSuffix(w.Before, key)
	}
	return runeLen(w.LastWord) >= 2 && strings.Contains(form(key), w.NormalizedLastWord)
}

// abbreviationMatch walks the words of expansion and consumes one target rune per
// word whose first letter equals it. Words that don't match are skipped.
func abbreviationMatch(expansion, target string, normalize Normalizer) bool {
	want := []rune(target)
	next := 0
	for _, word := range strings.Fields(expansion) {
		if next == len(want) {
			break
		}
		nw := normalize(word)
		if nw == "" {
			continue
		}
		if []rune(nw)[0] == want[next] {
			next++
		}
	}
	return next == len(want)
}
