package expand

import (
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Index is a compiled, read-only trigger list. Keys are stored reversed in a
// patricia trie so "which key ends at the cursor" becomes a prefix walk over the
// reversed text instead of a scan of the whole list.
type Index struct {
	engine   *Engine
	triggers []Trigger
	suffixes *patricia.Trie
	// emptyKey is the position of the first trigger with an empty key, or -1.
	// An empty key is a suffix of everything; the trie can't hold it.
	emptyKey int
}

// NewIndex compiles triggers with the default engine.
func NewIndex(triggers []Trigger) *Index {
	return defaultEngine.Index(triggers)
}

// Index compiles triggers for this engine. The list is copied.
func (e *Engine) Index(triggers []Trigger) *Index {
	ix := &Index{
		engine:   e,
		triggers: append([]Trigger(nil), triggers...),
		suffixes: patricia.NewTrie(),
		emptyKey: -1,
	}

	for i, t := range ix.triggers {
		if t.Key == "" {
			if ix.emptyKey < 0 {
				ix.emptyKey = i
			}
			continue
		}
		// Insert keeps the first item for a key, which is the lowest position
		ix.suffixes.Insert(patricia.Prefix(reverse(t.Key)), i)
	}

	log.Debugf("Indexed %d triggers", len(ix.triggers))
	return ix
}

// Len returns the number of triggers.
func (ix *Index) Len() int {
	return len(ix.triggers)
}

// Triggers returns the indexed list. Callers must not modify it.
func (ix *Index) Triggers() []Trigger {
	return ix.triggers
}

// FindMatches returns candidates for text at cursor, pointing into the index.
func (ix *Index) FindMatches(text string, cursor int) []*Trigger {
	return ix.engine.FindMatches(ix.triggers, text, cursor)
}

// Explain returns candidates for text at cursor with their strategies.
func (ix *Index) Explain(text string, cursor int) []Match {
	return ix.engine.Explain(ix.triggers, text, cursor)
}

// PlanReplacement gives the same plan as the engine's linear PlanReplacement over
// the indexed list.
func (ix *Index) PlanReplacement(text string, cursor int, expansion string) Plan {
	rs, c := clampCursor(text, cursor)

	if i := ix.suffixKey(rs[:c]); i >= 0 {
		key := ix.triggers[i].Key
		return buildPlan(rs, c, runeLen(key), key, expansion)
	}
	return buildPlan(rs, c, trailingWordLen(rs[:c]), "", expansion)
}

// SuffixKey returns the first trigger whose key ends at cursor.
func (ix *Index) SuffixKey(text string, cursor int) (Trigger, bool) {
	rs, c := clampCursor(text, cursor)
	if i := ix.suffixKey(rs[:c]); i >= 0 {
		return ix.triggers[i], true
	}
	return Trigger{}, false
}

func (ix *Index) suffixKey(before []rune) int {
	best := ix.emptyKey
	if len(before) == 0 {
		return best
	}

	err := ix.suffixes.VisitPrefixes(patricia.Prefix(reverseRunes(before)), func(_ patricia.Prefix, item patricia.Item) error {
		if i := item.(int); best < 0 || i < best {
			best = i
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting suffix trie: %v", err)
	}
	return best
}

func reverse(s string) string {
	return reverseRunes([]rune(s))
}

func reverseRunes(rs []rune) string {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[len(rs)-1-i] = r
	}
	return string(out)
}
