package expand

import "strings"

// Plan is the edit that substitutes an expansion for the input before the cursor.
type Plan struct {
	NewText   string
	NewCursor int

	// Start and End delimit the replaced runes in the old text. End is the cursor.
	Start int
	End   int
	// Key is the trigger key that was replaced, empty when the last word was.
	Key string
}

// Replaced reports how many runes the plan removes.
func (p Plan) Replaced() int {
	return p.End - p.Start
}

// PlanReplacement replaces the first trigger key (in list order) that ends exactly at
// the cursor, or the trailing run of non-space characters when no key does.
func (e *Engine) PlanReplacement(triggers []Trigger, text string, cursor int, expansion string) Plan {
	rs, c := clampCursor(text, cursor)
	before := string(rs[:c])

	for i := range triggers {
		if strings.HasSuffix(before, triggers[i].Key) {
			return buildPlan(rs, c, runeLen(triggers[i].Key), triggers[i].Key, expansion)
		}
	}
	return buildPlan(rs, c, trailingWordLen(rs[:c]), "", expansion)
}

func buildPlan(rs []rune, cursor, removed int, key, expansion string) Plan {
	start := cursor - removed
	var b strings.Builder
	b.Grow(len(rs) + len(expansion))
	b.WriteString(string(rs[:start]))
	b.WriteString(expansion)
	b.WriteString(string(rs[cursor:]))

	return Plan{
		NewText:   b.String(),
		NewCursor: start + runeLen(expansion),
		Start:     start,
		End:       cursor,
		Key:       key,
	}
}
