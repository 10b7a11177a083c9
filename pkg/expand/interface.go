/*
Package expand is the core of wordexpand: it decides which triggers are candidates
for the text in front of a cursor and plans the edit that swaps the typed input for a
chosen expansion.

Everything here is pure. Trigger lists and buffer snapshots are passed in on every call
and nothing is cached between calls, so all functions are safe for concurrent use.

# Matching

A trigger is offered when any of four independent strategies fire:

	key           ";em" typed before the cursor (or a 2+ char fragment of a longer key)
	prefix        "He" starts "Hello there, how are you doing today?"
	two-word      "are you" appears anywhere in the expansion
	abbreviation  "hbt" picks the first letters of "Happy Birthday To You"

Candidates keep the order of the trigger list. There is no scoring.

# Offsets

Cursor positions and lengths are counted in runes. Out of range cursors are clamped
to [0, len(text)] and never cause a panic.

# Index

An Index is a compiled, read-only trigger list. It answers the same questions as the
package functions but resolves key suffixes through a patricia trie of reversed keys.

	ix := expand.NewIndex(triggers)
	cands := ix.FindMatches("My email is ;em", 15)
	plan := ix.PlanReplacement("My email is ;em", 15, cands[0].Expansion)
*/
package expand

// Expander is implemented by Index and is what edit sessions hold on to.
type Expander interface {
	// FindMatches returns the candidate triggers for text at cursor, in list order.
	FindMatches(text string, cursor int) []*Trigger

	// Explain is FindMatches with the strategies that fired for every candidate.
	Explain(text string, cursor int) []Match

	// PlanReplacement computes the edit that inserts expansion at cursor.
	PlanReplacement(text string, cursor int, expansion string) Plan

	// Triggers returns the list the expander was built from.
	Triggers() []Trigger

	// Len returns the number of triggers.
	Len() int
}
