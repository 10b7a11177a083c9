package session

import "github.com/bastiangx/wordexpand/pkg/expand"

// Direction moves the popup selection.
type Direction int

const (
	Up Direction = iota
	Down
)

// PopupState is a copy of what a popup shows. Selected is -1 when hidden.
type PopupState struct {
	Visible    bool
	Candidates []expand.Trigger
	Selected   int
}

// Popup is the candidate list state machine:
//
//	hidden --Show(non-empty)--> visible(candidates, 0)
//	visible --Navigate--> visible(candidates, i±1 wrapping)
//	visible --Hide/Commit--> hidden
//
// The zero value is hidden. A Popup is not safe for concurrent use.
type Popup struct {
	candidates []expand.Trigger
	selected   int
}

// Visible reports whether candidates are shown.
func (p *Popup) Visible() bool {
	return len(p.candidates) > 0
}

// Show displays candidates with the first one selected. No candidates hides it.
func (p *Popup) Show(candidates []expand.Trigger) {
	if len(candidates) == 0 {
		p.Hide()
		return
	}
	p.candidates = candidates
	p.selected = 0
}

// Navigate moves the selection and wraps at both ends.
func (p *Popup) Navigate(d Direction) {
	n := len(p.candidates)
	if n == 0 {
		return
	}
	switch d {
	case Up:
		if p.selected <= 0 {
			p.selected = n - 1
		} else {
			p.selected--
		}
	case Down:
		if p.selected >= n-1 {
			p.selected = 0
		} else {
			p.selected++
		}
	}
}

// Select points the selection at i, e.g. on hover. Out of range is ignored.
func (p *Popup) Select(i int) bool {
	if i < 0 || i >= len(p.candidates) {
		return false
	}
	p.selected = i
	return true
}

// Hide clears the popup.
func (p *Popup) Hide() {
	p.candidates = nil
	p.selected = 0
}

// Selected returns the highlighted candidate.
func (p *Popup) Selected() (expand.Trigger, bool) {
	if !p.Visible() {
		return expand.Trigger{}, false
	}
	return p.candidates[p.selected], true
}

// Commit returns the highlighted candidate and hides the popup.
func (p *Popup) Commit() (expand.Trigger, bool) {
	t, ok := p.Selected()
	if ok {
		p.Hide()
	}
	return t, ok
}

// State returns a snapshot of the popup.
func (p *Popup) State() PopupState {
	if !p.Visible() {
		return PopupState{Selected: -1}
	}
	return PopupState{
		Visible:    true,
		Candidates: append([]expand.Trigger(nil), p.candidates...),
		Selected:   p.selected,
	}
}
