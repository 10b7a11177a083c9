// Package session adapts an editable buffer to the expansion engine. A Session
// tracks one buffer, asks the engine for candidates on every edit, and applies the
// chosen expansion back onto the buffer.
package session

import (
	"sync"

	"github.com/bastiangx/wordexpand/pkg/expand"
	"github.com/charmbracelet/log"
)

// Key is a navigation key the popup reacts to.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyTab
	KeyEscape
)

// ParseKey maps a key name to a Key.
func ParseKey(name string) (Key, bool) {
	switch name {
	case "up", "ArrowUp":
		return KeyUp, true
	case "down", "ArrowDown":
		return KeyDown, true
	case "tab", "Tab":
		return KeyTab, true
	case "escape", "esc", "Escape":
		return KeyEscape, true
	}
	return 0, false
}

// Session holds one buffer snapshot, its popup and the trigger list it matches
// against. All methods are safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	expander expand.Expander
	buffer   expand.Buffer
	popup    Popup
}

// New creates a session over ex. A nil expander behaves as an empty list.
func New(ex expand.Expander) *Session {
	if ex == nil {
		ex = expand.NewIndex(nil)
	}
	return &Session{expander: ex}
}

// SetExpander swaps the trigger list, e.g. when the store changes. The popup
// keeps showing the old candidates until the next edit.
func (s *Session) SetExpander(ex expand.Expander) {
	if ex == nil {
		ex = expand.NewIndex(nil)
	}
	s.mu.Lock()
	s.expander = ex
	s.mu.Unlock()
}

// Buffer returns the last buffer snapshot.
func (s *Session) Buffer() expand.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

// Popup returns a snapshot of the popup.
func (s *Session) Popup() PopupState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.popup.State()
}

// HandleEdit records a new buffer snapshot (typing, clicks, caret moves) and
// refreshes the candidates.
func (s *Session) HandleEdit(text string, cursor int) PopupState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handleEdit(text, cursor)
	return s.popup.State()
}

func (s *Session) handleEdit(text string, cursor int) {
	s.buffer = expand.Buffer{Text: text, Cursor: cursor}

	matches := s.expander.FindMatches(text, cursor)
	if len(matches) == 0 {
		s.popup.Hide()
		return
	}

	candidates := make([]expand.Trigger, len(matches))
	for i, m := range matches {
		candidates[i] = *m
	}
	s.popup.Show(candidates)
	log.Debug("Candidates", "count", len(candidates), "cursor", cursor)
}

// Select highlights candidate i.
func (s *Session) Select(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.popup.Select(i)
}

// HandleKey feeds a navigation key to the popup. consumed is false when the popup
// is hidden or the key doesn't apply, so the caller should let it through. A Tab
// that commits also returns the new buffer.
func (s *Session) HandleKey(k Key) (consumed bool, buf expand.Buffer, applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.popup.Visible() {
		return false, s.buffer, false
	}

	switch k {
	case KeyUp:
		s.popup.Navigate(Up)
		return true, s.buffer, false
	case KeyDown:
		s.popup.Navigate(Down)
		return true, s.buffer, false
	case KeyTab:
		buf, applied = s.accept()
		return true, buf, applied
	case KeyEscape:
		s.popup.Hide()
		// escape still reaches the edit surface
		return false, s.buffer, false
	}
	return false, s.buffer, false
}

// Accept applies the highlighted candidate to the buffer. It returns false when
// nothing is shown.
func (s *Session) Accept() (expand.Buffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accept()
}

// AcceptIndex selects candidate i and applies it.
func (s *Session) AcceptIndex(i int) (expand.Buffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.popup.Select(i) {
		return s.buffer, false
	}
	return s.accept()
}

func (s *Session) accept() (expand.Buffer, bool) {
	chosen, ok := s.popup.Selected()
	if !ok {
		return s.buffer, false
	}

	plan := s.expander.PlanReplacement(s.buffer.Text, s.buffer.Cursor, chosen.Expansion)
	log.Debug("Applying expansion", "key", chosen.Key, "replaced", plan.Replaced(), "cursor", plan.NewCursor)

	// the new text is an edit like any other, then the popup closes
	s.handleEdit(plan.NewText, plan.NewCursor)
	s.popup.Hide()
	return s.buffer, true
}
