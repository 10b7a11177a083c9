package session

import (
	"sync"
	"testing"

	"github.com/bastiangx/wordexpand/pkg/expand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shortcuts = []expand.Trigger{
	{Key: ";em", Expansion: "example@email.com"},
	{Key: "ty", Expansion: "Thank you"},
	{Key: "tyvm", Expansion: "Thank you very much"},
	{Key: "greeting", Expansion: "Hello there, how are you doing today?"},
}

func TestHandleEditShowsCandidates(t *testing.T) {
	s := New(expand.NewIndex(shortcuts))

	st := s.HandleEdit("ty", 2)
	require.True(t, st.Visible)
	assert.Equal(t, []expand.Trigger{shortcuts[1], shortcuts[2]}, st.Candidates)
	assert.Equal(t, 0, st.Selected)

	st = s.HandleEdit("ty ", 3)
	assert.True(t, st.Visible, "last word is still ty")

	st = s.HandleEdit("x", 1)
	assert.False(t, st.Visible)
	assert.Equal(t, expand.Buffer{Text: "x", Cursor: 1}, s.Buffer())
}

func TestAcceptKeyMatch(t *testing.T) {
	s := New(expand.NewIndex(shortcuts))
	s.HandleEdit("My email is ;em please", 15)

	buf, ok := s.Accept()
	require.True(t, ok)
	assert.Equal(t, expand.Buffer{Text: "My email is example@email.com please", Cursor: 29}, buf)
	assert.Equal(t, buf, s.Buffer())
	assert.False(t, s.Popup().Visible)

	_, ok = s.Accept()
	assert.False(t, ok)
}

func TestAcceptReplacesLastWord(t *testing.T) {
	testCases := []struct {
		text string
		want string
	}{
		{"He", "Hello there, how are you doing today?"},
		// two word candidates still only replace the last word
		{"Well, hello there", "Well, hello Hello there, how are you doing today?"},
	}

	for _, tc := range testCases {
		s := New(expand.NewIndex(shortcuts))
		require.True(t, s.HandleEdit(tc.text, len([]rune(tc.text))).Visible, tc.text)

		buf, ok := s.Accept()
		require.True(t, ok)
		assert.Equal(t, tc.want, buf.Text)
		assert.Equal(t, len([]rune(buf.Text)), buf.Cursor)
	}
}

func TestHandleKey(t *testing.T) {
	s := New(expand.NewIndex(shortcuts))

	consumed, _, _ := s.HandleKey(KeyDown)
	assert.False(t, consumed, "hidden popup lets keys through")

	s.HandleEdit("ty", 2)
	consumed, _, _ = s.HandleKey(KeyDown)
	assert.True(t, consumed)
	assert.Equal(t, 1, s.Popup().Selected)

	consumed, _, _ = s.HandleKey(KeyDown)
	assert.True(t, consumed)
	assert.Equal(t, 0, s.Popup().Selected)

	consumed, _, _ = s.HandleKey(KeyUp)
	assert.True(t, consumed)
	assert.Equal(t, 1, s.Popup().Selected)

	consumed, buf, applied := s.HandleKey(KeyTab)
	assert.True(t, consumed)
	require.True(t, applied)
	assert.Equal(t, expand.Buffer{Text: "Thank you very much", Cursor: 19}, buf)

	s.HandleEdit("ty", 2)
	consumed, _, applied = s.HandleKey(KeyEscape)
	assert.False(t, consumed)
	assert.False(t, applied)
	assert.False(t, s.Popup().Visible)
}

func TestAcceptIndex(t *testing.T) {
	s := New(expand.NewIndex(shortcuts))
	s.HandleEdit("ty", 2)

	_, ok := s.AcceptIndex(5)
	assert.False(t, ok)

	buf, ok := s.AcceptIndex(0)
	require.True(t, ok)
	assert.Equal(t, "Thank you", buf.Text)
}

func TestSetExpander(t *testing.T) {
	s := New(nil)
	assert.False(t, s.HandleEdit("ty", 2).Visible)

	s.SetExpander(expand.NewIndex(shortcuts))
	assert.True(t, s.HandleEdit("ty", 2).Visible)
}

func TestParseKey(t *testing.T) {
	for name, want := range map[string]Key{"up": KeyUp, "ArrowDown": KeyDown, "Tab": KeyTab, "esc": KeyEscape} {
		got, ok := ParseKey(name)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := ParseKey("enter")
	assert.False(t, ok)
}

func TestManager(t *testing.T) {
	m := NewManager(expand.NewIndex(nil))

	a := m.Get("a")
	assert.Same(t, a, m.Get("a"))
	assert.Equal(t, 1, m.Len())
	assert.False(t, a.HandleEdit("ty", 2).Visible)

	m.SetExpander(expand.NewIndex(shortcuts))
	assert.True(t, a.HandleEdit("ty", 2).Visible)
	assert.True(t, m.Get("b").HandleEdit("ty", 2).Visible, "new sessions get the latest list")

	_, ok := m.Lookup("b")
	assert.True(t, ok)
	assert.True(t, m.Close("b"))
	assert.False(t, m.Close("b"))
	_, ok = m.Lookup("b")
	assert.False(t, ok)
}

func TestManagerConcurrentGet(t *testing.T) {
	m := NewManager(expand.NewIndex(shortcuts))

	var wg sync.WaitGroup
	got := make([]*Session, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = m.Get("shared")
			got[i].HandleEdit("ty", 2)
		}(i)
	}
	wg.Wait()

	for _, s := range got {
		assert.Same(t, got[0], s)
	}
}
