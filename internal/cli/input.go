// Package cli handles cmd line input and candidates for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordexpand/pkg/expand"
	"github.com/bastiangx/wordexpand/pkg/session"
	"github.com/charmbracelet/log"
)

// InputHandler reads buffers from the user, one per line with the cursor at the
// end, and prints the candidates the engine offers for them.
//
//	:N   accept candidate N and print the new buffer
//	:q   quit
type InputHandler struct {
	expander       expand.Expander
	session        *session.Session
	showStrategies bool
	in             io.Reader
	out            io.Writer
	styles         Styles
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(ex expand.Expander, showStrategies bool, in io.Reader, out io.Writer) *InputHandler {
	if ex == nil {
		ex = expand.NewIndex(nil)
	}
	return &InputHandler{
		expander:       ex,
		session:        session.New(ex),
		showStrategies: showStrategies,
		in:             in,
		out:            out,
		styles:         DefaultStyles(),
	}
}

// Start begins the interface loop. It returns nil on :q or end of input.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, h.styles.Title.Render("WordExpand CLI [BETA]"))
	fmt.Fprintln(h.out, h.styles.Hint.Render("type something and press Enter to see the candidates, :N accepts one, :q quits"))
	reader := bufio.NewReader(h.in)

	for {
		fmt.Fprint(h.out, h.styles.Prompt.Render("> "))
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		eof := err == io.EOF

		line = strings.TrimRight(line, "\r\n")
		if line == ":q" {
			return nil
		}
		if line != "" {
			h.handleInput(line)
		}
		if eof {
			return nil
		}
	}
}

// handleInput dispatches a command or treats line as a new buffer.
func (h *InputHandler) handleInput(line string) {
	if n, ok := parseAccept(line); ok {
		h.accept(n)
		return
	}

	start := time.Now()
	cursor := utf8.RuneCountInString(line)
	state := h.session.HandleEdit(line, cursor)
	log.Debugf("Took [ %v ] for %q", time.Since(start), line)

	if !state.Visible {
		fmt.Fprintln(h.out, h.styles.Warn.Render(fmt.Sprintf("No candidates for %q", line)))
		return
	}

	var explained []expand.Match
	if h.showStrategies {
		explained = h.expander.Explain(line, cursor)
	}

	fmt.Fprintf(h.out, "Found %d candidates:\n", len(state.Candidates))
	for i, t := range state.Candidates {
		row := fmt.Sprintf("%2d. %s %s", i+1, h.styles.Key.Render(t.Key), h.styles.Expansion.Render(t.Expansion))
		if i < len(explained) {
			row += " " + h.styles.Hint.Render("["+explained[i].Strategies.String()+"]")
		}
		fmt.Fprintln(h.out, row)
	}
}

func (h *InputHandler) accept(n int) {
	buf, ok := h.session.AcceptIndex(n - 1)
	if !ok {
		fmt.Fprintln(h.out, h.styles.Warn.Render(fmt.Sprintf("No candidate #%d", n)))
		return
	}
	fmt.Fprintf(h.out, "%s %s\n", h.styles.Hint.Render("=>"), h.styles.Buffer.Render(withCursor(buf)))
}

// parseAccept reads ":N" with N >= 1.
func parseAccept(line string) (int, bool) {
	rest, ok := strings.CutPrefix(line, ":")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// withCursor marks the cursor position with a bar.
func withCursor(buf expand.Buffer) string {
	rs := []rune(buf.Text)
	c := min(max(buf.Cursor, 0), len(rs))
	return string(rs[:c]) + "|" + string(rs[c:])
}
