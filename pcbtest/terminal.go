package main

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// maxTerminalLines bounds the scrollback kept in the terminal view.
const maxTerminalLines = 500

// terminal is the operator console shown in the window. Writes may come from
// the harness goroutine; the widget is updated on the UI goroutine.
type terminal struct {
	mu      sync.Mutex
	lines   []string
	partial string

	view *widget.TextGrid
}

func newTerminal() *terminal {
	return &terminal{
		view: widget.NewTextGrid(),
	}
}

// Write appends console output. The serial "\n\r" terminator is a newline here.
func (t *terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	t.append(string(p))
	text := t.text()
	t.mu.Unlock()

	fyne.Do(func() {
		t.view.SetText(text)
	})
	return len(p), nil
}

func (t *terminal) append(s string) {
	s = strings.ReplaceAll(s, "\n\r", "\n")
	s = strings.ReplaceAll(s, "\r", "")

	parts := strings.Split(t.partial+s, "\n")
	t.partial = parts[len(parts)-1]
	t.lines = append(t.lines, parts[:len(parts)-1]...)
	if over := len(t.lines) - maxTerminalLines; over > 0 {
		t.lines = append(t.lines[:0], t.lines[over:]...)
	}
}

func (t *terminal) text() string {
	if t.partial == "" {
		return strings.Join(t.lines, "\n")
	}
	return strings.Join(append(t.lines, t.partial), "\n")
}

// Text returns the current terminal contents.
func (t *terminal) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text()
}
