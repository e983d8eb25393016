package console

import (
	"bytes"
	"strings"
)

// Script replays a fixed input sequence, one character per ReadChar.
// Use a 0 byte to model a poll on which nothing arrived. Output is captured.
type Script struct {
	input []byte
	pos   int
	out   bytes.Buffer
}

// NewScript creates a scripted console.
func NewScript(input ...byte) *Script {
	return &Script{input: input}
}

// Feed appends characters to the remaining input.
func (s *Script) Feed(input ...byte) {
	s.input = append(s.input, input...)
}

// ReadChar returns the next scripted character, or 0 once the script ran out.
func (s *Script) ReadChar() byte {
	if s.pos >= len(s.input) {
		return 0
	}
	b := s.input[s.pos]
	s.pos++
	return b
}

// Pending returns how many scripted characters are left.
func (s *Script) Pending() int {
	return len(s.input) - s.pos
}

// Write captures output.
func (s *Script) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

// Output returns everything written so far.
func (s *Script) Output() string {
	return s.out.String()
}

// Lines returns output split on the console line terminator.
func (s *Script) Lines() []string {
	text := strings.TrimSuffix(s.out.String(), "\n\r")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n\r")
}

// Reset discards captured output.
func (s *Script) Reset() {
	s.out.Reset()
}
