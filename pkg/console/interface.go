package console

import "io"

// Console is the operator link: single characters in, text out.
type Console interface {
	io.Writer
	// ReadChar returns the next received character, or 0 when nothing arrived
	// within the read timeout. It never blocks for longer than that.
	ReadChar() byte
}

// Ensure Serial implements Console.
var _ Console = (*Serial)(nil)

// Ensure Queue implements Console.
var _ Console = (*Queue)(nil)

// Ensure Script implements Console.
var _ Console = (*Script)(nil)
