package harness

import (
	"io"

	"github.com/itohio/pcbtest/pkg/tick"
)

// DisplayTest writes a fixed string to the display once and returns.
type DisplayTest struct {
	out     printer
	display drawer
	text    string
}

// Ensure DisplayTest implements Routine.
var _ Routine = (*DisplayTest)(nil)

// NewDisplayTest creates the display test.
func NewDisplayTest(con io.Writer, d Display, text string) *DisplayTest {
	return &DisplayTest{
		out:     printer{w: con},
		display: drawer{d: d},
		text:    text,
	}
}

func (r *DisplayTest) Name() string { return "OLED" }

// Enter draws the string. The routine does not loop, so it finishes immediately.
func (r *DisplayTest) Enter(now tick.Tick) Status {
	r.out.line("=== OLED Display Test ===")
	r.out.line("This test displays a fixed message on the OLED screen.")
	r.display.text(displayTestX, displayTestY, r.text, white)
	return Finished
}

// Step is never reached in practice; it reports Finished for completeness.
func (r *DisplayTest) Step(now tick.Tick, in byte) Status {
	return Finished
}
