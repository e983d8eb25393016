package harness

import (
	"fmt"
	"image/color"

	"github.com/itohio/pcbtest/pkg/tick"
)

// Status tells the dispatcher whether a routine keeps control.
type Status int

const (
	Running Status = iota
	Finished
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Routine is a quit-able test loop expressed as a step function.
// Enter is called once when the operator selects the routine; Step is then called
// on every poll with the current tick and the character received (0 if none)
// until it returns Finished.
type Routine interface {
	Name() string
	Enter(now tick.Tick) Status
	Step(now tick.Tick, in byte) Status
}

// Screen layout: the top half carries readings, the bottom half the warning.
const (
	screenWidth  int16 = 96
	halfHeight   int16 = 32
	lineHeight   int16 = 16
	maxTextLen         = 20
	displayTestX int16 = 0
	displayTestY int16 = 0
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.RGBA{R: 0xff, A: 0xff}
)

// isQuit reports whether in is the quit character.
func isQuit(in byte) bool {
	return in == 'q' || in == 'Q'
}
