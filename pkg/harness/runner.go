package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/itohio/pcbtest/pkg/tick"
)

// Console is the operator terminal: line output and single-character input.
// ReadChar waits a bounded time and returns 0 when nothing arrived.
type Console interface {
	io.Writer
	ReadChar() byte
}

// Runner is the mainline loop: one character poll and one dispatcher step per
// iteration. The console read timeout keeps each iteration short.
type Runner struct {
	clock   tick.Source
	console Console
	menu    *Menu
}

// NewRunner creates the outer driver.
func NewRunner(clock tick.Source, con Console, menu *Menu) *Runner {
	return &Runner{
		clock:   clock,
		console: con,
		menu:    menu,
	}
}

// Menu returns the dispatcher driven by the runner.
func (r *Runner) Menu() *Menu { return r.menu }

// Step performs one poll.
func (r *Runner) Step() {
	in := r.console.ReadChar()
	r.menu.Step(r.clock.Now(), in)
}

// Run polls until ctx is cancelled. The harness itself never stops.
func (r *Runner) Run(ctx context.Context) error {
	slog.Info("harness running")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.Step()
	}
}

// Halter stops the system after an unrecoverable failure. Halt must not return.
type Halter interface {
	Halt()
}

// Fatal reports an initialisation failure on the console and halts.
// Recovery needs an external reset.
func Fatal(con io.Writer, h Halter, err error) {
	slog.Error("fatal initialization failure", "err", err)
	if con != nil {
		fmt.Fprintf(con, "FATAL: %v\n\r", err)
	}
	h.Halt()
}

// PrintBanner writes the boot banner.
func PrintBanner(con io.Writer, title string) {
	fmt.Fprintf(con, "\n\r%s:\n\r===\n\r", title)
}
