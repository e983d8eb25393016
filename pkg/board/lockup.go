package board

import (
	"log/slog"
	"os"

	"github.com/itohio/pcbtest/pkg/harness"
)

// Lockup halts the host build the way the firmware halts the MCU: the simulated
// peripherals are stopped and nothing runs until the operator resets (here, by
// interrupting the process).
type Lockup struct {
	board Board
	reset <-chan struct{}
	exit  func(code int)
}

// Ensure Lockup implements Halter.
var _ harness.Halter = (*Lockup)(nil)

// NewLockup creates a halter that closes b and blocks until reset is closed.
func NewLockup(b Board, reset <-chan struct{}) *Lockup {
	return &Lockup{
		board: b,
		reset: reset,
		exit:  os.Exit,
	}
}

// Halt never returns.
func (l *Lockup) Halt() {
	if l.board != nil {
		if err := l.board.Close(); err != nil {
			slog.Warn("board close failed", "err", err)
		}
	}

	slog.Error("system halted, waiting for reset")
	<-l.reset
	l.exit(1)
	select {}
}
