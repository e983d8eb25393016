// Package board provides the peripherals of the PCB under test. The host build
// uses the simulated board in this package; the firmware wires real drivers.
package board

import (
	"errors"
	"fmt"

	"github.com/itohio/pcbtest/pkg/harness"
	"github.com/itohio/pcbtest/pkg/sensor"
)

// ADC resolution of the solar panel channel.
const (
	ADCBits = 12
	ADCMax  = 1<<ADCBits - 1
)

var (
	ErrNotConnected      = errors.New("board not connected")
	ErrAlreadyConnected  = errors.New("board already connected")
	ErrNotStarted        = errors.New("conversion not started")
	ErrConversionTimeout = errors.New("conversion timeout")
	ErrNoResponse        = fmt.Errorf("%w: no response", sensor.ErrNotResponding)
)

// Board is a set of peripherals that must be brought up before use.
type Board interface {
	Connect() error
	Close() error
	IsConnected() bool
	sensor.Hygrometer
	harness.ADC
}

// Ensure Mock implements Board.
var _ Board = (*Mock)(nil)
