package harness

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"time"

	"github.com/itohio/pcbtest/pkg/sensor"
)

// Display draws short strings into fixed screen regions.
type Display interface {
	FillRect(x, y, width, height int16, c color.RGBA) error
	DrawString(x, y int16, s string, c color.RGBA) error
}

// ADC is the polled analog channel.
type ADC interface {
	Start() error
	PollForConversion(timeout time.Duration) error
	Value() uint32
	Stop() error
}

// Evaluator decides whether a reading pair indicates mold risk.
type Evaluator interface {
	Evaluate(humidity float32, lightLevel uint32) bool
}

// Peripherals groups the collaborators the test routines drive.
type Peripherals struct {
	Console    io.Writer
	Display    Display
	ADC        ADC
	Hygrometer sensor.Hygrometer
	Sensors    sensor.Source
	Evaluator  Evaluator
}

// Timing holds routine cadences in milliseconds.
type Timing struct {
	AnalogEvery       uint32
	HumidityEvery     uint32
	RiskEvery         uint32
	ConversionTimeout time.Duration
}

// DefaultTiming returns the cadences the hardware was characterised with.
// The DHT11 cannot be read more often than about once a second.
func DefaultTiming() Timing {
	return Timing{
		AnalogEvery:       200,
		HumidityEvery:     1100,
		RiskEvery:         1000,
		ConversionTimeout: 10 * time.Millisecond,
	}
}

// printer writes console lines terminated the way the serial terminal expects.
type printer struct {
	w io.Writer
}

func (p printer) line(format string, a ...any) {
	if _, err := fmt.Fprintf(p.w, format+"\n\r", a...); err != nil {
		slog.Debug("console write failed", "err", err)
	}
}

// drawer wraps a Display and logs failures instead of aborting the cycle.
type drawer struct {
	d Display
}

func (d drawer) fill(x, y, width, height int16, c color.RGBA) {
	if d.d == nil {
		return
	}
	if err := d.d.FillRect(x, y, width, height, c); err != nil {
		slog.Warn("display fill failed", "err", err)
	}
}

func (d drawer) text(x, y int16, s string, c color.RGBA) {
	if d.d == nil {
		return
	}
	if err := d.d.DrawString(x, y, fitText(s, maxTextLen), c); err != nil {
		slog.Warn("display write failed", "err", err)
	}
}

func fitText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
