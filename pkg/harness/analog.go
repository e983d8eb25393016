package harness

import (
	"io"
	"log/slog"
	"time"

	"github.com/itohio/pcbtest/pkg/tick"
)

type analogPhase int

const (
	analogConfirm analogPhase = iota
	analogSampling
)

// AnalogTest polls the ADC on a fixed cadence and prints each raw value.
// It uses the polled conversion path and leaves the interrupt latch alone.
type AnalogTest struct {
	out     printer
	adc     ADC
	timeout time.Duration
	cadence tick.Cadence
	phase   analogPhase
}

// Ensure AnalogTest implements Routine.
var _ Routine = (*AnalogTest)(nil)

// NewAnalogTest creates the ADC test sampling every everyMs milliseconds.
func NewAnalogTest(con io.Writer, adc ADC, everyMs uint32, timeout time.Duration) *AnalogTest {
	return &AnalogTest{
		out:     printer{w: con},
		adc:     adc,
		timeout: timeout,
		cadence: tick.NewCadence(everyMs),
	}
}

func (r *AnalogTest) Name() string { return "ADC" }

// Enter describes the test and asks for confirmation.
func (r *AnalogTest) Enter(now tick.Tick) Status {
	r.out.line("=== ADC Input Test ===")
	r.out.line("This test reads the solar panel voltage via ADC1.")
	r.out.line("Ensure the solar panel is connected to the ADC pin.")
	r.out.line("Type 'Y' to continue or any other key to cancel...")
	r.phase = analogConfirm
	return Running
}

// Step waits for the confirmation, then samples until the operator quits.
func (r *AnalogTest) Step(now tick.Tick, in byte) Status {
	if r.phase == analogConfirm {
		switch in {
		case 0:
			return Running
		case 'Y', 'y':
			r.phase = analogSampling
			r.cadence.Reset(now)
			r.out.line("ADC test started. Type 'q' to quit.")
			return Running
		default:
			r.out.line("Test aborted. Returning to main menu...")
			return Finished
		}
	}

	if isQuit(in) {
		r.out.line("Quitting ADC test. Returning to main menu...")
		return Finished
	}

	if r.cadence.Due(now) {
		r.sample()
	}
	return Running
}

func (r *AnalogTest) sample() {
	if err := r.adc.Start(); err != nil {
		slog.Warn("adc start failed", "err", err)
		return
	}
	defer func() {
		if err := r.adc.Stop(); err != nil {
			slog.Warn("adc stop failed", "err", err)
		}
	}()

	if err := r.adc.PollForConversion(r.timeout); err != nil {
		// A slow conversion only costs this sample.
		slog.Debug("adc conversion not ready", "timeout", r.timeout, "err", err)
		return
	}
	r.out.line("ADC Value: %d", r.adc.Value())
}
