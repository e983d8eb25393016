package harness

import (
	"errors"
	"io"

	"github.com/itohio/pcbtest/pkg/sensor"
	"github.com/itohio/pcbtest/pkg/tick"
)

const (
	dhtErrorText = "DHT ERROR!"
	warningText  = "MOLD RISK!"
)

// RiskTest periodically evaluates mold risk from humidity and light level.
type RiskTest struct {
	out       printer
	display   drawer
	source    sensor.Source
	evaluator Evaluator
	cadence   tick.Cadence
}

// Ensure RiskTest implements Routine.
var _ Routine = (*RiskTest)(nil)

// NewRiskTest creates the risk evaluation routine.
func NewRiskTest(con io.Writer, d Display, source sensor.Source, eval Evaluator, everyMs uint32) *RiskTest {
	return &RiskTest{
		out:       printer{w: con},
		display:   drawer{d: d},
		source:    source,
		evaluator: eval,
		cadence:   tick.NewCadence(everyMs),
	}
}

func (r *RiskTest) Name() string { return "Mold risk" }

func (r *RiskTest) Enter(now tick.Tick) Status {
	r.out.line("=== Mold Risk Evaluation ===")
	r.out.line("Press 'q' to quit.")
	r.cadence.Reset(now)
	return Running
}

func (r *RiskTest) Step(now tick.Tick, in byte) Status {
	if isQuit(in) {
		r.out.line("Exiting mold risk test.")
		return Finished
	}

	if r.cadence.Due(now) {
		r.evaluate()
	}
	return Running
}

// evaluate runs one cycle. A failed read is reported and the cycle ends there:
// the evaluator only ever sees a successful reading.
func (r *RiskTest) evaluate() {
	reading, err := r.source.Read()
	if err != nil {
		if errors.Is(err, sensor.ErrNotResponding) {
			r.out.line("ERROR: DHT sensor not responding.")
		} else {
			r.out.line("ERROR: %v.", err)
		}
		r.display.fill(0, 0, screenWidth, halfHeight, black)
		r.display.text(0, 0, dhtErrorText, red)
		return
	}

	humStr := formatHumidity(reading.Humidity)
	lightStr := formatLight(reading.LightLevel)

	r.display.fill(0, 0, screenWidth, halfHeight, black)
	r.display.text(0, 0, humStr, white)
	r.display.text(0, lineHeight, lightStr, white)

	atRisk := r.evaluator.Evaluate(reading.Humidity, reading.LightLevel)
	if atRisk {
		r.out.line("%s, %s: MOLD RISK", humStr, lightStr)
		r.showWarning()
		return
	}

	r.out.line("%s, %s: OK", humStr, lightStr)
	// Clear a warning left over from an earlier cycle.
	r.display.fill(0, halfHeight, screenWidth, halfHeight, black)
}

func (r *RiskTest) showWarning() {
	r.display.fill(0, halfHeight, screenWidth, halfHeight, red)
	r.display.text(0, halfHeight, warningText, white)
}
