package harness

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/itohio/pcbtest/pkg/sensor"
	"github.com/itohio/pcbtest/pkg/tick"
)

var errConversion = errors.New("conversion timeout")

type drawCall struct {
	op   string
	x, y int16
	w, h int16
	text string
	c    color.RGBA
}

type recordingDisplay struct {
	calls []drawCall
}

func (d *recordingDisplay) FillRect(x, y, width, height int16, c color.RGBA) error {
	d.calls = append(d.calls, drawCall{op: "fill", x: x, y: y, w: width, h: height, c: c})
	return nil
}

func (d *recordingDisplay) DrawString(x, y int16, s string, c color.RGBA) error {
	d.calls = append(d.calls, drawCall{op: "text", x: x, y: y, text: s, c: c})
	return nil
}

func (d *recordingDisplay) texts() []string {
	var out []string
	for _, c := range d.calls {
		if c.op == "text" {
			out = append(out, c.text)
		}
	}
	return out
}

type fakeADC struct {
	value   uint32
	failing bool
	starts  int
	stops   int
	timeout time.Duration
}

func (a *fakeADC) Start() error {
	a.starts++
	return nil
}

func (a *fakeADC) PollForConversion(timeout time.Duration) error {
	a.timeout = timeout
	if a.failing {
		return errConversion
	}
	return nil
}

func (a *fakeADC) Value() uint32 { return a.value }

func (a *fakeADC) Stop() error {
	a.stops++
	return nil
}

type fakeHygro struct {
	climate sensor.Climate
	err     error
	reads   int
}

func (h *fakeHygro) Measure() (sensor.Climate, error) {
	h.reads++
	if h.err != nil {
		return sensor.Climate{}, h.err
	}
	return h.climate, nil
}

type fakeSource struct {
	reading sensor.Reading
	err     error
	reads   int
}

func (s *fakeSource) Read() (sensor.Reading, error) {
	s.reads++
	if s.err != nil {
		return sensor.Reading{}, s.err
	}
	return s.reading, nil
}

type countingEvaluator struct {
	verdict bool
	calls   int
}

func (e *countingEvaluator) Evaluate(humidity float32, lightLevel uint32) bool {
	e.calls++
	return e.verdict
}

type stubRoutine struct {
	name     string
	enter    Status
	finishOn byte
	entered  int
	steps    int
}

func (r *stubRoutine) Name() string { return r.name }

func (r *stubRoutine) Enter(now tick.Tick) Status {
	r.entered++
	return r.enter
}

func (r *stubRoutine) Step(now tick.Tick, in byte) Status {
	r.steps++
	if in != 0 && in == r.finishOn {
		return Finished
	}
	return Running
}

type haltRecorder struct {
	halted bool
}

func (h *haltRecorder) Halt() { h.halted = true }

func notResponding() error {
	return fmt.Errorf("%w: checksum mismatch", sensor.ErrNotResponding)
}
