package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/itohio/pcbtest/pkg/sensor"
	"github.com/itohio/pcbtest/pkg/tick"
)

// HumidityTest reads the DHT11 on a fixed cadence and shows the values on the
// console and the top half of the display.
type HumidityTest struct {
	out     printer
	display drawer
	hygro   sensor.Hygrometer
	cadence tick.Cadence
}

// Ensure HumidityTest implements Routine.
var _ Routine = (*HumidityTest)(nil)

// NewHumidityTest creates the humidity test. everyMs must respect the sensor's
// minimum spacing between reads.
func NewHumidityTest(con io.Writer, d Display, hygro sensor.Hygrometer, everyMs uint32) *HumidityTest {
	return &HumidityTest{
		out:     printer{w: con},
		display: drawer{d: d},
		hygro:   hygro,
		cadence: tick.NewCadence(everyMs),
	}
}

func (r *HumidityTest) Name() string { return "DHT11" }

func (r *HumidityTest) Enter(now tick.Tick) Status {
	r.out.line("=== DHT11 Sensor Test ===")
	r.out.line("This test reads temperature and humidity from the DHT11 sensor.")
	r.out.line("Type 'q' to quit.")
	r.cadence.Reset(now)
	return Running
}

func (r *HumidityTest) Step(now tick.Tick, in byte) Status {
	if isQuit(in) {
		r.out.line("Quitting DHT11 test. Returning to main menu...")
		return Finished
	}

	if r.cadence.Due(now) {
		r.sample()
	}
	return Running
}

func (r *HumidityTest) sample() {
	climate, err := r.hygro.Measure()
	if err != nil {
		slog.Debug("hygrometer read failed", "err", err)
		r.out.line("ERROR: DHT sensor not responding.")
		return
	}

	tempStr := formatTemperature(climate.Temperature)
	humStr := formatHumidity(climate.Humidity)
	r.out.line("T: %s, H: %s", tempStr, humStr)

	r.display.fill(0, 0, screenWidth, halfHeight, black)
	r.display.text(0, 0, tempStr, white)
	r.display.text(0, lineHeight, humStr, white)
}

// Values are truncated toward zero, matching what fits on the small display.
func formatTemperature(c float32) string {
	return fmt.Sprintf("Temp: %d C", int(c))
}

func formatHumidity(h float32) string {
	return fmt.Sprintf("Humidity: %d %%", int(h))
}

func formatLight(l uint32) string {
	return fmt.Sprintf("Light: %d", l)
}
