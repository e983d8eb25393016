package sensor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/itohio/pcbtest/pkg/latch"
)

var (
	// ErrNotResponding is returned when the humidity sensor does not answer.
	ErrNotResponding = errors.New("sensor not responding")
	// ErrNoLightSample is returned before the first solar panel conversion completed.
	ErrNoLightSample = errors.New("no light sample yet")
)

// Climate is one humidity/temperature measurement.
type Climate struct {
	Temperature float32 // °C
	Humidity    float32 // %RH
}

// Reading is the pair used for the mold risk verdict.
type Reading struct {
	Humidity   float32 // %RH, 0-100 nominal
	LightLevel uint32  // Raw ADC units
}

// Hygrometer measures humidity and temperature.
type Hygrometer interface {
	Measure() (Climate, error)
}

// Source produces sensor readings for risk evaluation.
type Source interface {
	Read() (Reading, error)
}

// Ensure Pair implements Source.
var _ Source = (*Pair)(nil)

// Pair combines a hygrometer with the solar panel conversion latch.
// It is the latch consumer: each Read takes a fresh conversion if one is pending
// and otherwise reuses the last light level it took.
type Pair struct {
	hygro Hygrometer
	light *latch.Latch

	lastLight uint32
	haveLight bool
}

// NewPair creates a reading source from a hygrometer and a conversion latch.
func NewPair(hygro Hygrometer, light *latch.Latch) *Pair {
	return &Pair{
		hygro: hygro,
		light: light,
	}
}

// Read returns the current humidity and light level.
func (p *Pair) Read() (Reading, error) {
	if v, ok := p.light.TryTake(); ok {
		p.lastLight = v
		p.haveLight = true
		slog.Debug("light sample taken", "raw", v, "overruns", p.light.Overruns())
	}

	climate, err := p.hygro.Measure()
	if err != nil {
		if errors.Is(err, ErrNotResponding) {
			return Reading{}, err
		}
		return Reading{}, fmt.Errorf("%w: %v", ErrNotResponding, err)
	}

	if !p.haveLight {
		return Reading{}, ErrNoLightSample
	}

	return Reading{
		Humidity:   climate.Humidity,
		LightLevel: p.lastLight,
	}, nil
}
