//go:build tinygo

package main

import (
	"errors"
	"machine"
	"runtime/interrupt"
	"sync"
	"time"

	"tinygo.org/x/drivers/dht"

	"github.com/itohio/pcbtest/pkg/latch"
	"github.com/itohio/pcbtest/pkg/sensor"
)

var (
	errNotStarted = errors.New("conversion not started")
	errTimeout    = errors.New("conversion timeout")
)

// uartConsole is the operator console on the debug UART.
type uartConsole struct {
	uart machine.Serialer
}

func (c uartConsole) Write(p []byte) (int, error) {
	return c.uart.Write(p)
}

// ReadChar waits up to READ_TIMEOUT ms for one character.
func (c uartConsole) ReadChar() byte {
	deadline := time.Now().Add(READ_TIMEOUT * time.Millisecond)
	for {
		if c.uart.Buffered() > 0 {
			b, err := c.uart.ReadByte()
			if err == nil {
				return b
			}
		}
		if time.Now().After(deadline) {
			return 0
		}
		time.Sleep(50 * time.Microsecond)
	}
}

// solarADC shares one converter between polled conversions and the sampler
// standing in for the conversion-complete interrupt.
type solarADC struct {
	mu      sync.Mutex
	adc     machine.ADC
	started bool
	value   uint32
}

func (a *solarADC) read() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	// Get is scaled to 16 bits.
	return uint32(a.adc.Get() >> (16 - ADC_RESOLUTION))
}

func (a *solarADC) Start() error {
	a.mu.Lock()
	a.started = true
	a.mu.Unlock()
	return nil
}

// PollForConversion runs the conversion. The on-chip conversion completes in a
// few microseconds, well inside any timeout the harness uses.
func (a *solarADC) PollForConversion(timeout time.Duration) error {
	a.mu.Lock()
	if !a.started {
		a.mu.Unlock()
		return errNotStarted
	}
	a.mu.Unlock()

	start := time.Now()
	v := a.read()
	if time.Since(start) > timeout {
		return errTimeout
	}

	a.mu.Lock()
	a.value = v
	a.mu.Unlock()
	return nil
}

func (a *solarADC) Value() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

func (a *solarADC) Stop() error {
	a.mu.Lock()
	a.started = false
	a.mu.Unlock()
	return nil
}

// sample publishes a conversion every CONVERSION_INTERVAL_MS.
func (a *solarADC) sample(l *latch.Latch, stop <-chan struct{}) {
	ticker := time.NewTicker(CONVERSION_INTERVAL_MS * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.OnConversionComplete(a.read())
		}
	}
}

// dht11 adapts the DHT driver to sensor.Hygrometer.
type dht11 struct {
	dev dht.Device
}

func (d dht11) Measure() (sensor.Climate, error) {
	if err := d.dev.ReadMeasurements(); err != nil {
		return sensor.Climate{}, err
	}
	t, err := d.dev.TemperatureFloat(dht.C)
	if err != nil {
		return sensor.Climate{}, err
	}
	h, err := d.dev.HumidityFloat()
	if err != nil {
		return sensor.Climate{}, err
	}
	return sensor.Climate{Temperature: t, Humidity: h}, nil
}

// lockup stops the sampler, masks interrupts and spins until reset.
type lockup struct {
	stop chan struct{}
}

func (l lockup) Halt() {
	close(l.stop)
	interrupt.Disable()
	for {
	}
}
