package board

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/itohio/pcbtest/pkg/config"
	"github.com/itohio/pcbtest/pkg/latch"
	"github.com/itohio/pcbtest/pkg/sensor"
)

// Mock simulates the test PCB: a DHT11 following a slow humidity wave and a solar
// panel whose level follows a simulated day. The panel is sampled two ways, like
// the hardware: polled conversions through the ADC methods, and a background
// conversion-complete interrupt that publishes into the latch.
type Mock struct {
	cfg   *config.MockConfig
	light *latch.Latch
	now   func() time.Time

	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	connected bool
	startTime time.Time

	// Hygrometer state
	reads int

	// Polled conversion state
	converting bool
	convStart  time.Time
	value      uint32
}

// NewMock creates a simulated board. Conversion-complete interrupts are published
// into light; a nil latch disables them.
func NewMock(cfg *config.MockConfig, light *latch.Latch) *Mock {
	if cfg == nil {
		def := config.Default().Mock
		cfg = &def
	}

	return &Mock{
		cfg:   cfg,
		light: light,
		now:   time.Now,
	}
}

// Connect powers up the simulated peripherals and starts the interrupt source.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return ErrAlreadyConnected
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.connected = true
	m.startTime = m.now()
	m.reads = 0
	m.converting = false

	if m.light != nil && m.cfg.ConversionInterval > 0 {
		m.wg.Add(1)
		go m.generateConversions(m.ctx)
	}

	slog.Debug("mock board connected",
		"conversion_interval", m.cfg.ConversionInterval,
		"fail_every", m.cfg.FailEvery)
	return nil
}

// Close stops the interrupt source. It returns once the source has exited.
func (m *Mock) Close() error {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return nil
	}
	m.cancel()
	m.connected = false
	m.mu.Unlock()

	m.wg.Wait()
	return nil
}

// IsConnected returns whether the board is powered up.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Measure simulates a DHT11 read.
func (m *Mock) Measure() (sensor.Climate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return sensor.Climate{}, ErrNotConnected
	}

	m.reads++
	if m.cfg.FailEvery > 0 && m.reads%m.cfg.FailEvery == 0 {
		return sensor.Climate{}, ErrNoResponse
	}

	elapsed := m.now().Sub(m.startTime)
	return sensor.Climate{
		Temperature: m.temperatureAt(elapsed),
		Humidity:    m.humidityAt(elapsed),
	}, nil
}

// Start begins a polled conversion.
func (m *Mock) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return ErrNotConnected
	}
	m.converting = true
	m.convStart = m.now()
	return nil
}

// PollForConversion waits up to timeout for the conversion started by Start.
func (m *Mock) PollForConversion(timeout time.Duration) error {
	m.mu.RLock()
	converting := m.converting
	remaining := m.cfg.ConversionDelay - m.now().Sub(m.convStart)
	m.mu.RUnlock()

	if !converting {
		return ErrNotStarted
	}

	if remaining > timeout {
		time.Sleep(timeout)
		return ErrConversionTimeout
	}
	if remaining > 0 {
		time.Sleep(remaining)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.converting {
		return ErrNotStarted
	}
	m.value = m.lightAt(m.now().Sub(m.startTime))
	return nil
}

// Value returns the result of the last completed conversion.
func (m *Mock) Value() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value
}

// Stop ends the polled conversion.
func (m *Mock) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.converting = false
	return nil
}

// generateConversions plays the conversion-complete interrupt.
func (m *Mock) generateConversions(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.ConversionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.RLock()
			raw := m.lightAt(m.now().Sub(m.startTime))
			m.mu.RUnlock()
			m.light.OnConversionComplete(raw)
		}
	}
}

// humidityAt returns relative humidity following a sine wave around the base value.
func (m *Mock) humidityAt(elapsed time.Duration) float32 {
	h := m.cfg.Humidity + m.cfg.HumiditySwing*wave(elapsed, m.cfg.HumidityPeriod)
	h += m.noise(elapsed) * 100
	return clamp(h, 0, 100)
}

// temperatureAt drifts a little with humidity, as a closed enclosure does.
func (m *Mock) temperatureAt(elapsed time.Duration) float32 {
	return m.cfg.Temperature - 0.1*m.cfg.HumiditySwing*wave(elapsed, m.cfg.HumidityPeriod)
}

// lightAt returns the raw panel reading. The day starts dark and peaks halfway
// through the period.
func (m *Mock) lightAt(elapsed time.Duration) uint32 {
	lo := float32(m.cfg.LightMin)
	span := float32(m.cfg.LightMax) - lo

	day := float32(0)
	if m.cfg.LightPeriod > 0 {
		phase := float32(elapsed%m.cfg.LightPeriod) / float32(m.cfg.LightPeriod)
		day = 0.5 - 0.5*math32.Cos(2*math32.Pi*phase)
	}

	v := lo + span*day + m.noise(elapsed)*ADCMax
	return uint32(clamp(v, 0, ADCMax) + 0.5)
}

// noise is a deterministic jitter in [-NoiseLevel, NoiseLevel].
func (m *Mock) noise(elapsed time.Duration) float32 {
	if m.cfg.NoiseLevel == 0 {
		return 0
	}
	ms := float32(elapsed.Milliseconds())
	return (math32.Sin(ms*0.011) + math32.Cos(ms*0.0173)) * m.cfg.NoiseLevel * 0.5
}

// wave returns sin(2*pi*elapsed/period), or 0 for a zero period.
func wave(elapsed, period time.Duration) float32 {
	if period <= 0 {
		return 0
	}
	phase := float32(elapsed%period) / float32(period)
	return math32.Sin(2 * math32.Pi * phase)
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(v, hi))
}
