package board

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/itohio/pcbtest/pkg/config"
	"github.com/itohio/pcbtest/pkg/latch"
	"github.com/itohio/pcbtest/pkg/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func quietConfig() *config.MockConfig {
	return &config.MockConfig{
		Temperature:     22,
		Humidity:        70,
		HumiditySwing:   10,
		HumidityPeriod:  40 * time.Second,
		LightMin:        300,
		LightMax:        3800,
		LightPeriod:     2 * time.Minute,
		ConversionDelay: 2 * time.Millisecond,
	}
}

func newClockedMock(t *testing.T, cfg *config.MockConfig, l *latch.Latch) (*Mock, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	m := NewMock(cfg, l)
	m.now = clock.Now
	require.NoError(t, m.Connect())
	t.Cleanup(func() { m.Close() })
	return m, clock
}

func TestMock_Humidity(t *testing.T) {
	m, clock := newClockedMock(t, quietConfig(), nil)

	tests := []struct {
		name         string
		at           time.Duration
		wantHumidity float32
		wantTemp     float32
	}{
		{name: "start", at: 0, wantHumidity: 70, wantTemp: 22},
		{name: "quarter period", at: 10 * time.Second, wantHumidity: 80, wantTemp: 21},
		{name: "half period", at: 20 * time.Second, wantHumidity: 70, wantTemp: 22},
		{name: "three quarters", at: 30 * time.Second, wantHumidity: 60, wantTemp: 23},
	}

	var elapsed time.Duration
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.Advance(tt.at - elapsed)
			elapsed = tt.at

			c, err := m.Measure()
			require.NoError(t, err)
			assert.InDelta(t, tt.wantHumidity, c.Humidity, 0.01)
			assert.InDelta(t, tt.wantTemp, c.Temperature, 0.01)
		})
	}
}

func TestMock_HumidityClamped(t *testing.T) {
	cfg := quietConfig()
	cfg.Humidity = 95
	cfg.HumiditySwing = 20
	m, clock := newClockedMock(t, cfg, nil)

	clock.Advance(10 * time.Second)
	c, err := m.Measure()
	require.NoError(t, err)
	assert.Equal(t, float32(100), c.Humidity)
}

func TestMock_FailEvery(t *testing.T) {
	cfg := quietConfig()
	cfg.FailEvery = 3
	m, _ := newClockedMock(t, cfg, nil)

	var failures int
	for i := 0; i < 9; i++ {
		_, err := m.Measure()
		if err != nil {
			failures++
			assert.ErrorIs(t, err, sensor.ErrNotResponding)
		}
	}
	assert.Equal(t, 3, failures)
}

func TestMock_LightLevel(t *testing.T) {
	m := NewMock(quietConfig(), nil)

	assert.Equal(t, uint32(300), m.lightAt(0))
	assert.Equal(t, uint32(2050), m.lightAt(30*time.Second))
	assert.Equal(t, uint32(3800), m.lightAt(time.Minute))
	assert.Equal(t, uint32(300), m.lightAt(2*time.Minute))
}

func TestMock_LightNoiseStaysInRange(t *testing.T) {
	cfg := quietConfig()
	cfg.LightMin = 0
	cfg.LightMax = ADCMax
	cfg.NoiseLevel = 0.5
	m := NewMock(cfg, nil)

	for ms := 0; ms < 120000; ms += 37 {
		v := m.lightAt(time.Duration(ms) * time.Millisecond)
		assert.LessOrEqual(t, v, uint32(ADCMax))
	}
}

func TestMock_PolledConversion(t *testing.T) {
	m, clock := newClockedMock(t, quietConfig(), nil)
	clock.Advance(time.Minute)

	require.NoError(t, m.Start())
	require.NoError(t, m.PollForConversion(10*time.Millisecond))
	assert.Equal(t, uint32(3800), m.Value())
	require.NoError(t, m.Stop())

	assert.ErrorIs(t, m.PollForConversion(10*time.Millisecond), ErrNotStarted)
}

func TestMock_ConversionTimeout(t *testing.T) {
	cfg := quietConfig()
	cfg.ConversionDelay = 50 * time.Millisecond
	m, _ := newClockedMock(t, cfg, nil)

	require.NoError(t, m.Start())
	err := m.PollForConversion(time.Millisecond)
	assert.ErrorIs(t, err, ErrConversionTimeout)
	assert.Zero(t, m.Value())
}

func TestMock_NotConnected(t *testing.T) {
	m := NewMock(quietConfig(), nil)

	assert.False(t, m.IsConnected())
	_, err := m.Measure()
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, m.Start(), ErrNotConnected)
	assert.NoError(t, m.Close())
}

func TestMock_ConnectTwice(t *testing.T) {
	m, _ := newClockedMock(t, quietConfig(), nil)
	assert.True(t, m.IsConnected())
	assert.ErrorIs(t, m.Connect(), ErrAlreadyConnected)
}

func TestMock_InterruptPublishesIntoLatch(t *testing.T) {
	cfg := quietConfig()
	cfg.ConversionInterval = 5 * time.Millisecond
	l := &latch.Latch{}
	m := NewMock(cfg, l)
	require.NoError(t, m.Connect())

	var got uint32
	assert.Eventually(t, func() bool {
		v, ok := l.TryTake()
		got = v
		return ok
	}, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, got, uint32(300))

	require.NoError(t, m.Close())
	assert.False(t, m.IsConnected())

	// Drain anything published before the source stopped.
	l.TryTake()
	time.Sleep(20 * time.Millisecond)
	_, ok := l.TryTake()
	assert.False(t, ok, "no conversions after Close")
}

func TestMock_DefaultConfig(t *testing.T) {
	m := NewMock(nil, nil)
	require.NotNil(t, m.cfg)
	assert.Equal(t, config.Default().Mock, *m.cfg)
}

func TestLockup_Halt(t *testing.T) {
	m := NewMock(quietConfig(), nil)
	require.NoError(t, m.Connect())

	reset := make(chan struct{})
	exited := make(chan int, 1)
	l := NewLockup(m, reset)
	halted := make(chan struct{})
	l.exit = func(code int) {
		exited <- code
		// Stand in for process exit so Halt's goroutine does not outlive the test.
		runtime.Goexit()
	}

	go func() {
		defer close(halted)
		l.Halt()
	}()

	assert.Eventually(t, func() bool { return !m.IsConnected() }, time.Second, time.Millisecond)
	select {
	case <-exited:
		t.Fatal("halt returned control before reset")
	case <-time.After(20 * time.Millisecond):
	}

	close(reset)
	select {
	case code := <-exited:
		assert.Equal(t, 1, code)
	case <-time.After(time.Second):
		t.Fatal("halt did not exit after reset")
	}
	select {
	case <-halted:
	case <-time.After(time.Second):
		t.Fatal("halt goroutine still running")
	}
}

func TestErrNoResponse(t *testing.T) {
	assert.True(t, errors.Is(ErrNoResponse, sensor.ErrNotResponding))
}
