package tick

import (
	"sync/atomic"
	"time"
)

// Tick is a free-running millisecond counter. It wraps on overflow.
type Tick uint32

// Source provides the current tick. Implementations must be safe to read from
// any goroutine.
type Source interface {
	Now() Tick
}

// Ensure System implements Source.
var _ Source = (*System)(nil)

// Ensure Manual implements Source.
var _ Source = (*Manual)(nil)

// Elapsed reports whether at least d milliseconds passed between start and now.
// The difference is computed with unsigned wraparound subtraction so a window
// that straddles the 2^32 boundary is still measured correctly.
func Elapsed(now, start Tick, d uint32) bool {
	return uint32(now-start) >= d
}

// HasElapsed reports whether d milliseconds passed since start according to src.
func HasElapsed(src Source, start Tick, d uint32) bool {
	return Elapsed(src.Now(), start, d)
}

// System counts milliseconds since it was created.
type System struct {
	boot   time.Time
	offset uint32
}

// NewSystem creates a system tick source. offset is added to every reading, which
// allows starting close to the wrap point.
func NewSystem(offset uint32) *System {
	return &System{
		boot:   time.Now(),
		offset: offset,
	}
}

// Now returns milliseconds since boot truncated to 32 bits.
func (s *System) Now() Tick {
	ms := uint64(time.Since(s.boot).Milliseconds())
	return Tick(uint32(ms) + s.offset)
}

// Manual is a tick source advanced explicitly. Used for simulation and tests.
type Manual struct {
	now atomic.Uint32
}

// NewManual creates a manual clock starting at start.
func NewManual(start Tick) *Manual {
	m := &Manual{}
	m.now.Store(uint32(start))
	return m
}

// Now returns the current simulated tick.
func (m *Manual) Now() Tick {
	return Tick(m.now.Load())
}

// Advance moves the clock forward by ms and returns the new tick.
func (m *Manual) Advance(ms uint32) Tick {
	return Tick(m.now.Add(ms))
}

// Set jumps the clock to t.
func (m *Manual) Set(t Tick) {
	m.now.Store(uint32(t))
}
