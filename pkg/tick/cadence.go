package tick

// Cadence paces a periodic activity with a non-blocking gate.
// The zero value fires immediately on the first Due call with Every == 0.
type Cadence struct {
	Every uint32 // Minimum interval between activations (ms)

	start Tick
}

// NewCadence creates a cadence with the given period.
func NewCadence(every uint32) Cadence {
	return Cadence{Every: every}
}

// Reset starts a new timing window at now.
func (c *Cadence) Reset(now Tick) {
	c.start = now
}

// Start returns the tick at which the current window began.
func (c *Cadence) Start() Tick {
	return c.start
}

// Due reports whether the window has elapsed. When it has, the window restarts
// at now, so the next activation is at least Every ms later.
func (c *Cadence) Due(now Tick) bool {
	if !Elapsed(now, c.start, c.Every) {
		return false
	}
	c.start = now
	return true
}
