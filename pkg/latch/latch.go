package latch

import "sync/atomic"

// updatedBit marks a value that has not been taken yet.
const updatedBit = uint64(1) << 32

// Latch is a single-slot mailbox between a conversion-complete producer
// (interrupt handler or sampler goroutine) and one mainline consumer.
//
// Value and flag share one 64-bit word so the consumer never observes a torn
// update. Only OnConversionComplete sets the flag, only TryTake clears it.
// A completion that arrives before the previous value was taken replaces it.
type Latch struct {
	slot     atomic.Uint64
	overruns atomic.Uint32
}

// OnConversionComplete publishes raw and marks it updated. Producer side only.
func (l *Latch) OnConversionComplete(raw uint32) {
	prev := l.slot.Swap(updatedBit | uint64(raw))
	if prev&updatedBit != 0 {
		l.overruns.Add(1)
	}
}

// TryTake returns the pending value and clears the updated flag. It returns false
// when nothing new arrived since the last take. Consumer side only.
func (l *Latch) TryTake() (uint32, bool) {
	for {
		cur := l.slot.Load()
		if cur&updatedBit == 0 {
			return 0, false
		}
		// Keep the value, drop the flag. If the producer raced us, retry with
		// the newer value.
		if l.slot.CompareAndSwap(cur, cur&^updatedBit) {
			return uint32(cur), true
		}
	}
}

// Overruns returns how many completions replaced a value nobody had taken.
func (l *Latch) Overruns() uint32 {
	return l.overruns.Load()
}
