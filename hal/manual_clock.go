package hal

import "sync/atomic"

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	ms atomic.Uint64
}

// NewManualClock returns a clock reading start.
func NewManualClock(start uint64) *ManualClock {
	c := &ManualClock{}
	c.ms.Store(start)
	return c
}

func (c *ManualClock) NowMS() uint64 { return c.ms.Load() }

// Advance moves the clock forward by d milliseconds.
func (c *ManualClock) Advance(d uint64) uint64 {
	return c.ms.Add(d)
}

// Set moves the clock to ms. Moving it backwards panics.
func (c *ManualClock) Set(ms uint64) {
	for {
		cur := c.ms.Load()
		if ms < cur {
			panic("hal: manual clock moved backwards")
		}
		if c.ms.CompareAndSwap(cur, ms) {
			return
		}
	}
}
