package view

import "math"

// MaxFrameDeltaMs caps a single frame step so a stalled window does not
// teleport every light.
const MaxFrameDeltaMs = 100

// FrameClock turns a seconds source into whole-millisecond frame deltas.
// Sub-millisecond remainders carry into the next Tick.
type FrameClock struct {
	now   func() float64
	last  float64
	carry float64
	maxMs uint32
}

// NewFrameClock starts measuring from now(). maxMs of 0 disables the cap.
func NewFrameClock(now func() float64, maxMs uint32) *FrameClock {
	return &FrameClock{now: now, last: now(), maxMs: maxMs}
}

// Tick returns the milliseconds elapsed since the previous Tick.
func (c *FrameClock) Tick() uint32 {
	t := c.now()
	elapsed := (t-c.last)*1000 + c.carry
	c.last = t
	if elapsed <= 0 || math.IsNaN(elapsed) {
		c.carry = 0
		return 0
	}
	whole := math.Floor(elapsed)
	c.carry = elapsed - whole
	if c.maxMs > 0 && whole > float64(c.maxMs) {
		c.carry = 0
		return c.maxMs
	}
	return uint32(whole)
}
