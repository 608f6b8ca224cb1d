package logic

import "time"

// BlinkClock owns the timestamp of the last blink.
type BlinkClock struct {
	last time.Time
	set  bool
}

// RecordBlink stores now as the last blink. Last write wins.
func (c *BlinkClock) RecordBlink(now time.Time) {
	c.last = now
	c.set = true
}

// ElapsedSinceLastBlink returns the time since the last blink.
// If no blink is stored, now becomes the last blink and initialized is true.
// Elapsed is never negative.
func (c *BlinkClock) ElapsedSinceLastBlink(now time.Time) (elapsed time.Duration, initialized bool) {
	if !c.set {
		c.RecordBlink(now)
		return 0, true
	}

	elapsed = now.Sub(c.last)
	if elapsed < 0 {
		return 0, false
	}
	return elapsed, false
}

// LastBlink returns the stored timestamp and whether one is set.
func (c *BlinkClock) LastBlink() (time.Time, bool) {
	return c.last, c.set
}

// Reset clears the stored timestamp.
func (c *BlinkClock) Reset() {
	c.last = time.Time{}
	c.set = false
}
