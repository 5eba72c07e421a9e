package scene

import "time"

// Clock measures wall-clock time between ticks.
type Clock struct {
	now  func() time.Time
	last time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Delta returns the seconds elapsed since the previous call, zero on the
// first.
func (c *Clock) Delta() float64 {
	t := c.now()
	if c.last.IsZero() {
		c.last = t
		return 0
	}
	dt := t.Sub(c.last).Seconds()
	c.last = t
	return dt
}
