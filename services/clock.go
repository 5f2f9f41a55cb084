package services

import "time"

// Clock supplies "today" as a civil date.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock creates a clock for loc; nil means UTC.
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return SystemClock{Location: loc}
}

func (c SystemClock) Today() time.Time {
	return CivilDate(time.Now().In(c.Location))
}

// FixedClock always reports the same date.
type FixedClock struct {
	Date time.Time
}

func (c *FixedClock) Today() time.Time { return CivilDate(c.Date) }

// Advance moves the clock forward by n days.
func (c *FixedClock) Advance(n int) { c.Date = c.Date.AddDate(0, 0, n) }
