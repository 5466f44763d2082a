package services

import "time"

// SystemClock reads the wall clock in a fixed time zone.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock creates a clock for loc, or the host zone when loc is nil.
func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return &SystemClock{loc: loc}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}
