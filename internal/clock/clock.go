package clock

import "time"

// Clock supplies the current time. Use cases take one so tests can pin "today".
type Clock interface {
	Now() time.Time
}

type SystemClock struct {
	loc *time.Location
}

// NewSystemClock reports wall time in loc, or local time when loc is nil.
func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return &SystemClock{loc: loc}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}
