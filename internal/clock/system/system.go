// Package system provides a real clock implementation.
package system

import "time"

// Clock implements watch.Clock using the wall clock in a fixed location.
// Trigger hours and the weekend rule are evaluated in this location.
type Clock struct {
	loc *time.Location
}

// New creates a Clock reporting time in loc; a nil loc means local time.
func New(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc}
}

// Now returns the current time in the clock's location.
func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}
