// Package clock provides the facility wall clock used by the ordering flow.
package clock

import (
	"fmt"
	"time"

	// Embed the zone database so the binary does not depend on the host.
	_ "time/tzdata"
)

type Clock interface {
	Now() time.Time
}

type wallClock struct {
	loc *time.Location
}

// New returns a clock that reports the current time in loc.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return wallClock{loc: loc}
}

func (c wallClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Fixed always returns t. Handy in tests.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}

func LoadFacilityZone(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load facility zone %q: %w", name, err)
	}
	return loc, nil
}
