package slot

import (
	"fmt"
	"time"
)

// Slot is a pickup window. Actual counts confirmed orders since the last
// daily reset and never exceeds LimitSlot after a successful reservation.
type Slot struct {
	ID        uint   `json:"id"`
	Time      string `json:"time"`
	LimitSlot int    `json:"limitSlot"`
	Actual    int    `json:"actual"`
}

func (s *Slot) HasCapacity() bool {
	return s.Actual < s.LimitSlot
}

// Clock returns the hour and minute encoded in Time ("HH:MM").
func (s *Slot) Clock() (hour, minute int, err error) {
	return ParseTime(s.Time)
}

func ParseTime(v string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, v)
	}
	return t.Hour(), t.Minute(), nil
}

const (
	// CutoverHour is the hour of the daily reset. From then on the
	// registry offers the next day's slots.
	CutoverHour = 15
	LeadMinutes = 15
)

// IsBookable reports whether a customer may still pick s at now. now must
// already be in the facility zone. Before the cutover a slot needs at
// least LeadMinutes between now and its start, also across an hour
// boundary, so 14:50 cannot book 15:00 but can book 15:05.
func IsBookable(s *Slot, now time.Time) bool {
	if !s.HasCapacity() {
		return false
	}
	hour, minute, err := s.Clock()
	if err != nil {
		return false
	}
	if now.Hour() >= CutoverHour {
		return true
	}

	nowMin := now.Hour()*60 + now.Minute()
	slotMin := hour*60 + minute
	return nowMin+LeadMinutes <= slotMin
}

type NewSlotInput struct {
	Time      string
	LimitSlot int
}
