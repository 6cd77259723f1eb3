package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 10, hour, minute, 0, 0, time.UTC)
}

func TestIsBookable(t *testing.T) {
	tests := []struct {
		name string
		slot Slot
		now  time.Time
		want bool
	}{
		{"inside lead window across the hour", Slot{Time: "15:00", LimitSlot: 5}, at(14, 50), false},
		{"exactly fifteen minutes ahead", Slot{Time: "15:05", LimitSlot: 5}, at(14, 50), true},
		{"later on the next hour", Slot{Time: "15:30", LimitSlot: 5}, at(14, 50), true},
		{"same hour with enough lead", Slot{Time: "13:45", LimitSlot: 5}, at(13, 30), true},
		{"same hour too close", Slot{Time: "13:40", LimitSlot: 5}, at(13, 30), false},
		{"already passed", Slot{Time: "12:00", LimitSlot: 5}, at(13, 0), false},
		{"after cutover any slot", Slot{Time: "12:00", LimitSlot: 5}, at(15, 0), true},
		{"after cutover still needs capacity", Slot{Time: "12:00", LimitSlot: 5, Actual: 5}, at(16, 0), false},
		{"full slot", Slot{Time: "14:00", LimitSlot: 2, Actual: 2}, at(10, 0), false},
		{"zero capacity", Slot{Time: "14:00", LimitSlot: 0}, at(10, 0), false},
		{"malformed time", Slot{Time: "2pm", LimitSlot: 3}, at(10, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.slot
			assert.Equal(t, tt.want, IsBookable(&s, tt.now))
		})
	}
}

func TestParseTime(t *testing.T) {
	h, m, err := ParseTime("09:05")
	assert.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 5, m)

	_, _, err = ParseTime("25:00")
	assert.ErrorIs(t, err, ErrInvalidTime)
}
