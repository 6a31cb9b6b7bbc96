package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSlotIdentity(t *testing.T) {
	rome, _ := time.LoadLocation("Europe/Rome")
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, rome)

	s := NewSlot(start, time.Hour)
	assert.Equal(t, "slot_2025-03-10-14-00", s.ID)
	assert.Equal(t, "Monday 10/03 - 14:00", s.Display)
	assert.Equal(t, "Mon 10/03 14:00", s.ButtonLabel)
	assert.Equal(t, time.Hour, s.Duration)

	// Recomputing the same local time yields the same identity.
	assert.Equal(t, s.ID, NewSlot(start, time.Hour).ID)
}

func TestSlotOverlaps(t *testing.T) {
	base := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	slot := NewSlot(base, time.Hour) // 14:00-15:00

	busy := func(startHour, endHour int) Interval {
		return Interval{
			Start: time.Date(2025, 3, 10, startHour, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 3, 10, endHour, 0, 0, 0, time.UTC),
		}
	}

	tests := []struct {
		name string
		busy Interval
		want bool
	}{
		{name: "identical window", busy: busy(14, 15), want: true},
		{name: "busy ends at slot start", busy: busy(13, 14), want: false},
		{name: "busy starts at slot end", busy: busy(15, 16), want: false},
		{name: "slot starts inside busy", busy: busy(13, 15), want: true},
		{name: "slot ends inside busy", busy: busy(14, 16), want: true},
		{name: "slot contains busy", busy: Interval{
			Start: time.Date(2025, 3, 10, 14, 15, 0, 0, time.UTC),
			End:   time.Date(2025, 3, 10, 14, 45, 0, 0, time.UTC),
		}, want: true},
		{name: "busy contains slot", busy: busy(13, 17), want: true},
		{name: "disjoint earlier", busy: busy(9, 10), want: false},
		{name: "disjoint later", busy: busy(18, 19), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slot.Overlaps(tt.busy))
		})
	}
}
