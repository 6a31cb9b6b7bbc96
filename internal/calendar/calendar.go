// Package calendar computes bookable time slots from a tenant's
// working-hours grid minus the busy intervals of an external calendar,
// and commits reservations against that calendar.
package calendar

import (
	"context"
	"fmt"
	"time"
)

// Interval is a half-open busy window [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Event is a reservation to be written to the external calendar.
type Event struct {
	Summary     string
	Description string
	Start       time.Time
	Duration    time.Duration
	Timezone    string
}

// Source is the external calendar boundary. BusyIntervals must be safe to
// call repeatedly; the booking path calls it at offer time and again at
// confirm time to detect races.
type Source interface {
	BusyIntervals(ctx context.Context, from, to time.Time) ([]Interval, error)
	CreateEvent(ctx context.Context, ev Event) (string, error)
}

// Slot is a candidate reservation window. Slots are value objects: the ID
// is derived from the tenant-local date and time, so re-computation yields
// comparable values.
type Slot struct {
	ID          string        `json:"id"`
	StartsAt    time.Time     `json:"starts_at"`
	Display     string        `json:"display"`
	ButtonLabel string        `json:"button_label"`
	Duration    time.Duration `json:"duration"`
}

// NewSlot builds a slot from a tenant-local start time.
func NewSlot(local time.Time, duration time.Duration) Slot {
	return Slot{
		ID:          fmt.Sprintf("slot_%s", local.Format("2006-01-02-15-04")),
		StartsAt:    local,
		Display:     local.Format("Monday 02/01 - 15:04"),
		ButtonLabel: local.Format("Mon 02/01 15:04"),
		Duration:    duration,
	}
}

// Overlaps applies the half-open interval overlap test: the slot overlaps
// a busy interval when its start falls within [busy.Start, busy.End), its
// end falls within (busy.Start, busy.End], or it fully contains the busy
// interval.
func (s Slot) Overlaps(busy Interval) bool {
	end := s.StartsAt.Add(s.Duration)
	if !s.StartsAt.Before(busy.Start) && s.StartsAt.Before(busy.End) {
		return true
	}
	if end.After(busy.Start) && !end.After(busy.End) {
		return true
	}
	if !s.StartsAt.After(busy.Start) && !end.Before(busy.End) {
		return true
	}
	return false
}
