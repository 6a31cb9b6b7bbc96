package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/stagehand-ai/stagehand/internal/tenant"
)

// MaxOfferedSlots bounds how many slots are presented in one offer.
const MaxOfferedSlots = 3

// Resolver computes available slots for a tenant calendar policy. It has
// no side effects and is safely re-callable, which the booking path relies
// on for its optimistic re-check.
type Resolver struct {
	source Source
	now    func() time.Time
}

// NewResolver creates a resolver over the given calendar source. now may
// be nil, in which case time.Now is used.
func NewResolver(source Source, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{source: source, now: now}
}

// Available returns at most MaxOfferedSlots bookable slots, chronologically
// ascending. A slot survives when its weekday is in the working-day set,
// its start is strictly after now, and it overlaps no busy interval.
func (r *Resolver) Available(ctx context.Context, policy tenant.CalendarPolicy) ([]Slot, error) {
	if !policy.Enabled() {
		return nil, nil
	}
	loc := policy.Location()
	now := r.now().In(loc)
	windowEnd := now.AddDate(0, 0, policy.LookaheadDays)

	busy, err := r.source.BusyIntervals(ctx, now, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("calendar: list busy intervals: %w", err)
	}

	var slots []Slot
	for dayOffset := 0; dayOffset <= policy.LookaheadDays; dayOffset++ {
		day := now.AddDate(0, 0, dayOffset)
		if !policy.WorksOn(day.Weekday()) {
			continue
		}
		for _, hour := range policy.Hours {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, loc)
			if !start.After(now) {
				continue
			}
			// The busy fetch stops at windowEnd; candidates past it
			// would be unverified, so they are never offered.
			if !start.Before(windowEnd) {
				continue
			}
			candidate := NewSlot(start, policy.SlotDuration)
			if overlapsAny(candidate, busy) {
				continue
			}
			slots = append(slots, candidate)
			if len(slots) == MaxOfferedSlots {
				return slots, nil
			}
		}
	}
	return slots, nil
}

func overlapsAny(s Slot, busy []Interval) bool {
	for _, b := range busy {
		if s.Overlaps(b) {
			return true
		}
	}
	return false
}

// Contains reports whether a slot with the given id is present in a slot
// list. Slots compare by identity string.
func Contains(slots []Slot, id string) bool {
	for _, s := range slots {
		if s.ID == id {
			return true
		}
	}
	return false
}
