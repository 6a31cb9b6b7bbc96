package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-ai/stagehand/internal/tenant"
)

func romeLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	return loc
}

func testPolicy() tenant.CalendarPolicy {
	return tenant.CalendarPolicy{
		Timezone: "Europe/Rome",
		WorkingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday,
		},
		Hours:         []int{9, 10, 14, 15},
		SlotDuration:  time.Hour,
		LookaheadDays: 7,
	}
}

// fixedNow is Monday 2025-03-10 12:00 in Rome.
func fixedNow(t *testing.T) func() time.Time {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, romeLocation(t))
	return func() time.Time { return now }
}

func TestAvailableSkipsPastHours(t *testing.T) {
	r := NewResolver(NewFakeSource(), fixedNow(t))

	slots, err := r.Available(context.Background(), testPolicy())
	require.NoError(t, err)
	require.Len(t, slots, MaxOfferedSlots)

	// Morning hours of day zero are gone; the offer starts this afternoon.
	assert.Equal(t, "slot_2025-03-10-14-00", slots[0].ID)
	assert.Equal(t, "slot_2025-03-10-15-00", slots[1].ID)
	assert.Equal(t, "slot_2025-03-11-09-00", slots[2].ID)
	for _, s := range slots {
		assert.True(t, s.StartsAt.After(fixedNow(t)()))
	}
}

func TestAvailableSkipsBusyAndNonWorkingDays(t *testing.T) {
	loc := romeLocation(t)
	source := NewFakeSource()
	// Block Monday 14:00 and all of Tuesday morning.
	source.AddBusy(Interval{
		Start: time.Date(2025, 3, 10, 14, 0, 0, 0, loc),
		End:   time.Date(2025, 3, 10, 15, 0, 0, 0, loc),
	})
	source.AddBusy(Interval{
		Start: time.Date(2025, 3, 11, 8, 0, 0, 0, loc),
		End:   time.Date(2025, 3, 11, 12, 0, 0, 0, loc),
	})

	r := NewResolver(source, fixedNow(t))
	slots, err := r.Available(context.Background(), testPolicy())
	require.NoError(t, err)
	require.Len(t, slots, MaxOfferedSlots)

	assert.Equal(t, "slot_2025-03-10-15-00", slots[0].ID)
	assert.Equal(t, "slot_2025-03-11-14-00", slots[1].ID)
	assert.Equal(t, "slot_2025-03-11-15-00", slots[2].ID)

	for _, s := range slots {
		wd := s.StartsAt.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}

func TestAvailableIsIdempotent(t *testing.T) {
	r := NewResolver(NewFakeSource(), fixedNow(t))
	policy := testPolicy()

	first, err := r.Available(context.Background(), policy)
	require.NoError(t, err)
	second, err := r.Available(context.Background(), policy)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAvailableDisabledPolicy(t *testing.T) {
	r := NewResolver(NewFakeSource(), fixedNow(t))

	slots, err := r.Available(context.Background(), tenant.CalendarPolicy{})
	require.NoError(t, err)
	assert.Nil(t, slots)
}

func TestAvailableFullyBooked(t *testing.T) {
	loc := romeLocation(t)
	source := NewFakeSource()
	source.AddBusy(Interval{
		Start: time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
		End:   time.Date(2025, 3, 18, 0, 0, 0, 0, loc),
	})

	r := NewResolver(source, fixedNow(t))
	slots, err := r.Available(context.Background(), testPolicy())
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableBoundedByLookaheadWindow(t *testing.T) {
	loc := romeLocation(t)
	source := NewFakeSource()
	// Busy through the exact end of the lookahead window (Mon 17th 12:00).
	// The last day's later hours sit past the window edge, where no busy
	// data was fetched; they must not be offered.
	source.AddBusy(Interval{
		Start: time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
		End:   time.Date(2025, 3, 17, 12, 0, 0, 0, loc),
	})

	r := NewResolver(source, fixedNow(t))
	slots, err := r.Available(context.Background(), testPolicy())
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSourceError(t *testing.T) {
	source := NewFakeSource()
	source.FailReads(errors.New("calendar down"))

	r := NewResolver(source, fixedNow(t))
	_, err := r.Available(context.Background(), testPolicy())
	assert.Error(t, err)
}

func TestContains(t *testing.T) {
	slots := []Slot{
		NewSlot(time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC), time.Hour),
		NewSlot(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), time.Hour),
	}
	assert.True(t, Contains(slots, "slot_2025-03-10-14-00"))
	assert.False(t, Contains(slots, "slot_2025-03-10-16-00"))
	assert.False(t, Contains(nil, "slot_2025-03-10-14-00"))
}
