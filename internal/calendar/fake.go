package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FakeSource is an in-memory calendar used in tests and demo mode. Created
// events immediately become busy intervals, so a second caller racing for
// the same hour sees it taken.
type FakeSource struct {
	mu       sync.Mutex
	busy     []Interval
	events   []Event
	readErr  error
	writeErr error
}

// NewFakeSource creates an empty fake calendar.
func NewFakeSource() *FakeSource {
	return &FakeSource{}
}

// AddBusy marks an interval as busy.
func (f *FakeSource) AddBusy(iv Interval) {
	f.mu.Lock()
	f.busy = append(f.busy, iv)
	f.mu.Unlock()
}

// FailReads makes subsequent BusyIntervals calls return err (nil resets).
func (f *FakeSource) FailReads(err error) {
	f.mu.Lock()
	f.readErr = err
	f.mu.Unlock()
}

// FailWrites makes subsequent CreateEvent calls return err (nil resets).
func (f *FakeSource) FailWrites(err error) {
	f.mu.Lock()
	f.writeErr = err
	f.mu.Unlock()
}

// Events returns a copy of the events created so far.
func (f *FakeSource) Events() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Event, len(f.events))
	copy(out, f.events)
	return out
}

// BusyIntervals returns the recorded busy intervals that overlap the window.
func (f *FakeSource) BusyIntervals(ctx context.Context, from, to time.Time) ([]Interval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []Interval
	for _, iv := range f.busy {
		if iv.End.After(from) && iv.Start.Before(to) {
			out = append(out, iv)
		}
	}
	return out, nil
}

// CreateEvent records the event and blocks its window.
func (f *FakeSource) CreateEvent(ctx context.Context, ev Event) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return "", f.writeErr
	}
	f.events = append(f.events, ev)
	f.busy = append(f.busy, Interval{Start: ev.Start, End: ev.Start.Add(ev.Duration)})
	return "fake-" + uuid.NewString(), nil
}
