// Package booking creates and confirms slot reservations, defending
// against the race between offering a slot and confirming it.
package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ErrBookingNotFound is returned when a booking id is unknown.
var ErrBookingNotFound = errors.New("booking: not found")

// Booking is a reservation record. It is created pending once a slot has
// been re-validated as free and confirmed only after the external calendar
// write succeeds.
type Booking struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"tenant_id"`
	LeadID          string    `json:"lead_id"`
	SlotID          string    `json:"slot_id"`
	StartsAt        time.Time `json:"starts_at"`
	Status          Status    `json:"status"`
	FirstSession    bool      `json:"first_session"`
	CalendarEventID string    `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Repository stores booking records.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	Confirm(ctx context.Context, id, calendarEventID string) error
	HasConfirmed(ctx context.Context, tenantID, leadID string) (bool, error)
	CountByStatus(ctx context.Context, tenantID string) (map[Status]int, error)
}

// MemoryRepository is an in-memory Repository.
type MemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]*Booking
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bookings: make(map[string]*Booking)}
}

// Create stores a new booking, assigning an id when absent.
func (r *MemoryRepository) Create(ctx context.Context, b *Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	r.mu.Lock()
	r.bookings[b.ID] = b
	r.mu.Unlock()
	return nil
}

// Confirm marks a booking confirmed with its external calendar reference.
func (r *MemoryRepository) Confirm(ctx context.Context, id, calendarEventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = StatusConfirmed
	b.CalendarEventID = calendarEventID
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// HasConfirmed reports whether the lead already has a confirmed booking.
func (r *MemoryRepository) HasConfirmed(ctx context.Context, tenantID, leadID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bookings {
		if b.TenantID == tenantID && b.LeadID == leadID && b.Status == StatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}

// CountByStatus tallies a tenant's bookings per status.
func (r *MemoryRepository) CountByStatus(ctx context.Context, tenantID string) (map[Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[Status]int)
	for _, b := range r.bookings {
		if b.TenantID == tenantID {
			counts[b.Status]++
		}
	}
	return counts, nil
}
