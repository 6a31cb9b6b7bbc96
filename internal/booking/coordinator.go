package booking

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/stagehand-ai/stagehand/internal/calendar"
	"github.com/stagehand-ai/stagehand/internal/lead"
	"github.com/stagehand-ai/stagehand/internal/tenant"
	"github.com/stagehand-ai/stagehand/pkg/logging"
)

var coordinatorTracer = otel.Tracer("stagehand.internal.booking")

// Outcome classifies the result of a slot choice.
type Outcome int

const (
	// OutcomeInvalidChoice: the ordinal is outside the offered list.
	OutcomeInvalidChoice Outcome = iota
	// OutcomeSlotTaken: the chosen slot vanished between offer and
	// confirm; Fresh carries the re-offer list (possibly empty).
	OutcomeSlotTaken
	// OutcomeConfirmed: the reservation was committed to the calendar.
	OutcomeConfirmed
	// OutcomeCalendarError: the calendar write failed; the booking record
	// stays pending for human follow-up.
	OutcomeCalendarError
)

// String names the outcome for logs and metric labels.
func (o Outcome) String() string {
	switch o {
	case OutcomeInvalidChoice:
		return "invalid_choice"
	case OutcomeSlotTaken:
		return "slot_taken"
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeCalendarError:
		return "calendar_error"
	}
	return "unknown"
}

// ConfirmParams carries one slot-choice confirmation attempt.
type ConfirmParams struct {
	TenantID         string
	Lead             *lead.Profile
	Offered          []calendar.Slot
	Ordinal          int // 1-based index into Offered
	Policy           tenant.CalendarPolicy
	EventSummary     string
	EventDescription string
}

// ConfirmResult reports what happened and what the caller should say.
type ConfirmResult struct {
	Outcome      Outcome
	Chosen       calendar.Slot
	Fresh        []calendar.Slot
	Booking      *Booking
	FirstSession bool
}

// Coordinator validates a user's slot choice against freshly re-fetched
// availability and commits the reservation. The re-check is the sole
// concurrency-safety mechanism: no locking, the external calendar is the
// final arbiter.
type Coordinator struct {
	repo     Repository
	source   calendar.Source
	resolver *calendar.Resolver
	logger   *logging.Logger
}

// NewCoordinator creates a coordinator over the given repository, calendar
// source and resolver.
func NewCoordinator(repo Repository, source calendar.Source, resolver *calendar.Resolver, logger *logging.Logger) *Coordinator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Coordinator{repo: repo, source: source, resolver: resolver, logger: logger}
}

// ConfirmChoice resolves the chosen slot by ordinal, re-checks that its
// identity string is still present in fresh availability, then creates a
// pending booking and writes the calendar event. Only a successful write
// confirms the booking.
func (c *Coordinator) ConfirmChoice(ctx context.Context, p ConfirmParams) ConfirmResult {
	ctx, span := coordinatorTracer.Start(ctx, "booking.confirm_choice")
	defer span.End()
	span.SetAttributes(
		attribute.String("stagehand.tenant_id", p.TenantID),
		attribute.Int("stagehand.ordinal", p.Ordinal),
	)

	if p.Ordinal < 1 || p.Ordinal > len(p.Offered) {
		return ConfirmResult{Outcome: OutcomeInvalidChoice}
	}
	chosen := p.Offered[p.Ordinal-1]
	span.SetAttributes(attribute.String("stagehand.slot_id", chosen.ID))

	fresh, err := c.resolver.Available(ctx, p.Policy)
	if err != nil {
		// Availability unknown: treat like a failed commit rather than
		// double-booking on stale data.
		span.RecordError(err)
		c.logger.Error("availability re-check failed", "tenant_id", p.TenantID, "error", err)
		return ConfirmResult{Outcome: OutcomeCalendarError, Chosen: chosen}
	}
	if !calendar.Contains(fresh, chosen.ID) {
		c.logger.Info("slot lost to concurrent booking",
			"tenant_id", p.TenantID, "slot_id", chosen.ID)
		return ConfirmResult{Outcome: OutcomeSlotTaken, Chosen: chosen, Fresh: fresh}
	}

	first, err := c.firstSession(ctx, p.TenantID, p.Lead.ID)
	if err != nil {
		span.RecordError(err)
		first = false
	}

	record := &Booking{
		TenantID:     p.TenantID,
		LeadID:       p.Lead.ID,
		SlotID:       chosen.ID,
		StartsAt:     chosen.StartsAt,
		Status:       StatusPending,
		FirstSession: first,
	}
	if err := c.repo.Create(ctx, record); err != nil {
		span.RecordError(err)
		c.logger.Error("create booking record failed", "tenant_id", p.TenantID, "error", err)
		return ConfirmResult{Outcome: OutcomeCalendarError, Chosen: chosen}
	}

	eventID, err := c.source.CreateEvent(ctx, calendar.Event{
		Summary:     p.EventSummary,
		Description: p.EventDescription,
		Start:       chosen.StartsAt,
		Duration:    chosen.Duration,
		Timezone:    p.Policy.Timezone,
	})
	if err != nil {
		// Not retried automatically: the pending record is the signal for
		// human follow-up.
		span.RecordError(err)
		c.logger.Error("calendar write failed",
			"tenant_id", p.TenantID, "booking_id", record.ID, "slot_id", chosen.ID, "error", err)
		return ConfirmResult{Outcome: OutcomeCalendarError, Chosen: chosen, Booking: record, FirstSession: first}
	}

	if err := c.repo.Confirm(ctx, record.ID, eventID); err != nil {
		span.RecordError(err)
		c.logger.Error("confirm booking record failed", "booking_id", record.ID, "error", err)
	} else {
		record.Status = StatusConfirmed
		record.CalendarEventID = eventID
		record.UpdatedAt = time.Now().UTC()
	}

	c.logger.Info("booking confirmed",
		"tenant_id", p.TenantID, "lead_id", p.Lead.ID,
		"booking_id", record.ID, "slot_id", chosen.ID, "first_session", first)
	return ConfirmResult{Outcome: OutcomeConfirmed, Chosen: chosen, Booking: record, FirstSession: first}
}

// firstSession reports whether this would be the lead's first confirmed
// booking (the tenant's free-trial framing).
func (c *Coordinator) firstSession(ctx context.Context, tenantID, leadID string) (bool, error) {
	booked, err := c.repo.HasConfirmed(ctx, tenantID, leadID)
	if err != nil {
		return false, err
	}
	return !booked, nil
}
