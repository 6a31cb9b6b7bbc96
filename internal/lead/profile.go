// Package lead holds the structured profile accumulated for a prospect
// over the course of a conversation.
package lead

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stage is the lead's position in the qualification/booking funnel.
type Stage string

const (
	StageInitial    Stage = "initial"
	StageQualifying Stage = "qualifying"
	StageBooking    Stage = "booking"
	StageBooked     Stage = "booked"
	StageClosing    Stage = "closing"
)

// Profile is the structured data extracted from a conversation. Identity
// fields are optional and populated incrementally; Attribute holds the
// tenant-defined domain attribute (a fitness goal, a dental issue, ...).
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Attribute string    `json:"attribute,omitempty"`
	Stage     Stage     `json:"stage"`
	Qualified bool      `json:"qualified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Update is a partial set of extracted values. Empty strings mean "nothing
// extracted" and never clear an existing value.
type Update struct {
	Name      string
	Phone     string
	Email     string
	Attribute string
}

// Empty reports whether the update carries no values at all.
func (u Update) Empty() bool {
	return u.Name == "" && u.Phone == "" && u.Email == "" && u.Attribute == ""
}

// NewProfile creates an empty profile in the initial stage.
func NewProfile(now time.Time) *Profile {
	return &Profile{
		ID:        uuid.NewString(),
		Stage:     StageInitial,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Merge applies an update with first-write-wins semantics: a field that is
// already populated is never replaced. Returns true if any field changed.
//
// A user therefore cannot correct a misextracted name by restating it.
// That behavior is intentional and relied upon by callers.
func (p *Profile) Merge(u Update, now time.Time) bool {
	changed := false
	if p.Name == "" && u.Name != "" {
		p.Name = u.Name
		changed = true
	}
	if p.Phone == "" && u.Phone != "" {
		p.Phone = u.Phone
		changed = true
	}
	if p.Email == "" && u.Email != "" {
		p.Email = u.Email
		changed = true
	}
	if p.Attribute == "" && u.Attribute != "" {
		p.Attribute = u.Attribute
		changed = true
	}
	if changed {
		p.UpdatedAt = now
	}
	return changed
}

// Field returns the value of a named profile field. attributeField is the
// tenant's name for the domain attribute ("goal", "issue", ...).
func (p *Profile) Field(name, attributeField string) string {
	switch strings.ToLower(name) {
	case "name":
		return p.Name
	case "phone":
		return p.Phone
	case "email":
		return p.Email
	}
	if attributeField != "" && strings.EqualFold(name, attributeField) {
		return p.Attribute
	}
	return ""
}

// Recompute re-derives the qualified flag from the tenant's required-field
// list. Must be called after every mutation so the flag is never stale.
func (p *Profile) Recompute(required []string, attributeField string) {
	for _, field := range required {
		if p.Field(field, attributeField) == "" {
			p.Qualified = false
			return
		}
	}
	p.Qualified = true
}

// MissingFields returns the required fields not yet populated, in the
// tenant's declared order.
func (p *Profile) MissingFields(required []string, attributeField string) []string {
	var missing []string
	for _, field := range required {
		if p.Field(field, attributeField) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// Progress returns the percentage of required fields populated.
func (p *Profile) Progress(required []string, attributeField string) int {
	if len(required) == 0 {
		return 100
	}
	done := 0
	for _, field := range required {
		if p.Field(field, attributeField) != "" {
			done++
		}
	}
	return done * 100 / len(required)
}
