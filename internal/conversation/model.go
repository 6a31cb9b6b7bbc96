// Package conversation owns the per-conversation state machine: it turns
// an inbound message plus accumulated lead state into updated lead data, a
// stage transition and an outbound reply.
package conversation

import (
	"time"

	"github.com/stagehand-ai/stagehand/internal/calendar"
	"github.com/stagehand-ai/stagehand/internal/lead"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of the conversation transcript.
type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Buttons   []string  `json:"buttons,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the unit of mutable state for one (tenant, user) pair.
// AvailableSlots is non-nil only while a slot choice is pending; its
// presence is itself the state flag the engine routes on.
type Conversation struct {
	TenantID       string          `json:"tenant_id"`
	UserID         string          `json:"user_id"`
	DisplayName    string          `json:"display_name,omitempty"`
	Messages       []Message       `json:"messages"`
	Lead           *lead.Profile   `json:"lead"`
	AvailableSlots []calendar.Slot `json:"available_slots,omitempty"`
	StartedAt      time.Time       `json:"started_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewConversation creates a conversation with an empty lead profile.
func NewConversation(tenantID, userID, displayName string, now time.Time) *Conversation {
	return &Conversation{
		TenantID:    tenantID,
		UserID:      userID,
		DisplayName: displayName,
		Lead:        lead.NewProfile(now),
		StartedAt:   now,
		UpdatedAt:   now,
	}
}

// Append adds a message to the transcript.
func (c *Conversation) Append(role, text string, buttons []string, now time.Time) {
	c.Messages = append(c.Messages, Message{
		Role:      role,
		Text:      text,
		Buttons:   buttons,
		Timestamp: now,
	})
	c.UpdatedAt = now
}

// UserMessageCount counts inbound messages.
func (c *Conversation) UserMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// SlotsPending reports whether a slot offer awaits a choice.
func (c *Conversation) SlotsPending() bool {
	return len(c.AvailableSlots) > 0
}

// ClearSlots drops any pending slot offer.
func (c *Conversation) ClearSlots() {
	c.AvailableSlots = nil
}
