// Package tenant provides per-tenant configuration and its storage.
package tenant

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Template keys looked up in Config.Templates. Keys for field-collection
// prompts are derived with CollectTemplateKey.
const (
	TemplateWelcome       = "welcome"
	TemplateClosing       = "closing"
	TemplateAskPhone      = "ask_phone"
	TemplateSlotsOffer    = "slots_offer"
	TemplateSlotTaken     = "slot_taken"
	TemplateNoSlots       = "no_slots"
	TemplateBookedFirst   = "booked_first"
	TemplateBookedRegular = "booked_regular"
	TemplateBookingFailed = "booking_failed"
	TemplateInvalidChoice = "invalid_choice"
	TemplateNotUnderstood = "not_understood"

	// TemplateNotUnderstoodPhone answers garbled input while the phone
	// number is the field being collected.
	TemplateNotUnderstoodPhone = "not_understood_phone"
)

// CollectTemplateKey names the prompt template asking for a missing field,
// e.g. "collect_name".
func CollectTemplateKey(field string) string {
	return "collect_" + strings.ToLower(field)
}

// TriggerRule maps a set of keywords to a symbolic intent. Rules are
// evaluated in declared order; the first match wins.
type TriggerRule struct {
	Intent   string   `json:"intent"`
	Keywords []string `json:"keywords"`
}

// AnswerRule is a keyword-triggered canned answer, used for both FAQ and
// objection tables. Plain data, evaluated in declared order.
type AnswerRule struct {
	Topic    string   `json:"topic"`
	Keywords []string `json:"keywords"`
	Answer   string   `json:"answer"`
}

// AttributeRule maps keywords to one category of the tenant's closed
// attribute vocabulary.
type AttributeRule struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// CalendarPolicy defines the tenant's bookable working-hours grid.
type CalendarPolicy struct {
	Timezone      string         `json:"timezone"`
	WorkingDays   []time.Weekday `json:"working_days"`
	Hours         []int          `json:"hours"` // hour-of-day slot starts
	SlotDuration  time.Duration  `json:"slot_duration"`
	LookaheadDays int            `json:"lookahead_days"`
}

// Location resolves the policy timezone, defaulting to UTC.
func (p CalendarPolicy) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WorksOn reports whether the weekday is in the tenant's working-day set.
func (p CalendarPolicy) WorksOn(d time.Weekday) bool {
	for _, wd := range p.WorkingDays {
		if wd == d {
			return true
		}
	}
	return false
}

// Enabled reports whether the tenant has a usable calendar policy at all.
func (p CalendarPolicy) Enabled() bool {
	return len(p.WorkingDays) > 0 && len(p.Hours) > 0 && p.LookaheadDays > 0
}

// Config is the immutable per-tenant configuration, loaded once.
type Config struct {
	ID           string `json:"id"`
	BusinessName string `json:"business_name"`
	Industry     string `json:"industry"`

	RequiredFields []string `json:"required_fields"`
	OptionalFields []string `json:"optional_fields,omitempty"`
	// AttributeField is the tenant's name for the domain attribute
	// ("goal" for gyms, "issue" for dental practices).
	AttributeField      string          `json:"attribute_field"`
	AttributeVocabulary []AttributeRule `json:"attribute_vocabulary,omitempty"`

	Templates  map[string]string `json:"templates"`
	Triggers   []TriggerRule     `json:"triggers"`
	FAQ        []AnswerRule      `json:"faq,omitempty"`
	Objections []AnswerRule      `json:"objections,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`

	// FallbackReply is returned whenever the engine cannot produce a real
	// answer (internal failure, LLM unreachable, no rule matched at all).
	FallbackReply string `json:"fallback_reply"`

	// LLMSystemPrompt frames the generic fallback responder.
	LLMSystemPrompt string `json:"llm_system_prompt,omitempty"`

	Calendar CalendarPolicy `json:"calendar"`
}

// Validate checks the invariants a loaded config must satisfy.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("tenant: id is required")
	}
	if strings.TrimSpace(c.BusinessName) == "" {
		return errors.New("tenant: business name is required")
	}
	if len(c.RequiredFields) == 0 {
		return errors.New("tenant: at least one required field")
	}
	if strings.TrimSpace(c.FallbackReply) == "" {
		return errors.New("tenant: fallback reply is required")
	}
	for _, rule := range c.Triggers {
		if rule.Intent == "" || len(rule.Keywords) == 0 {
			return fmt.Errorf("tenant: malformed trigger rule %q", rule.Intent)
		}
	}
	if c.Calendar.Enabled() {
		for _, h := range c.Calendar.Hours {
			if h < 0 || h > 23 {
				return fmt.Errorf("tenant: calendar hour %d out of range", h)
			}
		}
		if c.Calendar.SlotDuration <= 0 {
			return errors.New("tenant: slot duration must be positive")
		}
	}
	return nil
}

// Template returns the named template, or "" when the tenant does not
// define it.
func (c *Config) Template(key string) string {
	return c.Templates[key]
}
