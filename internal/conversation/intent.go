package conversation

import (
	"strings"

	"github.com/stagehand-ai/stagehand/internal/lead"
	"github.com/stagehand-ai/stagehand/internal/tenant"
)

// Intent is the coarse classification of an inbound message.
type Intent string

// Built-in intents. Tenant trigger rules may emit any of these or a
// tenant-defined symbolic intent; the engine only special-cases the
// built-ins below.
const (
	IntentWelcome    Intent = "welcome"
	IntentQualifying Intent = "qualifying"
	IntentBooking    Intent = "booking"
	IntentGeneral    Intent = "general"
)

// ClassifyIntent resolves the intent of a message. Precedence: tenant
// trigger rules in declared order, then welcome on the very first
// message, then qualifying while mid-qualification, then general.
// firstMessage refers to the message being classified, so a first
// message that hits a trigger still gets the trigger's intent.
func ClassifyIntent(text string, stage lead.Stage, firstMessage bool, triggers []tenant.TriggerRule) Intent {
	lower := strings.ToLower(text)
	for _, rule := range triggers {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return Intent(rule.Intent)
			}
		}
	}
	if firstMessage {
		return IntentWelcome
	}
	if stage == lead.StageQualifying {
		return IntentQualifying
	}
	return IntentGeneral
}

// MatchAnswer scans a keyword-answer table and returns the first matching
// answer, used for both FAQ and objection rules.
func MatchAnswer(text string, rules []tenant.AnswerRule) (tenant.AnswerRule, bool) {
	lower := strings.ToLower(text)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return rule, true
			}
		}
	}
	return tenant.AnswerRule{}, false
}
