package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/stagehand-ai/stagehand/internal/booking"
	"github.com/stagehand-ai/stagehand/internal/calendar"
	"github.com/stagehand-ai/stagehand/internal/lead"
	"github.com/stagehand-ai/stagehand/internal/llm"
	"github.com/stagehand-ai/stagehand/internal/observability/metrics"
	"github.com/stagehand-ai/stagehand/internal/tenant"
	"github.com/stagehand-ai/stagehand/pkg/logging"
)

var engineTracer = otel.Tracer("stagehand.internal.conversation")

// llmHistoryWindow bounds how much transcript the fallback responder sees.
const llmHistoryWindow = 10

const (
	defaultCalendarTimeout = 8 * time.Second
	defaultLLMTimeout      = 10 * time.Second
)

// Deps wires the engine's collaborators. LLM and Metrics are optional.
type Deps struct {
	Conversations   Store
	Resolver        *calendar.Resolver
	Coordinator     *booking.Coordinator
	LLM             llm.Client
	Metrics         *metrics.ConversationMetrics
	Logger          *logging.Logger
	Now             func() time.Time
	CalendarTimeout time.Duration
	LLMTimeout      time.Duration
}

// Engine drives one message through classification, extraction, stage
// logic and reply rendering. It is stateless between calls; all mutable
// state lives in the conversation store.
type Engine struct {
	convs           Store
	resolver        *calendar.Resolver
	coordinator     *booking.Coordinator
	llm             llm.Client
	metrics         *metrics.ConversationMetrics
	logger          *logging.Logger
	now             func() time.Time
	calendarTimeout time.Duration
	llmTimeout      time.Duration
}

// NewEngine creates an engine from its dependency set.
func NewEngine(d Deps) *Engine {
	if d.Logger == nil {
		d.Logger = logging.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.CalendarTimeout <= 0 {
		d.CalendarTimeout = defaultCalendarTimeout
	}
	if d.LLMTimeout <= 0 {
		d.LLMTimeout = defaultLLMTimeout
	}
	return &Engine{
		convs:           d.Conversations,
		resolver:        d.Resolver,
		coordinator:     d.Coordinator,
		llm:             d.LLM,
		metrics:         d.Metrics,
		logger:          d.Logger,
		now:             d.Now,
		calendarTimeout: d.CalendarTimeout,
		llmTimeout:      d.LLMTimeout,
	}
}

// Inbound is one user message addressed to a tenant.
type Inbound struct {
	TenantID    string
	UserID      string
	DisplayName string
	Text        string
}

// Reply is the engine's outbound answer. Buttons, when present, are
// choice labels the channel layer renders as a numbered list.
type Reply struct {
	Text    string
	Buttons []string
	Intent  Intent
	Stage   lead.Stage
}

// ProcessMessage runs the full pipeline for one inbound message and
// always produces a reply; internal failures degrade to the tenant's
// fallback text rather than surfacing as errors.
func (e *Engine) ProcessMessage(ctx context.Context, cfg *tenant.Config, in Inbound) Reply {
	ctx, span := engineTracer.Start(ctx, "conversation.process_message")
	defer span.End()
	span.SetAttributes(
		attribute.String("stagehand.tenant_id", cfg.ID),
		attribute.String("stagehand.user_id", in.UserID),
	)
	start := e.now()

	conv := e.loadOrCreate(ctx, cfg, in)
	firstMessage := conv.UserMessageCount() == 0
	conv.Append(RoleUser, in.Text, nil, e.now())

	trimmed := strings.TrimSpace(in.Text)
	var reply Reply
	handled := false
	if conv.SlotsPending() {
		if ordinal, ok := parseOrdinal(trimmed); ok {
			reply = e.handleSlotChoice(ctx, cfg, conv, ordinal)
			handled = true
		}
	}
	if !handled {
		reply = e.respond(ctx, cfg, conv, trimmed, firstMessage)
	}
	reply.Stage = conv.Lead.Stage

	conv.Append(RoleAssistant, reply.Text, reply.Buttons, e.now())
	if err := e.convs.Save(ctx, conv); err != nil {
		span.RecordError(err)
		e.logger.Error("save conversation failed",
			"tenant_id", cfg.ID, "user_id", in.UserID, "error", err)
	}

	e.metrics.ObserveMessage(string(reply.Intent), string(conv.Lead.Stage))
	e.metrics.ObserveProcessLatency(string(conv.Lead.Stage), e.now().Sub(start).Seconds())
	return reply
}

func (e *Engine) loadOrCreate(ctx context.Context, cfg *tenant.Config, in Inbound) *Conversation {
	conv, err := e.convs.Get(ctx, cfg.ID, in.UserID)
	if err != nil {
		if !errors.Is(err, ErrConversationNotFound) {
			e.logger.Error("load conversation failed",
				"tenant_id", cfg.ID, "user_id", in.UserID, "error", err)
		}
		conv = NewConversation(cfg.ID, in.UserID, in.DisplayName, e.now())
	}
	if conv.DisplayName == "" {
		conv.DisplayName = in.DisplayName
	}
	return conv
}

// respond handles every message that is not a pending slot choice.
// Objection and FAQ tables outrank stage logic so a question mid-funnel
// gets its answer instead of another qualification prompt.
func (e *Engine) respond(ctx context.Context, cfg *tenant.Config, conv *Conversation, text string, firstMessage bool) Reply {
	p := conv.Lead

	// Garbled input is answered before extraction so keyboard noise is
	// never captured as a name.
	if isConfusedMessage(text) {
		return Reply{Text: e.confusedReply(cfg, p), Intent: IntentGeneral}
	}

	if p.Merge(ExtractUpdates(text, p, cfg), e.now()) {
		p.Recompute(cfg.RequiredFields, cfg.AttributeField)
	}
	if p.Stage == lead.StageInitial && p.Name != "" {
		p.Stage = lead.StageQualifying
	}

	if rule, ok := MatchAnswer(text, cfg.Objections); ok {
		return Reply{Text: e.render(rule.Answer, cfg, p, nil), Intent: IntentGeneral}
	}
	if rule, ok := MatchAnswer(text, cfg.FAQ); ok {
		return Reply{Text: e.render(rule.Answer, cfg, p, nil), Intent: IntentGeneral}
	}

	intent := ClassifyIntent(text, p.Stage, firstMessage, cfg.Triggers)
	switch intent {
	case IntentWelcome:
		// A greeting alone does not open the funnel; the stage moves
		// when a name lands or a qualifying intent fires.
		if tpl := cfg.Template(tenant.TemplateWelcome); tpl != "" {
			return Reply{Text: e.render(tpl, cfg, p, nil), Intent: intent}
		}
		return e.qualify(ctx, cfg, conv, intent)
	case IntentBooking:
		return e.advanceBooking(ctx, cfg, conv, intent)
	case IntentQualifying:
		return e.qualify(ctx, cfg, conv, intent)
	case IntentGeneral:
		// fall through below
	default:
		// Tenant-defined trigger intents answer from the FAQ table by
		// topic when the keyword scan above did not already hit.
		if rule, ok := answerByTopic(string(intent), cfg.FAQ); ok {
			return Reply{Text: e.render(rule.Answer, cfg, p, nil), Intent: intent}
		}
	}

	if p.Qualified && p.Stage == lead.StageClosing {
		return Reply{Text: e.templateOrFallback(cfg, p, tenant.TemplateClosing, nil), Intent: intent}
	}
	return e.llmReply(ctx, cfg, conv, intent)
}

// qualify prompts for the next missing required field, or moves the lead
// forward once nothing is missing.
func (e *Engine) qualify(ctx context.Context, cfg *tenant.Config, conv *Conversation, intent Intent) Reply {
	p := conv.Lead
	missing := p.MissingFields(cfg.RequiredFields, cfg.AttributeField)
	if len(missing) > 0 {
		return e.collectPrompt(cfg, p, missing[0], intent)
	}
	if cfg.Calendar.Enabled() {
		p.Stage = lead.StageBooking
		return e.offerSlots(ctx, cfg, conv, intent)
	}
	p.Stage = lead.StageClosing
	return Reply{Text: e.templateOrFallback(cfg, p, tenant.TemplateClosing, nil), Intent: intent}
}

// advanceBooking handles an explicit booking intent. The intent alone
// moves the lead into the booking stage; the slot offer is gated on the
// phone number only, everything else can be collected later.
func (e *Engine) advanceBooking(ctx context.Context, cfg *tenant.Config, conv *Conversation, intent Intent) Reply {
	p := conv.Lead
	if p.Stage == lead.StageBooked {
		return e.llmReply(ctx, cfg, conv, intent)
	}
	if p.Stage == lead.StageInitial || p.Stage == lead.StageQualifying {
		p.Stage = lead.StageBooking
	}
	if p.Phone == "" {
		return e.collectPrompt(cfg, p, "phone", intent)
	}
	if !cfg.Calendar.Enabled() {
		p.Stage = lead.StageClosing
		return Reply{Text: e.templateOrFallback(cfg, p, tenant.TemplateClosing, nil), Intent: intent}
	}
	return e.offerSlots(ctx, cfg, conv, intent)
}

// collectPrompt renders the prompt for one missing field. Phone falls back
// to the generic ask_phone template when no collect_phone is defined.
func (e *Engine) collectPrompt(cfg *tenant.Config, p *lead.Profile, field string, intent Intent) Reply {
	tpl := cfg.Template(tenant.CollectTemplateKey(field))
	if tpl == "" && strings.EqualFold(field, "phone") {
		tpl = cfg.Template(tenant.TemplateAskPhone)
	}
	if tpl == "" {
		tpl = cfg.FallbackReply
	}
	return Reply{Text: e.render(tpl, cfg, p, nil), Intent: intent}
}

// offerSlots fetches fresh availability and stores it on the conversation
// as the pending offer.
func (e *Engine) offerSlots(ctx context.Context, cfg *tenant.Config, conv *Conversation, intent Intent) Reply {
	p := conv.Lead
	cctx, cancel := context.WithTimeout(ctx, e.calendarTimeout)
	defer cancel()

	slots, err := e.resolver.Available(cctx, cfg.Calendar)
	if err != nil {
		e.logger.Error("slot lookup failed", "tenant_id", cfg.ID, "error", err)
		conv.ClearSlots()
		return Reply{Text: e.templateOrFallback(cfg, p, tenant.TemplateBookingFailed, nil), Intent: intent}
	}
	if len(slots) == 0 {
		conv.ClearSlots()
		return Reply{Text: e.templateOrFallback(cfg, p, tenant.TemplateNoSlots, nil), Intent: intent}
	}

	conv.AvailableSlots = slots
	extras := map[string]string{"slotCount": strconv.Itoa(len(slots))}
	return Reply{
		Text:    e.templateOrFallback(cfg, p, tenant.TemplateSlotsOffer, extras),
		Buttons: slotButtons(slots),
		Intent:  intent,
	}
}

// handleSlotChoice routes a numeric reply against the pending offer
// through the booking coordinator.
func (e *Engine) handleSlotChoice(ctx context.Context, cfg *tenant.Config, conv *Conversation, ordinal int) Reply {
	p := conv.Lead
	cctx, cancel := context.WithTimeout(ctx, e.calendarTimeout)
	defer cancel()

	res := e.coordinator.ConfirmChoice(cctx, booking.ConfirmParams{
		TenantID:         conv.TenantID,
		Lead:             p,
		Offered:          conv.AvailableSlots,
		Ordinal:          ordinal,
		Policy:           cfg.Calendar,
		EventSummary:     e.eventSummary(cfg, conv),
		EventDescription: eventDescription(cfg, p),
	})
	e.metrics.ObserveBooking(res.Outcome.String())

	switch res.Outcome {
	case booking.OutcomeInvalidChoice:
		extras := map[string]string{"slotCount": strconv.Itoa(len(conv.AvailableSlots))}
		return Reply{Text: e.templateOrFallback(cfg, p, tenant.TemplateInvalidChoice, extras), Intent: IntentBooking}

	case booking.OutcomeSlotTaken:
		if len(res.Fresh) == 0 {
			conv.ClearSlots()
			return Reply{Text: e.templateOrFallback(cfg, p, tenant.TemplateNoSlots, nil), Intent: IntentBooking}
		}
		conv.AvailableSlots = res.Fresh
		extras := map[string]string{
			"slotDisplay": res.Chosen.Display,
			"slotCount":   strconv.Itoa(len(res.Fresh)),
		}
		return Reply{
			Text:    e.templateOrFallback(cfg, p, tenant.TemplateSlotTaken, extras),
			Buttons: slotButtons(res.Fresh),
			Intent:  IntentBooking,
		}

	case booking.OutcomeConfirmed:
		conv.ClearSlots()
		p.Stage = lead.StageBooked
		key := tenant.TemplateBookedRegular
		if res.FirstSession {
			key = tenant.TemplateBookedFirst
		}
		extras := map[string]string{"slotDisplay": res.Chosen.Display}
		return Reply{Text: e.templateOrFallback(cfg, p, key, extras), Intent: IntentBooking}

	default:
		conv.ClearSlots()
		return Reply{Text: e.templateOrFallback(cfg, p, tenant.TemplateBookingFailed, nil), Intent: IntentBooking}
	}
}

// llmReply consults the generic fallback responder; without a client, or
// on failure, the tenant's not-understood text answers instead.
func (e *Engine) llmReply(ctx context.Context, cfg *tenant.Config, conv *Conversation, intent Intent) Reply {
	p := conv.Lead
	if e.llm == nil {
		return Reply{Text: e.notUnderstood(cfg, p), Intent: intent}
	}
	cctx, cancel := context.WithTimeout(ctx, e.llmTimeout)
	defer cancel()

	text, err := e.llm.Complete(cctx, llm.Request{
		System:      e.render(cfg.LLMSystemPrompt, cfg, p, nil),
		Messages:    historyWindow(conv),
		MaxTokens:   256,
		Temperature: 0.7,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		e.logger.Warn("llm fallback unavailable", "tenant_id", cfg.ID, "error", err)
		return Reply{Text: e.notUnderstood(cfg, p), Intent: intent}
	}
	e.metrics.ObserveLLMFallback()
	return Reply{Text: strings.TrimSpace(text), Intent: intent}
}

// confusedReply picks the phone-specific variant while the phone is the
// next field being collected.
func (e *Engine) confusedReply(cfg *tenant.Config, p *lead.Profile) string {
	missing := p.MissingFields(cfg.RequiredFields, cfg.AttributeField)
	if len(missing) > 0 && strings.EqualFold(missing[0], "phone") {
		if tpl := cfg.Template(tenant.TemplateNotUnderstoodPhone); tpl != "" {
			return e.render(tpl, cfg, p, nil)
		}
	}
	return e.notUnderstood(cfg, p)
}

func (e *Engine) notUnderstood(cfg *tenant.Config, p *lead.Profile) string {
	if tpl := cfg.Template(tenant.TemplateNotUnderstood); tpl != "" {
		return e.render(tpl, cfg, p, nil)
	}
	return e.render(cfg.FallbackReply, cfg, p, nil)
}

func (e *Engine) render(tpl string, cfg *tenant.Config, p *lead.Profile, extras map[string]string) string {
	return RenderTemplate(tpl, cfg, p, extras)
}

// templateOrFallback renders the named template, degrading to the
// tenant's fallback reply when the template is missing.
func (e *Engine) templateOrFallback(cfg *tenant.Config, p *lead.Profile, key string, extras map[string]string) string {
	tpl := cfg.Template(key)
	if tpl == "" {
		tpl = cfg.FallbackReply
	}
	return e.render(tpl, cfg, p, extras)
}

// eventSummary names the calendar event after the business and whoever we
// know the lead as.
func (e *Engine) eventSummary(cfg *tenant.Config, conv *Conversation) string {
	who := conv.Lead.Name
	if who == "" {
		who = conv.DisplayName
	}
	if who == "" {
		who = conv.UserID
	}
	return fmt.Sprintf("%s - %s", cfg.BusinessName, who)
}

func eventDescription(cfg *tenant.Config, p *lead.Profile) string {
	var b strings.Builder
	if p.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", p.Phone)
	}
	if p.Attribute != "" {
		field := cfg.AttributeField
		if field == "" {
			field = "attribute"
		}
		fmt.Fprintf(&b, "%s: %s\n", titleCaser.String(field), p.Attribute)
	}
	fmt.Fprintf(&b, "Booked via %s assistant", cfg.BusinessName)
	return b.String()
}

// isConfusedMessage flags keyboard noise: a message whose letters form a
// run long enough to be a word yet contain no vowel is not language in
// any tongue the bot serves.
func isConfusedMessage(text string) bool {
	letters, vowels := 0, 0
	for _, r := range strings.ToLower(text) {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if strings.ContainsRune("aeiouàèéìíòóùú", r) {
			vowels++
		}
	}
	return letters >= 6 && vowels == 0
}

func parseOrdinal(text string) (int, bool) {
	if len(text) != 1 || text[0] < '1' || text[0] > '9' {
		return 0, false
	}
	return int(text[0] - '0'), true
}

func slotButtons(slots []calendar.Slot) []string {
	buttons := make([]string, len(slots))
	for i, s := range slots {
		buttons[i] = s.ButtonLabel
	}
	return buttons
}

func answerByTopic(topic string, rules []tenant.AnswerRule) (tenant.AnswerRule, bool) {
	for _, rule := range rules {
		if strings.EqualFold(rule.Topic, topic) {
			return rule, true
		}
	}
	return tenant.AnswerRule{}, false
}

// historyWindow converts the transcript tail into LLM messages.
func historyWindow(conv *Conversation) []llm.Message {
	msgs := conv.Messages
	if len(msgs) > llmHistoryWindow {
		msgs = msgs[len(msgs)-llmHistoryWindow:]
	}
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		role := llm.RoleUser
		if m.Role == RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Text})
	}
	return out
}
