// Package handlers contains the HTTP handlers for the webhook and the
// tenant-scoped API.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/stagehand-ai/stagehand/internal/conversation"
	"github.com/stagehand-ai/stagehand/internal/messaging"
	"github.com/stagehand-ai/stagehand/internal/tenancy"
	"github.com/stagehand-ai/stagehand/internal/tenant"
	"github.com/stagehand-ai/stagehand/pkg/logging"
)

const defaultSendTimeout = 10 * time.Second

// WebhookHandler receives inbound Twilio WhatsApp webhooks and replies
// through the configured sender.
type WebhookHandler struct {
	registry    *tenant.Registry
	engine      *conversation.Engine
	sender      messaging.Sender
	logger      *logging.Logger
	sendTimeout time.Duration
}

// NewWebhookHandler creates a webhook handler.
func NewWebhookHandler(registry *tenant.Registry, engine *conversation.Engine, sender messaging.Sender, logger *logging.Logger, sendTimeout time.Duration) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	return &WebhookHandler{
		registry:    registry,
		engine:      engine,
		sender:      sender,
		logger:      logger,
		sendTimeout: sendTimeout,
	}
}

// Handle processes POST /webhook/{tenantID}. Twilio posts form-encoded
// fields; From and Body are required. The webhook acknowledges with a
// plain 200 body and the reply goes out via the sender, never TwiML.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, ok := tenancy.TenantIDFromContext(ctx)
	if !ok {
		http.Error(w, "unknown tenant", http.StatusNotFound)
		return
	}

	cfg, err := h.registry.Resolve(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrNotFound) {
			http.Error(w, "unknown tenant", http.StatusNotFound)
			return
		}
		h.logger.Error("resolve tenant failed", "tenant_id", tenantID, "error", err)
		http.Error(w, "tenant unavailable", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")
	if from == "" || strings.TrimSpace(body) == "" {
		http.Error(w, "From and Body are required", http.StatusBadRequest)
		return
	}
	userID := r.PostFormValue("WaId")
	if userID == "" {
		userID = strings.TrimPrefix(from, "whatsapp:")
	}

	reply := h.engine.ProcessMessage(ctx, cfg, conversation.Inbound{
		TenantID:    tenantID,
		UserID:      userID,
		DisplayName: r.PostFormValue("ProfileName"),
		Text:        body,
	})

	h.deliver(ctx, cfg, messaging.Outbound{
		TenantID: tenantID,
		To:       from,
		Body:     reply.Text,
		Buttons:  reply.Buttons,
	})

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// deliver sends the reply, falling back once to the tenant's fallback
// text so the user never gets silence after a rendering problem.
func (h *WebhookHandler) deliver(ctx context.Context, cfg *tenant.Config, msg messaging.Outbound) {
	sctx, cancel := context.WithTimeout(ctx, h.sendTimeout)
	defer cancel()

	if err := h.sender.Send(sctx, msg); err != nil {
		h.logger.Error("send reply failed",
			"tenant_id", msg.TenantID, "to", msg.To, "error", err)
		fallback := messaging.Outbound{TenantID: msg.TenantID, To: msg.To, Body: cfg.FallbackReply}
		if err := h.sender.Send(sctx, fallback); err != nil {
			h.logger.Error("send fallback failed",
				"tenant_id", msg.TenantID, "to", msg.To, "error", err)
		}
	}
}
