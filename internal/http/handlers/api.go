package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/stagehand-ai/stagehand/internal/calendar"
	"github.com/stagehand-ai/stagehand/internal/conversation"
	"github.com/stagehand-ai/stagehand/internal/lead"
	"github.com/stagehand-ai/stagehand/internal/tenancy"
	"github.com/stagehand-ai/stagehand/internal/tenant"
	"github.com/stagehand-ai/stagehand/pkg/logging"
)

// APIHandler serves the tenant-scoped inspection and testing endpoints.
type APIHandler struct {
	registry      *tenant.Registry
	conversations conversation.Store
	resolver      *calendar.Resolver
	engine        *conversation.Engine
	logger        *logging.Logger
}

// NewAPIHandler creates the API handler.
func NewAPIHandler(registry *tenant.Registry, conversations conversation.Store, resolver *calendar.Resolver, engine *conversation.Engine, logger *logging.Logger) *APIHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &APIHandler{
		registry:      registry,
		conversations: conversations,
		resolver:      resolver,
		engine:        engine,
		logger:        logger,
	}
}

// resolveTenant loads the tenant for the request or writes the error.
func (h *APIHandler) resolveTenant(w http.ResponseWriter, r *http.Request) (*tenant.Config, bool) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unknown tenant", http.StatusNotFound)
		return nil, false
	}
	cfg, err := h.registry.Resolve(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrNotFound) {
			http.Error(w, "unknown tenant", http.StatusNotFound)
			return nil, false
		}
		h.logger.Error("resolve tenant failed", "tenant_id", tenantID, "error", err)
		http.Error(w, "tenant unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return cfg, true
}

// Stats serves GET /api/{tenantID}/stats.
func (h *APIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.resolveTenant(w, r)
	if !ok {
		return
	}
	stats, err := conversation.ComputeStats(r.Context(), h.conversations, cfg)
	if err != nil {
		h.logger.Error("compute stats failed", "tenant_id", cfg.ID, "error", err)
		http.Error(w, "stats unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ConversationSummary is one row of the conversations listing.
type ConversationSummary struct {
	UserID       string     `json:"user_id"`
	DisplayName  string     `json:"display_name,omitempty"`
	Stage        lead.Stage `json:"stage"`
	Qualified    bool       `json:"qualified"`
	Progress     int        `json:"progress"`
	MessageCount int        `json:"message_count"`
	StartedAt    time.Time  `json:"started_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Conversations serves GET /api/{tenantID}/conversations.
func (h *APIHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.resolveTenant(w, r)
	if !ok {
		return
	}
	convs, err := h.conversations.All(r.Context(), cfg.ID)
	if err != nil {
		h.logger.Error("list conversations failed", "tenant_id", cfg.ID, "error", err)
		http.Error(w, "conversations unavailable", http.StatusInternalServerError)
		return
	}
	summaries := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		summaries = append(summaries, ConversationSummary{
			UserID:       conv.UserID,
			DisplayName:  conv.DisplayName,
			Stage:        conv.Lead.Stage,
			Qualified:    conv.Lead.Qualified,
			Progress:     conv.Lead.Progress(cfg.RequiredFields, cfg.AttributeField),
			MessageCount: len(conv.Messages),
			StartedAt:    conv.StartedAt,
			UpdatedAt:    conv.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tenant_id":     cfg.ID,
		"total":         len(summaries),
		"conversations": summaries,
	})
}

// Slots serves GET /api/{tenantID}/calendar/slots.
func (h *APIHandler) Slots(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.resolveTenant(w, r)
	if !ok {
		return
	}
	slots, err := h.resolver.Available(r.Context(), cfg.Calendar)
	if err != nil {
		h.logger.Error("slot lookup failed", "tenant_id", cfg.ID, "error", err)
		http.Error(w, "calendar unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tenant_id": cfg.ID,
		"slots":     slots,
	})
}

// TestRequest is the body of POST /api/{tenantID}/test.
type TestRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// TestResponse echoes what the engine produced.
type TestResponse struct {
	Reply   string              `json:"reply"`
	Buttons []string            `json:"buttons,omitempty"`
	Intent  conversation.Intent `json:"intent"`
	Stage   lead.Stage          `json:"stage"`
}

// Test serves POST /api/{tenantID}/test: runs a message through the
// engine without delivering anything, for tenant configuration checks.
func (h *APIHandler) Test(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.resolveTenant(w, r)
	if !ok {
		return
	}
	var req TestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		req.UserID = "test-user"
	}

	reply := h.engine.ProcessMessage(r.Context(), cfg, conversation.Inbound{
		TenantID: cfg.ID,
		UserID:   req.UserID,
		Text:     req.Message,
	})
	writeJSON(w, http.StatusOK, TestResponse{
		Reply:   reply.Text,
		Buttons: reply.Buttons,
		Intent:  reply.Intent,
		Stage:   reply.Stage,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
