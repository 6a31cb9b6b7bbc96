package handlers

import (
	"net/http"
	"time"
)

// HealthHandler serves GET /health, reporting which optional
// integrations the process was started with.
type HealthHandler struct {
	integrations map[string]bool
}

// NewHealthHandler creates a health handler. Keys of integrations name
// the optional subsystems (calendar, llm, twilio, redis).
func NewHealthHandler(integrations map[string]bool) *HealthHandler {
	if integrations == nil {
		integrations = map[string]bool{}
	}
	return &HealthHandler{integrations: integrations}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"service":      "stagehand",
		"time":         time.Now().UTC().Format(time.RFC3339),
		"integrations": h.integrations,
	})
}
