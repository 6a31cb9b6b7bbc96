package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stagehand-ai/stagehand/internal/tenancy"
)

// TenantContext lifts the {tenantID} route parameter into the request
// context, where the tenant-scoped handlers read it back.
func TenantContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chi.URLParam(r, "tenantID"); id != "" {
			r = r.WithContext(tenancy.WithTenantID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
