package httpapi

import (
	"context"
	"net/http"

	"easel/pkg/platform/httputil"
)

// HealthCheck reports whether one backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// NewHealthHandler returns a /healthz handler that runs the given checks.
// With no checks (in-memory deployment) it always reports ok.
func NewHealthHandler(checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
