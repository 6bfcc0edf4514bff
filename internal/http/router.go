package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"easel/internal/registry/handler"
	"easel/pkg/platform/middleware/admin"
	"easel/pkg/platform/middleware/request"
)

// NewRouter wires all endpoints. Mutating routes live under /admin and run
// through the credential-extraction middleware; read routes are public.
func NewRouter(registry *handler.Handler, health http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(request.WithRequestID)

	r.Get("/healthz", health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		registry.RegisterPublic(r)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(admin.ExtractCredential)
		registry.RegisterAdmin(r)
	})

	return r
}
