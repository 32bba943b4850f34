// Package httptransport assembles the public HTTP surface. Handlers stay in
// their feature packages; this package only mounts them next to the
// operational endpoints.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dojoroll/internal/identity/handler"
)

// NewRouter wires the member lifecycle routes plus health and metrics.
func NewRouter(members *handler.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	members.Register(r)
	return r
}
