package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"viewingdesk/internal/api"
	"viewingdesk/internal/appointment"
	"viewingdesk/internal/metrics"
	"viewingdesk/pkg/config"
)

type Dependencies struct {
	Cfg          config.Config
	Appointments *appointment.Service
	Metrics      *metrics.Metrics
	// ReadyChecks back /readyz; each gets a short timeout.
	ReadyChecks map[string]func(context.Context) error
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		for name, check := range deps.ReadyChecks {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := check(ctx)
			cancel()
			if err != nil {
				api.WriteError(w, http.StatusServiceUnavailable, "NOT_READY", name+": "+err.Error())
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	appointmentHandlers := appointment.Handlers{Service: deps.Appointments}

	// v1
	r.Route("/v1", func(r chi.Router) {
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.DashboardAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization", "X-Operator"},
			MaxAgeSeconds:  600,
		}))

		// Dashboard APIs; every mutation records the operator in history.
		r.Group(func(r chi.Router) {
			r.Use(api.OperatorAuth(deps.Cfg))

			r.Post("/appointments", appointmentHandlers.Create)
			r.Get("/appointments", appointmentHandlers.List)
			r.Get("/appointments/{id}", appointmentHandlers.Get)
			r.Get("/appointments/{id}/history", appointmentHandlers.History)
			r.Post("/appointments/{id}/{operation}", appointmentHandlers.Transition)

			r.Get("/calendar", appointmentHandlers.Calendar)
			r.Get("/calendar/{date}", appointmentHandlers.Day)
		})
	})

	return r
}
