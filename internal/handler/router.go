package handler

import (
	"net/http"
	"time"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/infra/observability"
	"github.com/Ari-Han-t/CAPS/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// TranscriptSink receives the live transcript pushed by the browser.
type TranscriptSink interface {
	Update(text string) bool
}

// Deps are the collaborators of the HTTP API.
type Deps struct {
	Session  *service.Session
	Sink     TranscriptSink
	Events   http.Handler
	Breakers []*gobreaker.CircuitBreaker
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	logger := d.Logger

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(d.Breakers))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Get("/metrics/session", sessionMetricsHandler(d.Metrics))

		// Voice capture and dispatch
		r.Get("/voice", voiceStatusHandler(d.Session))
		r.Post("/voice/start", voiceStartHandler(d.Session, logger))
		r.Post("/voice/transcript", voiceTranscriptHandler(d.Session, d.Sink))
		r.Post("/voice/stop", voiceStopHandler(d.Session, logger))
		r.Post("/commands", commandHandler(d.Session, logger))
		r.Get("/history", historyHandler(d.Session))

		// Fraud intelligence
		r.Get("/fraud", fraudViewHandler(d.Session))
		r.Post("/fraud/open", fraudOpenHandler(d.Session))
		r.Post("/fraud/close", fraudCloseHandler(d.Session))
		r.Post("/fraud/refresh", fraudRefreshHandler(d.Session))
		r.Get("/fraud/merchants/{vpa}", fraudMerchantHandler(d.Session, logger))
		r.Get("/fraud/report", reportFormHandler(d.Session))
		r.Put("/fraud/report", reportEditHandler(d.Session, logger))
		r.Post("/fraud/report", reportSubmitHandler(d.Session, logger))

		// Account panel
		r.Get("/account", accountHandler(d.Session))

		// Live events
		if d.Events != nil {
			r.Handle("/events", d.Events)
		} else {
			r.Get("/events", func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusServiceUnavailable, "event stream unavailable")
			})
		}
	})

	return r
}

// ============================================================
// Operational
// ============================================================

func healthzHandler(breakers []*gobreaker.CircuitBreaker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "caps-voice", Status: "healthy", LastChecked: now},
		}
		for _, cb := range breakers {
			status := "healthy"
			switch cb.State() {
			case gobreaker.StateOpen:
				status = "unhealthy"
			case gobreaker.StateHalfOpen:
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name:        cb.Name(),
				Status:      status,
				Breaker:     cb.State().String(),
				LastChecked: now,
			})
		}

		// A dependency outage degrades the session but never takes it down.
		overallStatus := "healthy"
		for _, s := range services {
			if s.Status != "healthy" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func sessionMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetSessionSnapshot())
	}
}
