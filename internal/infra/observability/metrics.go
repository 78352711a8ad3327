package observability

import (
	"time"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the session service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	commandsTotal   *prometheus.CounterVec
	turnsTotal      *prometheus.CounterVec
	fraudRefreshes  *prometheus.CounterVec
	reportsTotal    *prometheus.CounterVec
	wsClients       prometheus.Gauge
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "caps_request_duration_seconds",
				Help:    "Duration of remote calls by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caps_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caps_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caps_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		commandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caps_commands_total",
				Help: "Commands submitted to the decision service by outcome.",
			},
			[]string{"outcome"},
		),
		turnsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caps_history_turns_total",
				Help: "History turns appended by kind.",
			},
			[]string{"kind"},
		),
		fraudRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caps_fraud_refresh_total",
				Help: "Fraud aggregate refreshes by status.",
			},
			[]string{"status"},
		),
		reportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caps_merchant_reports_total",
				Help: "Merchant reports by status.",
			},
			[]string{"status"},
		),
		wsClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "caps_websocket_clients",
				Help: "Connected event stream clients.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrCommand counts a dispatch outcome: success, error or rejected.
func (m *Metrics) IncrCommand(outcome string) {
	m.commandsTotal.WithLabelValues(outcome).Inc()
}

// IncrTurn counts an appended history turn.
func (m *Metrics) IncrTurn(kind domain.TurnKind) {
	m.turnsTotal.WithLabelValues(string(kind)).Inc()
}

// IncrFraudRefresh counts a refresh outcome: success, error or discarded.
func (m *Metrics) IncrFraudRefresh(status string) {
	m.fraudRefreshes.WithLabelValues(status).Inc()
}

// IncrReport counts a report outcome: success or error.
func (m *Metrics) IncrReport(status string) {
	m.reportsTotal.WithLabelValues(status).Inc()
}

// SetWebSocketClients sets the number of connected event stream clients.
func (m *Metrics) SetWebSocketClients(n int) {
	m.wsClients.Set(float64(n))
}

// GetSessionSnapshot returns a snapshot of session metrics suitable for the
// GET /v1/metrics/session endpoint.
func (m *Metrics) GetSessionSnapshot() *domain.SessionMetrics {
	// Prometheus counters expose cumulative values.
	success := getCounterValue(m.commandsTotal, "success")
	failed := getCounterValue(m.commandsTotal, "error")
	refreshOK := getCounterValue(m.fraudRefreshes, "success")
	refreshFailed := getCounterValue(m.fraudRefreshes, "error")
	reportOK := getCounterValue(m.reportsTotal, "success")
	reportFailed := getCounterValue(m.reportsTotal, "error")
	hits := getCounterValue(m.cacheHits, "merchant")
	misses := getCounterValue(m.cacheMisses, "merchant")

	submitted := success + failed
	failureRate := float64(0)
	if submitted > 0 {
		failureRate = failed / submitted
	}
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &domain.SessionMetrics{
		CommandsSubmitted: int64(submitted),
		CommandsFailed:    int64(failed),
		FailureRate:       failureRate,
		FraudRefreshes:    int64(refreshOK + refreshFailed),
		FraudRefreshFails: int64(refreshFailed),
		ReportsSubmitted:  int64(reportOK + reportFailed),
		ReportsFailed:     int64(reportFailed),
		MerchantCacheHit:  hitRate,
		Period:            "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
