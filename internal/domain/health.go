package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Breaker     string `json:"breaker,omitempty"`
	LastChecked string `json:"lastChecked"`
}

// SessionMetrics is returned by GET /v1/metrics/session.
type SessionMetrics struct {
	CommandsSubmitted int64   `json:"commandsSubmitted"`
	CommandsFailed    int64   `json:"commandsFailed"`
	FailureRate       float64 `json:"failureRate"`
	FraudRefreshes    int64   `json:"fraudRefreshes"`
	FraudRefreshFails int64   `json:"fraudRefreshFailures"`
	ReportsSubmitted  int64   `json:"reportsSubmitted"`
	ReportsFailed     int64   `json:"reportsFailed"`
	MerchantCacheHit  float64 `json:"merchantCacheHitRate"`
	Period            string  `json:"period"`
}
