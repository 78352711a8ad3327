package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/handler"
	"github.com/Ari-Han-t/CAPS/internal/infra/cache"
	"github.com/Ari-Han-t/CAPS/internal/infra/observability"
	"github.com/Ari-Han-t/CAPS/internal/infra/resilience"
	"github.com/Ari-Han-t/CAPS/internal/infra/speech"
	"github.com/Ari-Han-t/CAPS/internal/service"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// --- Mocks ---

type stubCommands struct {
	resp *domain.CommandResponse
	err  error
}

func (s *stubCommands) SubmitCommand(context.Context, string) (*domain.CommandResponse, error) {
	return s.resp, s.err
}

type stubFraud struct {
	merchants []domain.MerchantScoreData
	stats     *domain.FraudStats
	err       error
	report    *domain.ReportResult
	reportErr error
}

func (s *stubFraud) ListMerchantScores(context.Context) ([]domain.MerchantScoreData, error) {
	return s.merchants, s.err
}

func (s *stubFraud) GetFraudStats(context.Context) (*domain.FraudStats, error) {
	return s.stats, s.err
}

func (s *stubFraud) SubmitMerchantReport(context.Context, *domain.MerchantReportRequest) (*domain.ReportResult, error) {
	return s.report, s.reportErr
}

type testEnv struct {
	router  http.Handler
	capture *speech.Remote
	session *service.Session
}

func newEnv(commands *stubCommands, fraud *stubFraud, breakers ...*gobreaker.CircuitBreaker) *testEnv {
	metrics := observability.NewMetrics()
	capture := speech.NewRemote()
	sess := service.NewSession(service.SessionDeps{
		Commands:      commands,
		Fraud:         fraud,
		Capture:       capture,
		MerchantCache: cache.New[domain.MerchantScoreData](),
		DailyLimit:    2000,
		Metrics:       metrics,
		Logger:        zap.NewNop(),
	})
	return &testEnv{
		router: handler.NewRouter(handler.Deps{
			Session:  sess,
			Sink:     capture,
			Breakers: breakers,
			Metrics:  metrics,
			Logger:   zap.NewNop(),
		}),
		capture: capture,
		session: sess,
	}
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// --- Tests ---

func TestHealthz(t *testing.T) {
	env := newEnv(&stubCommands{}, &stubFraud{}, resilience.NewCircuitBreaker("command"))

	rec := env.do(http.MethodGet, "/healthz", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var health domain.HealthStatus
	decode(t, rec, &health)
	if health.Status != "healthy" || len(health.Services) != 2 {
		t.Errorf("unexpected health %+v", health)
	}
	if health.Services[1].Breaker != "closed" {
		t.Errorf("expected closed breaker, got %q", health.Services[1].Breaker)
	}
}

func TestHealthz_OpenBreakerDegrades(t *testing.T) {
	cb := resilience.NewCircuitBreaker("fraud")
	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(func() (any, error) { return nil, errors.New("down") })
	}
	env := newEnv(&stubCommands{}, &stubFraud{}, cb)

	var health domain.HealthStatus
	decode(t, env.do(http.MethodGet, "/healthz", nil), &health)

	if health.Status != "degraded" {
		t.Errorf("expected degraded, got %s", health.Status)
	}
}

func TestReadyz(t *testing.T) {
	env := newEnv(&stubCommands{}, &stubFraud{})

	rec := env.do(http.MethodGet, "/readyz", nil)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	env := newEnv(&stubCommands{}, &stubFraud{})

	rec := env.do(http.MethodGet, "/metrics", nil)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestCommand_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name     string
		commands *stubCommands
		body     any
		want     int
	}{
		{"empty transcript", &stubCommands{}, map[string]string{"transcript": "  "}, http.StatusBadRequest},
		{"unreachable", &stubCommands{err: errors.New("dial tcp")}, map[string]string{"transcript": "pay"}, http.StatusBadGateway},
		{"ok", &stubCommands{resp: &domain.CommandResponse{PolicyDecision: domain.DecisionApprove}}, map[string]string{"transcript": "pay"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(tt.commands, &stubFraud{})
			rec := env.do(http.MethodPost, "/v1/commands", tt.body)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCommand_ConnectivityMessage(t *testing.T) {
	env := newEnv(&stubCommands{err: errors.New("refused")}, &stubFraud{})

	rec := env.do(http.MethodPost, "/v1/commands", map[string]string{"transcript": "pay"})

	var body map[string]string
	decode(t, rec, &body)
	if body["error"] != domain.ConnectivityErrorMessage {
		t.Errorf("expected fixed connectivity message, got %q", body["error"])
	}
}

func TestVoice_StopWithoutStartConflicts(t *testing.T) {
	env := newEnv(&stubCommands{}, &stubFraud{})

	if rec := env.do(http.MethodPost, "/v1/voice/stop", nil); rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	if rec := env.do(http.MethodPost, "/v1/voice/transcript", map[string]string{"text": "hi"}); rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for transcript outside capture, got %d", rec.Code)
	}
}

func TestVoice_StartTwiceConflicts(t *testing.T) {
	env := newEnv(&stubCommands{}, &stubFraud{})

	if rec := env.do(http.MethodPost, "/v1/voice/start", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := env.do(http.MethodPost, "/v1/voice/start", nil); rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestFraudMerchant_NotFound(t *testing.T) {
	env := newEnv(&stubCommands{}, &stubFraud{})

	rec := env.do(http.MethodGet, "/v1/fraud/merchants/nobody@upi", nil)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestReport_FailureKeepsForm(t *testing.T) {
	env := newEnv(&stubCommands{}, &stubFraud{reportErr: errors.New("503")})

	rec := env.do(http.MethodPost, "/v1/fraud/report", map[string]string{
		"merchant_vpa": "scam@upi", "category": "SCAM", "reason": "fake",
	})

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["error"] != service.ReportErrorMessage {
		t.Errorf("unexpected error %q", body["error"])
	}

	var form service.ReportFormState
	decode(t, env.do(http.MethodGet, "/v1/fraud/report", nil), &form)
	if form.MerchantVPA != "scam@upi" || form.Reason != "fake" {
		t.Errorf("expected inputs preserved, got %+v", form)
	}
}

func TestReport_PutThenSubmit(t *testing.T) {
	fraud := &stubFraud{
		stats:  &domain.FraudStats{TotalReports: 1},
		report: &domain.ReportResult{UpdatedBadge: domain.BadgeCaution, UpdatedBadgeEmoji: "⚠️"},
	}
	env := newEnv(&stubCommands{}, fraud)

	rec := env.do(http.MethodPut, "/v1/fraud/report", map[string]string{"merchant_vpa": "odd@upi", "category": "SUSPICIOUS"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = env.do(http.MethodPost, "/v1/fraud/report", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Form service.ReportFormState `json:"form"`
	}
	decode(t, rec, &body)
	if body.Form.Message != "⚠️ Reported! Badge: CAUTION" || body.Form.Category != domain.ReportSuspicious {
		t.Errorf("unexpected form %+v", body.Form)
	}
}

func TestReport_InvalidCategory(t *testing.T) {
	env := newEnv(&stubCommands{}, &stubFraud{})

	rec := env.do(http.MethodPut, "/v1/fraud/report", map[string]string{"category": "SPAM"})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestEvents_UnavailableWithoutHub(t *testing.T) {
	env := newEnv(&stubCommands{}, &stubFraud{})

	if rec := env.do(http.MethodGet, "/v1/events", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}
