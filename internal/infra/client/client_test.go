package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/infra/client"
	"github.com/Ari-Han-t/CAPS/internal/infra/resilience"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandClient_SubmitCommand(t *testing.T) {
	var got domain.CommandRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/process", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"policy_decision": "APPROVE",
			"message": "Payment sent",
			"intent": {"intent_type": "PAYMENT", "merchant_vpa": "shop@upi", "amount": 250},
			"status": "executed",
			"execution_result": {"reference_number": "REF-1", "executed_at": "2024-01-01T10:15:30Z"}
		}`))
	}))
	defer srv.Close()

	c := client.NewCommandClient(srv.Client(), srv.URL, resilience.NewCircuitBreaker("command"))
	resp, err := c.SubmitCommand(context.Background(), "pay shop 250")

	require.NoError(t, err)
	assert.Equal(t, "pay shop 250", got.Text)
	assert.Equal(t, domain.DecisionApprove, resp.PolicyDecision)
	assert.Equal(t, domain.IntentPayment, resp.IntentTypeOf())
	require.NotNil(t, resp.Intent.Amount)
	assert.Equal(t, 250.0, *resp.Intent.Amount)
	assert.Nil(t, resp.ExecutionResult.History)
	assert.Equal(t, "REF-1", resp.ExecutionResult.ReferenceNumber)
}

func TestCommandClient_NormalizesFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := client.NewCommandClient(srv.Client(), srv.URL, resilience.NewCircuitBreaker("command"))
			_, err := c.SubmitCommand(context.Background(), "balance")

			var ext *domain.ErrExternalService
			require.True(t, errors.As(err, &ext), "expected ErrExternalService, got %v", err)
			assert.Equal(t, "command", ext.Service)
		})
	}
}

func TestCommandClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := client.NewCommandClient(http.DefaultClient, url, resilience.NewCircuitBreaker("command"))
	_, err := c.SubmitCommand(context.Background(), "balance")

	var ext *domain.ErrExternalService
	assert.True(t, errors.As(err, &ext))
}

func TestCommandClient_HistoryPresentButEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"policy_decision":"APPROVE","message":"ok",
			"intent":{"intent_type":"TRANSACTION_HISTORY"},
			"execution_result":{"history":[]}}`))
	}))
	defer srv.Close()

	c := client.NewCommandClient(srv.Client(), srv.URL, resilience.NewCircuitBreaker("command"))
	resp, err := c.SubmitCommand(context.Background(), "history")

	require.NoError(t, err)
	require.NotNil(t, resp.ExecutionResult.History)
	assert.Empty(t, resp.ExecutionResult.History)
}

func TestFraudClient_ListMerchantScores_BothShapes(t *testing.T) {
	bodies := map[string]string{
		"wrapped": `{"merchants":[{"merchant_vpa":"a@upi","badge":"LIKELY_SCAM","scam_rate":80,"community_score":0.2,"risk_state":"WATCHLIST"}]}`,
		"bare":    `[{"merchant_vpa":"a@upi","badge":"LIKELY_SCAM","scam_rate":80,"community_score":0.2,"risk_state":"WATCHLIST"}]`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/fraud/merchants", r.URL.Path)
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			c := client.NewFraudClient(srv.Client(), srv.URL, resilience.NewCircuitBreaker("fraud"))
			merchants, err := c.ListMerchantScores(context.Background())

			require.NoError(t, err)
			require.Len(t, merchants, 1)
			assert.Equal(t, "a@upi", merchants[0].MerchantVPA)
			assert.Equal(t, domain.BadgeLikelyScam, merchants[0].Badge)
			assert.Equal(t, domain.RiskWatchlist, merchants[0].RiskState)
		})
	}
}

func TestFraudClient_GetFraudStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fraud/stats", r.URL.Path)
		_, _ = w.Write([]byte(`{"total_reports":12,"total_merchants":4,"flagged_merchants":1,"safe_merchants":2}`))
	}))
	defer srv.Close()

	c := client.NewFraudClient(srv.Client(), srv.URL, resilience.NewCircuitBreaker("fraud"))
	stats, err := c.GetFraudStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.FraudStats{TotalReports: 12, TotalMerchants: 4, FlaggedMerchants: 1, SafeMerchants: 2}, *stats)
}

func TestFraudClient_SubmitMerchantReport(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/fraud/report", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"updated_badge":"CAUTION","updated_badge_emoji":"⚠️"}`))
	}))
	defer srv.Close()

	c := client.NewFraudClient(srv.Client(), srv.URL, resilience.NewCircuitBreaker("fraud"))
	res, err := c.SubmitMerchantReport(context.Background(), &domain.MerchantReportRequest{
		MerchantVPA: "x@upi",
		ReportType:  domain.ReportScam,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.BadgeCaution, res.UpdatedBadge)
	assert.Equal(t, "x@upi", got["merchant_vpa"])
	assert.Equal(t, "SCAM", got["report_type"])
	_, hasReason := got["reason"]
	assert.False(t, hasReason, "empty reason must be omitted")
}

func TestFraudClient_ReportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := client.NewFraudClient(srv.Client(), srv.URL, resilience.NewCircuitBreaker("fraud"))
	_, err := c.SubmitMerchantReport(context.Background(), &domain.MerchantReportRequest{MerchantVPA: "x@upi", ReportType: domain.ReportScam})

	var ext *domain.ErrExternalService
	require.True(t, errors.As(err, &ext))
	assert.Equal(t, "fraud", ext.Service)
}
