package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Ari-Han-t/CAPS/internal/domain"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// FraudClient talks to the crowdsourced fraud-intelligence service.
type FraudClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
}

// NewFraudClient creates a new FraudClient.
func NewFraudClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker) *FraudClient {
	return &FraudClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
	}
}

// ListMerchantScores fetches every scored merchant. The service answers either
// with {"merchants": [...]} or with a bare array; both are accepted.
func (c *FraudClient) ListMerchantScores(ctx context.Context) ([]domain.MerchantScoreData, error) {
	ctx, span := tracer.Start(ctx, "FraudClient.ListMerchantScores")
	defer span.End()

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/fraud/merchants", nil, &raw); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	merchants, err := decodeMerchants(raw)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "fraud", Err: err}
	}
	span.SetAttributes(attribute.Int("merchants.count", len(merchants)))
	return merchants, nil
}

// GetFraudStats fetches the network-wide counters.
func (c *FraudClient) GetFraudStats(ctx context.Context) (*domain.FraudStats, error) {
	ctx, span := tracer.Start(ctx, "FraudClient.GetFraudStats")
	defer span.End()

	var stats domain.FraudStats
	if err := c.do(ctx, http.MethodGet, "/fraud/stats", nil, &stats); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &stats, nil
}

// SubmitMerchantReport files a report and returns the merchant's updated badge.
func (c *FraudClient) SubmitMerchantReport(ctx context.Context, in *domain.MerchantReportRequest) (*domain.ReportResult, error) {
	ctx, span := tracer.Start(ctx, "FraudClient.SubmitMerchantReport")
	defer span.End()
	span.SetAttributes(
		attribute.String("merchant.vpa", in.MerchantVPA),
		attribute.String("report.type", string(in.ReportType)),
	)

	var result domain.ReportResult
	if err := c.do(ctx, http.MethodPost, "/fraud/report", in, &result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &result, nil
}

// do performs one call through the circuit breaker and decodes the JSON body
// into out. Every failure is wrapped in *domain.ErrExternalService.
func (c *FraudClient) do(ctx context.Context, method, path string, in, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		var body io.Reader
		if in != nil {
			b, err := json.Marshal(in)
			if err != nil {
				return nil, err
			}
			body = bytes.NewReader(b)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("fraud API %s returned status %d", path, resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return nil, nil
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "fraud", Err: err}
	}
	return nil
}

func decodeMerchants(raw json.RawMessage) ([]domain.MerchantScoreData, error) {
	var list []domain.MerchantScoreData
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Merchants []domain.MerchantScoreData `json:"merchants"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode merchants: %w", err)
	}
	return wrapped.Merchants, nil
}
