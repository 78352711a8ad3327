package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Ari-Han-t/CAPS/internal/domain"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("client")

// CommandClient calls the CAPS command-processing service.
type CommandClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
}

// NewCommandClient creates a new CommandClient.
func NewCommandClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker) *CommandClient {
	return &CommandClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
	}
}

// SubmitCommand posts a transcript to the command service and decodes its verdict.
// Transport failures, non-2xx statuses and undecodable bodies all come back
// as *domain.ErrExternalService. The call is never retried.
func (c *CommandClient) SubmitCommand(ctx context.Context, transcript string) (*domain.CommandResponse, error) {
	ctx, span := tracer.Start(ctx, "CommandClient.SubmitCommand")
	defer span.End()
	span.SetAttributes(attribute.Int("transcript.length", len(transcript)))

	result, err := c.cb.Execute(func() (any, error) {
		body, err := json.Marshal(domain.CommandRequest{Text: transcript})
		if err != nil {
			return nil, err
		}

		url := fmt.Sprintf("%s/process", c.baseURL)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("command API returned status %d", resp.StatusCode)
		}

		var out domain.CommandResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("decode command response: %w", err)
		}
		return &out, nil
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &domain.ErrExternalService{Service: "command", Err: err}
	}

	out := result.(*domain.CommandResponse)
	span.SetAttributes(attribute.String("policy.decision", string(out.PolicyDecision)))
	return out, nil
}
