package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/infra/observability"
	"github.com/Ari-Han-t/CAPS/internal/infra/resilience"
	"github.com/Ari-Han-t/CAPS/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service/session")

// Dispatcher submits finalized transcripts to the command service, one at a
// time, and records every exchange in the history store.
type Dispatcher struct {
	commands port.CommandSubmitter
	history  *HistoryStore
	gate     *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher that writes to history.
func NewDispatcher(
	commands port.CommandSubmitter,
	history *HistoryStore,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		commands: commands,
		history:  history,
		gate:     resilience.NewBulkhead(1),
		metrics:  metrics,
		logger:   logger,
	}
}

// Processing reports whether a submission is outstanding.
func (d *Dispatcher) Processing() bool {
	return d.gate.InUse() > 0
}

// Submit sends transcript to the command service.
//
// A blank transcript is rejected with *domain.ErrValidation and nothing is
// recorded. A call made while another is outstanding returns
// domain.ErrProcessing without waiting. Otherwise a USER turn is appended
// before the call, followed by a SYSTEM turn on success or an ERROR turn
// with a fixed message on any failure, in which case *domain.ErrConnectivity
// is returned. Failures are never retried.
func (d *Dispatcher) Submit(ctx context.Context, transcript string) (*domain.CommandResponse, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, &domain.ErrValidation{Field: "transcript", Message: "must not be empty"}
	}

	if !d.gate.TryAcquire() {
		d.metrics.IncrCommand("rejected")
		return nil, domain.ErrProcessing
	}
	defer d.gate.Release()

	ctx, span := tracer.Start(ctx, "Dispatcher.Submit")
	defer span.End()

	d.history.Append(domain.TurnUser, transcript, nil)
	d.metrics.IncrTurn(domain.TurnUser)

	start := time.Now()
	resp, err := d.commands.SubmitCommand(ctx, transcript)
	d.metrics.RecordRequestDuration("command", time.Since(start))
	if err == nil && resp == nil {
		err = errors.New("empty response from command service")
	}

	if err != nil {
		d.logger.Error("command dispatch failed",
			zap.Int("transcript_length", len(transcript)),
			zap.Error(err),
		)
		d.metrics.IncrExternalError("command")
		d.metrics.IncrCommand("error")
		d.history.Append(domain.TurnError, domain.ConnectivityErrorMessage, nil)
		d.metrics.IncrTurn(domain.TurnError)
		span.RecordError(err)
		return nil, &domain.ErrConnectivity{Err: err}
	}

	span.SetAttributes(
		attribute.String("policy.decision", string(resp.PolicyDecision)),
		attribute.String("intent.type", string(resp.IntentTypeOf())),
	)
	d.logger.Info("command processed",
		zap.String("decision", string(resp.PolicyDecision)),
		zap.String("intent", string(resp.IntentTypeOf())),
		zap.String("status", resp.Status),
	)
	d.metrics.IncrCommand("success")
	d.history.Append(domain.TurnSystem, resp.Message, resp)
	d.metrics.IncrTurn(domain.TurnSystem)
	return resp, nil
}
