package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/infra/observability"
	"github.com/Ari-Han-t/CAPS/internal/port"

	"go.uber.org/zap"
)

// ReportErrorMessage is shown inline when a report cannot be submitted.
const ReportErrorMessage = "Error submitting report"

// ReportFormState is the merchant report form as the user sees it.
type ReportFormState struct {
	MerchantVPA string                `json:"merchant_vpa"`
	Category    domain.ReportCategory `json:"category"`
	Reason      string                `json:"reason"`
	Submitting  bool                  `json:"submitting"`
	Message     string                `json:"message,omitempty"`
	Succeeded   bool                  `json:"succeeded"`
}

type refresher interface {
	Refresh(ctx context.Context) FraudView
}

// ReportForm holds the report inputs and submits them.
type ReportForm struct {
	reporter  port.MerchantReporter
	refresher refresher
	metrics   *observability.Metrics
	logger    *zap.Logger

	mu    sync.Mutex
	state ReportFormState
}

// NewReportForm creates a form with the SCAM category preselected.
func NewReportForm(reporter port.MerchantReporter, refresher refresher, metrics *observability.Metrics, logger *zap.Logger) *ReportForm {
	return &ReportForm{
		reporter:  reporter,
		refresher: refresher,
		metrics:   metrics,
		logger:    logger,
		state:     ReportFormState{Category: domain.ReportScam},
	}
}

// State returns the current form state.
func (f *ReportForm) State() ReportFormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Edit replaces the inputs. An empty category keeps the current selection.
func (f *ReportForm) Edit(vpa string, category domain.ReportCategory, reason string) (ReportFormState, error) {
	if category != "" && !category.Valid() {
		return f.State(), &domain.ErrValidation{Field: "category", Message: fmt.Sprintf("unknown category %q", category)}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.MerchantVPA = vpa
	f.state.Reason = reason
	if category != "" {
		f.state.Category = category
	}
	return f.state, nil
}

// Report edits the form and submits it in one step.
func (f *ReportForm) Report(ctx context.Context, vpa string, category domain.ReportCategory, reason string) (*domain.ReportResult, error) {
	if _, err := f.Edit(vpa, category, reason); err != nil {
		return nil, err
	}
	return f.Submit(ctx)
}

// Submit sends the current inputs to the fraud service.
//
// On success the identifier and reason are cleared, the category is kept and
// the fraud view is refreshed exactly once. On failure every input is kept
// and *domain.ErrReportSubmission is returned.
func (f *ReportForm) Submit(ctx context.Context) (*domain.ReportResult, error) {
	ctx, span := tracer.Start(ctx, "ReportForm.Submit")
	defer span.End()

	f.mu.Lock()
	if f.state.Submitting {
		f.mu.Unlock()
		return nil, domain.ErrProcessing
	}
	vpa := strings.TrimSpace(f.state.MerchantVPA)
	if vpa == "" {
		f.mu.Unlock()
		return nil, &domain.ErrValidation{Field: "merchant_vpa", Message: "is required"}
	}
	if !f.state.Category.Valid() {
		f.mu.Unlock()
		return nil, &domain.ErrValidation{Field: "category", Message: "is required"}
	}
	req := &domain.MerchantReportRequest{
		MerchantVPA: vpa,
		ReportType:  f.state.Category,
		Reason:      strings.TrimSpace(f.state.Reason),
	}
	f.state.Submitting = true
	f.state.Message = ""
	f.state.Succeeded = false
	f.mu.Unlock()

	result, err := f.reporter.SubmitMerchantReport(ctx, req)
	if err == nil && result == nil {
		err = errors.New("empty response from fraud service")
	}

	f.mu.Lock()
	f.state.Submitting = false
	if err != nil {
		f.state.Message = ReportErrorMessage
		f.mu.Unlock()

		f.logger.Error("merchant report failed",
			zap.String("merchant_vpa", vpa),
			zap.String("category", string(req.ReportType)),
			zap.Error(err),
		)
		f.metrics.IncrReport("error")
		span.RecordError(err)
		return nil, &domain.ErrReportSubmission{Err: err}
	}

	f.state.MerchantVPA = ""
	f.state.Reason = ""
	f.state.Succeeded = true
	f.state.Message = fmt.Sprintf("%s Reported! Badge: %s", result.UpdatedBadgeEmoji, result.UpdatedBadge.Label())
	f.mu.Unlock()

	f.logger.Info("merchant reported",
		zap.String("merchant_vpa", vpa),
		zap.String("category", string(req.ReportType)),
		zap.String("badge", string(result.UpdatedBadge)),
	)
	f.metrics.IncrReport("success")

	f.refresher.Refresh(ctx)
	return result, nil
}
