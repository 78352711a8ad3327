package handler

import (
	"net/http"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/service"
	"github.com/Ari-Han-t/CAPS/internal/view"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// fraudPanel is the fraud view plus the display cards of its merchants.
type fraudPanel struct {
	service.FraudView
	Cards []view.MerchantCard `json:"cards"`
}

func newFraudPanel(v service.FraudView) fraudPanel {
	return fraudPanel{FraudView: v, Cards: view.MerchantCards(v.Merchants)}
}

func fraudViewHandler(sess *service.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newFraudPanel(sess.Fraud.View()))
	}
}

func fraudOpenHandler(sess *service.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/fraud/open")
		defer span.End()
		writeJSON(w, http.StatusOK, newFraudPanel(sess.Fraud.Open(ctx)))
	}
}

func fraudCloseHandler(sess *service.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newFraudPanel(sess.Fraud.Close()))
	}
}

func fraudRefreshHandler(sess *service.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/fraud/refresh")
		defer span.End()
		writeJSON(w, http.StatusOK, newFraudPanel(sess.Fraud.Refresh(ctx)))
	}
}

func fraudMerchantHandler(sess *service.Session, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := sess.Fraud.Merchant(chi.URLParam(r, "vpa"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, view.NewMerchantCard(m))
	}
}

type reportRequest struct {
	MerchantVPA string                `json:"merchant_vpa"`
	Category    domain.ReportCategory `json:"category"`
	Reason      string                `json:"reason"`
}

func reportFormHandler(sess *service.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sess.Report.State())
	}
}

func reportEditHandler(sess *service.Session, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reportRequest
		if _, err := decodeOptionalJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		st, err := sess.Report.Edit(req.MerchantVPA, req.Category, req.Reason)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// reportSubmitHandler submits the form. A body replaces the inputs first;
// an empty body submits what was saved with PUT.
func reportSubmitHandler(sess *service.Session, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/fraud/report")
		defer span.End()

		var req reportRequest
		hasBody, err := decodeOptionalJSON(r, &req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var result *domain.ReportResult
		if hasBody {
			result, err = sess.Report.Report(ctx, req.MerchantVPA, req.Category, req.Reason)
		} else {
			result, err = sess.Report.Submit(ctx)
		}
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"result": result,
			"form":   sess.Report.State(),
			"fraud":  newFraudPanel(sess.Fraud.View()),
		})
	}
}
