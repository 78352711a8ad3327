package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeOptionalJSON decodes the body into v. An empty body is not an error.
func decodeOptionalJSON(r *http.Request, v any) (bool, error) {
	if r.Body == nil || r.ContentLength == 0 {
		return false, nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var validation *domain.ErrValidation
	var connectivity *domain.ErrConnectivity
	var reportFailed *domain.ErrReportSubmission
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrProcessing), errors.Is(err, domain.ErrNotListening):
		logger.Debug("conflict", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &connectivity):
		logger.Warn("command service unreachable", zap.Error(err))
		writeError(w, http.StatusBadGateway, domain.ConnectivityErrorMessage)
	case errors.As(err, &reportFailed):
		logger.Warn("report submission failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, service.ReportErrorMessage)
	case errors.As(err, &external):
		logger.Error("external service error", zap.String("service", external.Service), zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
