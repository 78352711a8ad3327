package handler

import (
	"net/http"
	"time"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/service"
	"github.com/Ari-Han-t/CAPS/internal/view"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// commandResult is the answer to a dispatched command.
type commandResult struct {
	Response  *domain.CommandResponse `json:"response"`
	Fragments []view.Fragment         `json:"fragments"`
}

func newCommandResult(resp *domain.CommandResponse) commandResult {
	return commandResult{Response: resp, Fragments: view.Classify(resp, time.Now())}
}

func voiceStatusHandler(sess *service.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sess.Voice.Status())
	}
}

func voiceStartHandler(sess *service.Session, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := sess.Voice.Start()
		if err != nil {
			logger.Error("voice start failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "speech capture unavailable")
			return
		}
		if !ok {
			writeJSON(w, http.StatusConflict, sess.Voice.Status())
			return
		}
		writeJSON(w, http.StatusOK, sess.Voice.Status())
	}
}

func voiceTranscriptHandler(sess *service.Session, sink TranscriptSink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sink == nil {
			writeError(w, http.StatusNotImplemented, "transcript push not supported by this capture")
			return
		}

		var req struct {
			Text string `json:"text"`
		}
		if _, err := decodeOptionalJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if !sink.Update(req.Text) {
			writeJSON(w, http.StatusConflict, sess.Voice.Status())
			return
		}
		writeJSON(w, http.StatusOK, sess.Voice.Status())
	}
}

func voiceStopHandler(sess *service.Session, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/voice/stop")
		defer span.End()

		resp, err := sess.Voice.Stop(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("policy.decision", string(resp.PolicyDecision)))
		writeJSON(w, http.StatusOK, newCommandResult(resp))
	}
}

func commandHandler(sess *service.Session, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/commands")
		defer span.End()

		var req struct {
			Transcript string `json:"transcript"`
		}
		if _, err := decodeOptionalJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := sess.Dispatcher.Submit(ctx, req.Transcript)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, newCommandResult(resp))
	}
}

func historyHandler(sess *service.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"turns": view.RenderTurns(sess.History.Items()),
		})
	}
}
