package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type reportRequest struct {
	SessionID string `json:"sessionId"`
}

// GeneratePerformanceReport evaluates the full interview and returns the
// structured performance report. Unlike chat turns there is no graceful
// fallback: a failed or unparseable evaluation is a hard error, since a
// fabricated report would be worse than none.
func (h *InterviewHandler) GeneratePerformanceReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request format")
		return
	}
	if req.SessionID == "" {
		Error(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	sess, ok := h.loadOwnedSession(w, r, req.SessionID)
	if !ok {
		return
	}
	if len(sess.Transcript) == 0 {
		Error(w, http.StatusBadRequest, "nothing to evaluate")
		return
	}

	h.syncElapsed(sess)
	duration := sess.ElapsedSeconds

	report, err := h.evaluator.Evaluate(r.Context(), sess.Problem, sess.UserCode, sess.Transcript, duration)
	if err != nil {
		slog.Error("Performance evaluation failed", "error", err, "session_id", sess.ID)
		Error(w, http.StatusBadGateway, "failed to generate performance report")
		return
	}

	slog.Info("Performance report generated",
		"session_id", sess.ID,
		"overall_score", report.OverallScore,
		"duration_seconds", duration)

	JSON(w, http.StatusOK, report)
}
