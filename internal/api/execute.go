package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ashureev/interview-labs/internal/domain"
)

// RandomProblem returns a random coding problem from the problem bank.
// On fetch failure the fixed error problem is returned so the editor always
// has something to render.
func (h *InterviewHandler) RandomProblem(w http.ResponseWriter, r *http.Request) {
	problem, err := h.problems.Random(r.Context())
	if err != nil {
		slog.Error("Failed to fetch random problem", "error", err)
		JSON(w, http.StatusOK, domain.ErrorProblem())
		return
	}
	JSON(w, http.StatusOK, problem)
}

// ListRuntimes returns the execution service's supported language runtimes.
func (h *InterviewHandler) ListRuntimes(w http.ResponseWriter, r *http.Request) {
	runtimes, err := h.runner.Runtimes(r.Context())
	if err != nil {
		slog.Error("Failed to fetch runtimes", "error", err)
		Error(w, http.StatusBadGateway, "failed to fetch runtimes")
		return
	}
	JSON(w, http.StatusOK, runtimes)
}

type executeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Version  string `json:"version"`
}

type executeResponse struct {
	Output string `json:"output"`
}

// ExecuteCode runs a standalone code snippet without touching any session.
// Execution failure is reported in-band as the output string so the editor
// surface stays usable.
func (h *InterviewHandler) ExecuteCode(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request format")
		return
	}
	if req.Code == "" || req.Language == "" {
		Error(w, http.StatusBadRequest, "code and language are required")
		return
	}

	output, err := h.runner.Execute(r.Context(), req.Code, req.Language, req.Version)
	if err != nil {
		slog.Error("Code execution failed", "error", err, "language", req.Language)
		JSON(w, http.StatusOK, executeResponse{Output: codeRunFailure})
		return
	}
	JSON(w, http.StatusOK, executeResponse{Output: output})
}
