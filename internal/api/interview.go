package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ashureev/interview-labs/internal/config"
	"github.com/ashureev/interview-labs/internal/domain"
	"github.com/ashureev/interview-labs/internal/identity"
	"github.com/ashureev/interview-labs/internal/interview"
	"github.com/ashureev/interview-labs/internal/runner"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxRequestBodySize is the maximum allowed request body size (1MB).
const maxRequestBodySize = 1 << 20

// defaultLanguage is the starter-code language slug used for new sessions.
const defaultLanguage = "python3"

// codeRunFailure is returned when the execution service is unreachable.
const codeRunFailure = "Failed to run code."

// turnLocks prevents concurrent turns on the same session. The UI disables
// the send action while a call is outstanding, but the server enforces it
// anyway.
var turnLocks sync.Map

// TurnAdvancer runs one interviewer turn.
type TurnAdvancer interface {
	Advance(ctx context.Context, transcript []domain.Message, ictx domain.Context) interview.TurnResult
}

// PerformanceEvaluator produces the end-of-interview report.
type PerformanceEvaluator interface {
	Evaluate(ctx context.Context, problem *domain.Problem, userCode string, transcript []domain.Message, durationSeconds int) (*domain.PerformanceReport, error)
}

// ProblemFetcher fetches coding problems from the problem bank.
type ProblemFetcher interface {
	Random(ctx context.Context) (*domain.Problem, error)
}

// CodeRunner executes candidate code via the remote execution service.
type CodeRunner interface {
	Execute(ctx context.Context, code, language, version string) (string, error)
	Runtimes(ctx context.Context) ([]runner.Runtime, error)
}

// InterviewHandler handles interview session endpoints.
type InterviewHandler struct {
	*Handler
	orchestrator TurnAdvancer
	evaluator    PerformanceEvaluator
	problems     ProblemFetcher
	runner       CodeRunner
	transcripts  *interview.TranscriptLogger
	cfg          *config.Config
}

// NewInterviewHandler creates the interview handler.
func NewInterviewHandler(base *Handler, orch TurnAdvancer, eval PerformanceEvaluator, problems ProblemFetcher, run CodeRunner, transcripts *interview.TranscriptLogger, cfg *config.Config) *InterviewHandler {
	return &InterviewHandler{
		Handler:      base,
		orchestrator: orch,
		evaluator:    eval,
		problems:     problems,
		runner:       run,
		transcripts:  transcripts,
		cfg:          cfg,
	}
}

// RegisterRoutes registers interview routes.
func (h *InterviewHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/me", h.GetMe)
		r.Get("/config", h.GetConfig)
		r.Post("/interview/start", h.StartInterview)
		r.Post("/interview/message", h.SendMessage)
		r.Post("/interview/code", h.EvaluateCode)
		r.Put("/interview/code", h.SaveCode)
		r.Post("/interview/finish", h.FinishInterview)
		r.Post("/report/performance", h.GeneratePerformanceReport)
		r.Get("/problems/random", h.RandomProblem)
		r.Post("/execute", h.ExecuteCode)
		r.Get("/runtimes", h.ListRuntimes)
	})
}

// GetMe returns the current user's information.
func (h *InterviewHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.repo.GetUser(r.Context(), userID)
	if err != nil || user == nil {
		Error(w, http.StatusUnauthorized, "user not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"user_id":  user.UserID,
		"username": user.Username,
	})
}

// GetConfig returns the server configuration for the frontend.
func (h *InterviewHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"stage_model":    h.cfg.Groq.StageModel,
		"response_model": h.cfg.Groq.ResponseModel,
	})
}

type startRequest struct {
	Language string `json:"language"`
}

type startResponse struct {
	Session   *domain.InterviewSession  `json:"session"`
	Reply     string                    `json:"reply"`
	Stage     domain.Stage              `json:"stage"`
	RateLimit *domain.GroqRateLimitInfo `json:"rateLimit,omitempty"`
	Runtimes  []runner.Runtime          `json:"runtimes"`
}

// StartInterview creates a new interview session: it fetches a random problem
// and the supported runtimes, seeds starter code, and generates the
// interviewer's greeting turn.
func (h *InterviewHandler) StartInterview(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req startRequest
	if r.Body != nil {
		// Body is optional; a missing or empty body selects the defaults.
		_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req)
	}
	language := req.Language
	if language == "" {
		language = defaultLanguage
	}

	ctx := r.Context()

	// The problem and runtime fetches are independent; issue them together.
	var problem *domain.Problem
	var runtimes []runner.Runtime
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := h.problems.Random(gctx)
		if err != nil {
			slog.Error("Failed to fetch random problem, using fallback", "error", err)
			p = domain.ErrorProblem()
		}
		problem = p
		return nil
	})
	g.Go(func() error {
		rts, err := h.runner.Runtimes(gctx)
		if err != nil {
			slog.Warn("Failed to fetch runtimes", "error", err)
			return nil
		}
		runtimes = rts
		return nil
	})
	_ = g.Wait()

	version := ""
	for _, rt := range runtimes {
		if rt.Language == language {
			version = rt.Version
			break
		}
	}

	now := time.Now()
	sess := &domain.InterviewSession{
		ID:             uuid.NewString(),
		UserID:         userID,
		Problem:        problem,
		UserCode:       problem.StarterCode(language),
		Language:       language,
		RuntimeVersion: version,
		Stage:          domain.StageIntroduction,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Greeting turn: the transcript is empty, so the orchestrator skips the
	// classifier and generates with the introduction stage.
	result := h.orchestrator.Advance(ctx, sess.Transcript, sess.Context())
	sess.Stage = result.Stage
	sess.Append(domain.RoleAssistant, result.Reply)

	if err := h.repo.UpsertSession(ctx, sess); err != nil {
		slog.Error("Failed to persist new session", "error", err, "user_id", userID)
		Error(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	h.sessions.Track(context.WithoutCancel(ctx), sess)
	h.sessions.Observe(sess.ID, result.RateLimit)
	h.logTurn(sess, domain.RoleAssistant, result.Reply)

	slog.Info("Interview session started",
		"session_id", sess.ID,
		"user_id", userID,
		"problem", problem.TitleSlug,
		"language", language)

	JSON(w, http.StatusOK, startResponse{
		Session:   sess,
		Reply:     result.Reply,
		Stage:     result.Stage,
		RateLimit: result.RateLimit,
		Runtimes:  runtimes,
	})
}

type messageRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type turnResponse struct {
	Reply     string                    `json:"reply"`
	Stage     domain.Stage              `json:"stage"`
	RateLimit *domain.GroqRateLimitInfo `json:"rateLimit,omitempty"`
	Output    string                    `json:"output,omitempty"`
}

// SendMessage handles one candidate chat message and returns the
// interviewer's reply.
func (h *InterviewHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request format")
		return
	}
	if req.SessionID == "" || req.Message == "" {
		Error(w, http.StatusBadRequest, "sessionId and message are required")
		return
	}

	sess, ok := h.loadOwnedSession(w, r, req.SessionID)
	if !ok {
		return
	}
	if sess.Finished() {
		Error(w, http.StatusConflict, "interview_finished")
		return
	}

	release, ok := h.lockTurn(w, req.SessionID)
	if !ok {
		return
	}
	defer release()

	ctx := r.Context()
	sess.Append(domain.RoleUser, req.Message)
	h.logTurn(sess, domain.RoleUser, req.Message)

	result := h.orchestrator.Advance(ctx, sess.Transcript, sess.Context())
	h.commitTurn(ctx, sess, result)

	JSON(w, http.StatusOK, turnResponse{
		Reply:     result.Reply,
		Stage:     result.Stage,
		RateLimit: result.RateLimit,
	})
}

type codeRequest struct {
	SessionID string `json:"sessionId"`
	Code      string `json:"code"`
	Language  string `json:"language"`
	Version   string `json:"version"`
}

// EvaluateCode runs the candidate's code via the execution service, folds the
// code and output into the transcript as a candidate turn, and asks the
// interviewer to respond.
func (h *InterviewHandler) EvaluateCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request format")
		return
	}
	if req.SessionID == "" || req.Code == "" {
		Error(w, http.StatusBadRequest, "sessionId and code are required")
		return
	}

	sess, ok := h.loadOwnedSession(w, r, req.SessionID)
	if !ok {
		return
	}
	if sess.Finished() {
		Error(w, http.StatusConflict, "interview_finished")
		return
	}

	release, ok := h.lockTurn(w, req.SessionID)
	if !ok {
		return
	}
	defer release()

	ctx := r.Context()
	sess.UserCode = req.Code
	if req.Language != "" {
		sess.Language = req.Language
	}
	if req.Version != "" {
		sess.RuntimeVersion = req.Version
	}

	output, err := h.runner.Execute(ctx, sess.UserCode, sess.Language, sess.RuntimeVersion)
	if err != nil {
		// Execution failure is recoverable: report it and skip the turn.
		slog.Error("Code execution failed", "error", err, "session_id", sess.ID)
		if persistErr := h.repo.UpsertSession(ctx, sess); persistErr != nil {
			slog.Error("Failed to checkpoint session", "error", persistErr, "session_id", sess.ID)
		}
		JSON(w, http.StatusOK, turnResponse{Output: codeRunFailure, Stage: sess.Stage})
		return
	}

	userMsg := fmt.Sprintf("Here's my code:\n\n```%s\n%s\n```\n\nOutput:\n```\n%s\n```",
		sess.Language, sess.UserCode, output)
	sess.Append(domain.RoleUser, userMsg)
	h.logTurn(sess, domain.RoleUser, userMsg)

	result := h.orchestrator.Advance(ctx, sess.Transcript, sess.Context())
	h.commitTurn(ctx, sess, result)

	JSON(w, http.StatusOK, turnResponse{
		Reply:     result.Reply,
		Stage:     result.Stage,
		RateLimit: result.RateLimit,
		Output:    output,
	})
}

// SaveCode checkpoints the code under edit without running it.
func (h *InterviewHandler) SaveCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
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

	sess.UserCode = req.Code
	if req.Language != "" {
		sess.Language = req.Language
	}
	if req.Version != "" {
		sess.RuntimeVersion = req.Version
	}
	h.syncElapsed(sess)

	if err := h.repo.UpsertSession(r.Context(), sess); err != nil {
		slog.Error("Failed to save code", "error", err, "session_id", sess.ID)
		Error(w, http.StatusInternalServerError, "failed to save code")
		return
	}

	JSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

type finishRequest struct {
	SessionID string `json:"sessionId"`
}

// FinishInterview terminates the interview early. The finished stage is
// absorbing: the clock stops permanently and no further turns are issued.
func (h *InterviewHandler) FinishInterview(w http.ResponseWriter, r *http.Request) {
	var req finishRequest
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

	if !sess.Finished() {
		h.syncElapsed(sess)
		sess.Stage = domain.StageFinished
		closing := sess.ClosingMessage()
		sess.Append(domain.RoleAssistant, closing)
		h.logTurn(sess, domain.RoleAssistant, closing)

		h.sessions.SetStage(sess.ID, domain.StageFinished)

		if err := h.repo.UpsertSession(r.Context(), sess); err != nil {
			slog.Error("Failed to persist finished session", "error", err, "session_id", sess.ID)
			Error(w, http.StatusInternalServerError, "failed to finish interview")
			return
		}
		slog.Info("Interview finished early", "session_id", sess.ID, "elapsed_seconds", sess.ElapsedSeconds)
	}

	closing := ""
	if n := len(sess.Transcript); n > 0 {
		closing = sess.Transcript[n-1].Content
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"stage":           sess.Stage,
		"elapsed_seconds": sess.ElapsedSeconds,
		"message":         closing,
	})
}

// syncElapsed folds the live clock into the session checkpoint. The live
// value only ever advances the persisted one: after a server restart the
// session has no live state yet and Elapsed reports zero, which must not
// erase the stored duration.
func (h *InterviewHandler) syncElapsed(sess *domain.InterviewSession) {
	if live := h.sessions.Elapsed(sess.ID); live > sess.ElapsedSeconds {
		sess.ElapsedSeconds = live
	}
}

// commitTurn applies a turn result to the session and checkpoints it.
func (h *InterviewHandler) commitTurn(ctx context.Context, sess *domain.InterviewSession, result interview.TurnResult) {
	sess.Stage = result.Stage
	sess.Append(domain.RoleAssistant, result.Reply)
	h.syncElapsed(sess)

	h.sessions.SetStage(sess.ID, result.Stage)
	h.sessions.Observe(sess.ID, result.RateLimit)
	h.logTurn(sess, domain.RoleAssistant, result.Reply)

	if err := h.repo.UpsertSession(ctx, sess); err != nil {
		slog.Error("Failed to checkpoint session", "error", err, "session_id", sess.ID)
	}
}

// loadOwnedSession loads a session and verifies the requester owns it,
// writing the error response itself when it does not.
func (h *InterviewHandler) loadOwnedSession(w http.ResponseWriter, r *http.Request, sessionID string) (*domain.InterviewSession, bool) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}

	sess, err := h.repo.GetSession(r.Context(), sessionID)
	if err != nil {
		slog.Error("Failed to load session", "error", err, "session_id", sessionID)
		Error(w, http.StatusInternalServerError, "failed to load session")
		return nil, false
	}
	if sess == nil {
		Error(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	if sess.UserID != userID {
		Error(w, http.StatusForbidden, "forbidden")
		return nil, false
	}
	return sess, true
}

// lockTurn takes the per-session turn lock, rejecting concurrent turns.
func (h *InterviewHandler) lockTurn(w http.ResponseWriter, sessionID string) (func(), bool) {
	lock, _ := turnLocks.LoadOrStore(sessionID, &sync.Mutex{})
	mutex := lock.(*sync.Mutex)
	if !mutex.TryLock() {
		slog.Warn("Turn already in progress", "session_id", sessionID)
		Error(w, http.StatusConflict, "turn_in_progress")
		return nil, false
	}
	return func() {
		mutex.Unlock()
		turnLocks.Delete(sessionID)
	}, true
}

func (h *InterviewHandler) logTurn(sess *domain.InterviewSession, role, content string) {
	if h.transcripts == nil {
		return
	}
	h.transcripts.Log(interview.TranscriptEvent{
		UserID:    sess.UserID,
		SessionID: sess.ID,
		Role:      role,
		Stage:     string(sess.Stage),
		Content:   content,
	})
}
