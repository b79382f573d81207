package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/interview-labs/internal/identity"
	"github.com/ashureev/interview-labs/internal/session"
	"github.com/ashureev/interview-labs/internal/store"
	"github.com/coder/websocket"
)

// WebSocketHandler upgrades clients onto an interview session's status
// stream. The session's clock loop pushes one frame per second; the read
// side of the connection only exists to notice disconnects.
type WebSocketHandler struct {
	repo          store.Repository
	sessions      *session.Manager
	allowedOrigin string
	isDev         bool
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(repo store.Repository, sessions *session.Manager, allowedOrigin string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		repo:          repo,
		sessions:      sessions,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "sessionId is required", http.StatusBadRequest)
		return
	}

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	sess, err := h.repo.GetSession(r.Context(), sessionID)
	if err != nil {
		slog.Error("Failed to load session for status stream", "error", err, "session_id", sessionID)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}
	if sess == nil || sess.UserID != userID {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	// Reconnects after a server restart land here with no live state; the
	// clock resumes from the persisted elapsed value.
	h.sessions.Track(context.WithoutCancel(r.Context()), sess)

	if !h.sessions.Register(sessionID, ws) {
		slog.Warn("Session not live, rejecting status stream", "session_id", sessionID)
		return
	}
	defer h.sessions.Unregister(sessionID, ws)

	slog.Info("Status stream connected", "session_id", sessionID, "user_id", userID)

	// Drain the connection until the client goes away. Clients send nothing
	// meaningful on this stream.
	ctx := r.Context()
	for {
		if _, _, err := ws.Read(ctx); err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "user_id", userID)
			} else {
				slog.Debug("WebSocket read ended", "error", err, "user_id", userID)
			}
			break
		}

		// Any inbound traffic counts as activity.
		go func() {
			updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.repo.UpdateLastSeen(updateCtx, userID, time.Now()); err != nil {
				slog.Warn("Failed to update last seen", "error", err)
			}
		}()
	}

	slog.Info("Status stream disconnected", "session_id", sessionID, "user_id", userID)
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}
