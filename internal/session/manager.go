// Package session manages live interview sessions: the per-session wall-clock
// timer, the rate-limit countdown tracker, and WebSocket status streaming.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/interview-labs/internal/domain"
	"github.com/ashureev/interview-labs/internal/ratelimit"
	"github.com/coder/websocket"
)

// Frame is the per-second status push sent to connected clients.
type Frame struct {
	Type           string           `json:"type"`
	SessionID      string           `json:"sessionId"`
	ElapsedSeconds int              `json:"elapsedSeconds"`
	Stage          domain.Stage     `json:"stage"`
	Progress       int              `json:"progress"`
	RateLimit      ratelimit.Status `json:"rateLimit"`
}

// live is the in-memory state of one active interview session.
type live struct {
	id     string
	userID string
	cancel context.CancelFunc

	mu      sync.Mutex
	elapsed int
	stage   domain.Stage
	tracker *ratelimit.Tracker
	conns   map[*websocket.Conn]struct{}
}

// Manager owns all live sessions. Each tracked session runs a single
// 1-second loop that advances the interview clock (until the terminal stage),
// recomputes the rate-limit countdown, and pushes a status frame to any
// registered WebSocket connections. Teardown cancels the loop and closes the
// connections so no periodic task outlives its session.
type Manager struct {
	mu   sync.RWMutex
	live map[string]*live
}

// NewManager creates a new session manager.
func NewManager() *Manager {
	return &Manager{live: make(map[string]*live)}
}

// Track registers a session and starts its clock loop. The elapsed counter
// resumes from the session's persisted value. Tracking an already-live
// session is a no-op.
func (m *Manager) Track(ctx context.Context, sess *domain.InterviewSession) {
	m.mu.Lock()
	if _, exists := m.live[sess.ID]; exists {
		m.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	l := &live{
		id:      sess.ID,
		userID:  sess.UserID,
		cancel:  cancel,
		elapsed: sess.ElapsedSeconds,
		stage:   sess.Stage,
		tracker: ratelimit.NewTracker(),
		conns:   make(map[*websocket.Conn]struct{}),
	}
	m.live[sess.ID] = l
	m.mu.Unlock()

	go l.run(ctx)
	slog.Info("Interview session tracked", "session_id", sess.ID, "user_id", sess.UserID)
}

// Teardown stops a session's clock loop and closes its connections.
func (m *Manager) Teardown(sessionID string) {
	m.mu.Lock()
	l, ok := m.live[sessionID]
	if ok {
		delete(m.live, sessionID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	l.cancel()
	l.mu.Lock()
	for conn := range l.conns {
		_ = conn.Close(websocket.StatusNormalClosure, "session ended")
	}
	l.conns = make(map[*websocket.Conn]struct{})
	l.mu.Unlock()
	slog.Info("Interview session torn down", "session_id", sessionID)
}

// SetStage commits a stage for a live session. The terminal stage is
// absorbing: once finished, later commits are ignored and the clock stays
// stopped.
func (m *Manager) SetStage(sessionID string, stage domain.Stage) {
	if l := m.get(sessionID); l != nil {
		l.mu.Lock()
		if !l.stage.Terminal() {
			l.stage = stage
		}
		l.mu.Unlock()
	}
}

// Observe re-arms the session's rate-limit tracker with a fresh snapshot.
func (m *Manager) Observe(sessionID string, snapshot *domain.GroqRateLimitInfo) {
	if snapshot == nil {
		return
	}
	if l := m.get(sessionID); l != nil {
		l.mu.Lock()
		l.tracker.Observe(snapshot)
		l.mu.Unlock()
	}
}

// Elapsed returns the current interview clock value in seconds.
func (m *Manager) Elapsed(sessionID string) int {
	if l := m.get(sessionID); l != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.elapsed
	}
	return 0
}

// IsLive reports whether the session is currently tracked.
func (m *Manager) IsLive(sessionID string) bool {
	return m.get(sessionID) != nil
}

// Register attaches a WebSocket connection to a live session's status stream.
// Returns false when the session is not tracked.
func (m *Manager) Register(sessionID string, conn *websocket.Conn) bool {
	l := m.get(sessionID)
	if l == nil {
		return false
	}
	l.mu.Lock()
	l.conns[conn] = struct{}{}
	l.mu.Unlock()
	return true
}

// Unregister detaches a WebSocket connection.
func (m *Manager) Unregister(sessionID string, conn *websocket.Conn) {
	if l := m.get(sessionID); l != nil {
		l.mu.Lock()
		delete(l.conns, conn)
		l.mu.Unlock()
	}
}

func (m *Manager) get(sessionID string) *live {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.live[sessionID]
}

// run is the session's single periodic task. It ticks once per second until
// teardown cancels the context.
func (l *live) run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.tick(ctx, time.Now())
		case <-ctx.Done():
			return
		}
	}
}

func (l *live) tick(ctx context.Context, now time.Time) {
	l.mu.Lock()
	if !l.stage.Terminal() {
		l.elapsed++
	}
	l.tracker.Tick(now)

	frame := Frame{
		Type:           "tick",
		SessionID:      l.id,
		ElapsedSeconds: l.elapsed,
		Stage:          l.stage,
		Progress:       l.stage.Progress(),
		RateLimit:      l.tracker.Status(now),
	}
	conns := make([]*websocket.Conn, 0, len(l.conns))
	for conn := range l.conns {
		conns = append(conns, conn)
	}
	l.mu.Unlock()

	if len(conns) == 0 {
		return
	}

	data, err := json.Marshal(frame)
	if err != nil {
		slog.Warn("failed to marshal status frame", "error", err, "session_id", l.id)
		return
	}

	for _, conn := range conns {
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			// Dead connection; drop it and let the reader loop clean up.
			l.mu.Lock()
			delete(l.conns, conn)
			l.mu.Unlock()
			slog.Debug("dropping status stream connection", "error", err, "session_id", l.id)
		}
	}
}
