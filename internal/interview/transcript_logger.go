package interview

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashureev/interview-labs/internal/config"
)

// TranscriptEvent is one NDJSON line in a session's transcript log.
type TranscriptEvent struct {
	Timestamp string `json:"ts"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Stage     string `json:"stage"`
	Content   string `json:"content"`
}

// TranscriptLogger appends interview turns to per-session NDJSON files under
// dir/<user_id>/<session_id>.ndjson. Writes happen on a background worker so
// logging never blocks a turn; events are dropped with a warning when the
// queue is full.
type TranscriptLogger struct {
	enabled bool
	dir     string
	queue   chan TranscriptEvent
	wg      sync.WaitGroup
	log     *slog.Logger

	closeOnce sync.Once
}

// NewTranscriptLogger creates the logger and starts its worker when enabled.
func NewTranscriptLogger(cfg config.TranscriptLogConfig, logger *slog.Logger) (*TranscriptLogger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	l := &TranscriptLogger{
		enabled: cfg.Enabled,
		dir:     cfg.Dir,
		log:     logger,
	}
	if !cfg.Enabled {
		return l, nil
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create transcript log dir: %w", err)
	}

	l.queue = make(chan TranscriptEvent, cfg.QueueSize)
	l.wg.Add(1)
	go l.worker()
	return l, nil
}

// Log enqueues an event without blocking. Timestamp is filled in if empty.
func (l *TranscriptLogger) Log(ev TranscriptEvent) {
	if !l.enabled {
		return
	}
	if ev.Timestamp == "" {
		ev.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	select {
	case l.queue <- ev:
	default:
		l.log.Warn("transcript log queue full, dropping event",
			"user_id", ev.UserID, "session_id", ev.SessionID)
	}
}

// Close drains the queue and stops the worker.
func (l *TranscriptLogger) Close() error {
	if !l.enabled {
		return nil
	}
	l.closeOnce.Do(func() {
		close(l.queue)
	})
	l.wg.Wait()
	return nil
}

func (l *TranscriptLogger) worker() {
	defer l.wg.Done()
	for ev := range l.queue {
		if err := l.write(ev); err != nil {
			l.log.Warn("failed to write transcript event",
				"error", err, "user_id", ev.UserID, "session_id", ev.SessionID)
		}
	}
}

func (l *TranscriptLogger) write(ev TranscriptEvent) error {
	userDir := filepath.Join(l.dir, ev.UserID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return fmt.Errorf("create user log dir: %w", err)
	}

	path := filepath.Join(userDir, ev.SessionID+".ndjson")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transcript log: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal transcript event: %w", err)
	}
	line = append(line, '\n')
	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append transcript event: %w", err)
	}
	return nil
}
