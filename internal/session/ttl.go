package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/interview-labs/internal/store"
)

const ttlWorkerInterval = 5 * time.Minute

// deepCleanupTTL bounds the bulk sweep that catches rows whose individual
// deletes kept failing (for example under sustained database contention).
const deepCleanupTTL = 7 * 24 * time.Hour

// StartTTLWorker runs a background goroutine that periodically sweeps for
// idle interview sessions, tears down their live state, and removes them
// from the store.
func StartTTLWorker(ctx context.Context, repo store.Repository, mgr *Manager, ttl time.Duration) {
	ticker := time.NewTicker(ttlWorkerInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("TTL worker started", "interval", ttlWorkerInterval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				cleanupExpiredSessions(ctx, repo, mgr, ttl)
			case <-ctx.Done():
				slog.Info("TTL worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func cleanupExpiredSessions(ctx context.Context, repo store.Repository, mgr *Manager, ttl time.Duration) {
	expired, err := repo.GetExpiredSessions(ctx, ttl)
	if err != nil {
		slog.Error("TTL worker failed to get expired sessions", "error", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	slog.Info("TTL worker found expired sessions", "count", len(expired))

	for _, sess := range expired {
		mgr.Teardown(sess.ID)

		if err := repo.DeleteSession(ctx, sess.ID); err != nil {
			slog.Warn("TTL worker failed to delete session",
				"error", err,
				"session_id", sess.ID,
				"user_id", sess.UserID)
		}
	}

	slog.Info("TTL worker cleanup completed", "cleaned", len(expired))

	if deleted, err := repo.CleanupExpiredSessions(ctx, deepCleanupTTL); err != nil {
		slog.Error("TTL worker failed to cleanup orphaned sessions", "error", err)
	} else if deleted > 0 {
		slog.Info("TTL worker cleaned up orphaned sessions", "count", deleted)
	}
}
