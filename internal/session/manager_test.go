package session

import (
	"context"
	"testing"
	"time"

	"github.com/ashureev/interview-labs/internal/domain"
	"github.com/ashureev/interview-labs/internal/ratelimit"
)

func trackedSession(t *testing.T, m *Manager, id string, elapsed int, stage domain.Stage) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m.Track(ctx, &domain.InterviewSession{
		ID:             id,
		UserID:         "anon_abc",
		ElapsedSeconds: elapsed,
		Stage:          stage,
	})
}

func TestTrackResumesElapsed(t *testing.T) {
	m := NewManager()
	trackedSession(t, m, "sess-1", 90, domain.StageCodeReview)

	if !m.IsLive("sess-1") {
		t.Fatal("session should be live after Track")
	}
	if got := m.Elapsed("sess-1"); got != 90 {
		t.Errorf("Elapsed = %d, want persisted value resumed", got)
	}
}

func TestTrackIsIdempotent(t *testing.T) {
	m := NewManager()
	trackedSession(t, m, "sess-1", 10, domain.StageIntroduction)
	trackedSession(t, m, "sess-1", 999, domain.StageConclusion)

	if got := m.Elapsed("sess-1"); got != 10 {
		t.Errorf("Elapsed = %d, re-tracking must not reset the clock", got)
	}
}

func TestTeardownStopsTracking(t *testing.T) {
	m := NewManager()
	trackedSession(t, m, "sess-1", 0, domain.StageIntroduction)

	m.Teardown("sess-1")
	if m.IsLive("sess-1") {
		t.Error("session still live after Teardown")
	}

	// Teardown of an unknown session is a no-op.
	m.Teardown("sess-1")
}

func TestFinishedStageIsAbsorbing(t *testing.T) {
	m := NewManager()
	trackedSession(t, m, "sess-1", 0, domain.StageConclusion)

	m.SetStage("sess-1", domain.StageFinished)
	m.SetStage("sess-1", domain.StageProblemSolving)

	l := m.get("sess-1")
	l.mu.Lock()
	stage := l.stage
	l.mu.Unlock()
	if stage != domain.StageFinished {
		t.Errorf("stage = %q, finished must absorb later commits", stage)
	}
}

func TestTickStopsClockWhenFinished(t *testing.T) {
	l := &live{
		id:      "sess-1",
		elapsed: 100,
		stage:   domain.StageFollowUp,
		tracker: ratelimit.NewTracker(),
		conns:   nil,
	}

	l.tick(context.Background(), time.Now())
	if l.elapsed != 101 {
		t.Errorf("elapsed = %d, want 101 after one tick", l.elapsed)
	}

	l.stage = domain.StageFinished
	l.tick(context.Background(), time.Now())
	l.tick(context.Background(), time.Now())
	if l.elapsed != 101 {
		t.Errorf("elapsed = %d, clock must stop at terminal stage", l.elapsed)
	}
}

func TestObserveArmsTracker(t *testing.T) {
	m := NewManager()
	trackedSession(t, m, "sess-1", 0, domain.StageProblemSolving)

	m.Observe("sess-1", &domain.GroqRateLimitInfo{
		ResponseModel: domain.RateLimitInfo{
			RemainingTokens: "3000",
			LimitTokens:     "6000",
			ResetTokens:     "60s",
		},
		Timestamp: time.Now().UnixMilli(),
	})

	l := m.get("sess-1")
	l.mu.Lock()
	st := l.tracker.Status(time.Now())
	l.mu.Unlock()
	if !st.Armed {
		t.Error("tracker should be armed after Observe")
	}
	if st.QuotaPercent != 50 {
		t.Errorf("QuotaPercent = %d, want 50", st.QuotaPercent)
	}

	// Nil snapshots are ignored.
	m.Observe("sess-1", nil)
	m.Observe("no-such-session", &domain.GroqRateLimitInfo{})
}

func TestElapsedUnknownSession(t *testing.T) {
	m := NewManager()
	if got := m.Elapsed("missing"); got != 0 {
		t.Errorf("Elapsed = %d, want 0 for unknown session", got)
	}
}
