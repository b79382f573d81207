// Package ratelimit derives a token-budget countdown from rate-limit header
// snapshots captured off the response generator's model calls.
package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ashureev/interview-labs/internal/domain"
)

// Status is the derived rate-limit view pushed to the client every second.
type Status struct {
	Armed           bool   `json:"armed"`
	Countdown       string `json:"countdown"` // MM:SS until token reset, "--:--" when unarmed
	QuotaPercent    int    `json:"quotaPercent"`
	RemainingTokens string `json:"remainingTokens"`
	LimitTokens     string `json:"limitTokens"`
	Model           string `json:"model"`
	CapturedAt      int64  `json:"capturedAt"` // epoch millis of the snapshot
}

// Tracker decays a token-reset countdown from the latest snapshot. It is
// re-armed whenever a new snapshot arrives; between snapshots the countdown is
// monotonically non-increasing. Once the countdown reaches zero the reset flag
// pins the displayed quota at 100% until the next snapshot, since the true
// post-reset remaining count is unknown until the next real response.
type Tracker struct {
	mu            sync.Mutex
	snapshot      *domain.GroqRateLimitInfo
	resetSeconds  float64
	capturedAt    time.Time
	resetOccurred bool
}

// NewTracker creates an unarmed tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe re-arms the tracker with a fresh snapshot, clearing the reset flag.
func (t *Tracker) Observe(snapshot *domain.GroqRateLimitInfo) {
	if snapshot == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshot = snapshot
	t.resetSeconds = parseResetSeconds(snapshot.ResponseModel.ResetTokens)
	t.capturedAt = snapshot.CapturedAt()
	t.resetOccurred = false
}

// Tick recomputes the countdown at the given instant, flipping the reset flag
// once the remaining time reaches zero. Call once per second.
func (t *Tracker) Tick(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snapshot == nil {
		return
	}
	if t.remainingLocked(now) <= 0 {
		t.resetOccurred = true
	}
}

// Status returns the derived view at the given instant.
func (t *Tracker) Status(now time.Time) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.snapshot == nil {
		return Status{Countdown: "--:--", QuotaPercent: 100}
	}

	info := t.snapshot.ResponseModel
	st := Status{
		Armed:           true,
		RemainingTokens: info.RemainingTokens,
		LimitTokens:     info.LimitTokens,
		Model:           info.Model,
		CapturedAt:      t.snapshot.Timestamp,
	}

	remaining := t.remainingLocked(now)
	if t.resetOccurred || remaining <= 0 {
		st.Countdown = "00:00"
		st.QuotaPercent = 100
		// Quota has refilled; show the full budget until the next snapshot.
		st.RemainingTokens = info.LimitTokens
		return st
	}

	st.Countdown = formatCountdown(remaining)
	st.QuotaPercent = quotaPercent(info.RemainingTokens, info.LimitTokens)
	return st
}

func (t *Tracker) remainingLocked(now time.Time) float64 {
	elapsed := now.Sub(t.capturedAt).Seconds()
	remaining := t.resetSeconds - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// parseResetSeconds parses a reset countdown like "7.66s". Absent or
// malformed values yield zero.
func parseResetSeconds(v string) float64 {
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "s"), 64)
	if err != nil {
		return 0
	}
	return f
}

func formatCountdown(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// quotaPercent computes remaining/limit as a percentage clamped to [0, 100].
// Absent or malformed header values default to 100.
func quotaPercent(remaining, limit string) int {
	if remaining == "" || limit == "" {
		return 100
	}
	rem, err := strconv.Atoi(remaining)
	if err != nil {
		return 100
	}
	lim, err := strconv.Atoi(limit)
	if err != nil || lim <= 0 {
		return 100
	}
	pct := rem * 100 / lim
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
