package ratelimit

import (
	"testing"
	"time"

	"github.com/ashureev/interview-labs/internal/domain"
)

func snapshotAt(ts time.Time, remaining, limit, reset string) *domain.GroqRateLimitInfo {
	return &domain.GroqRateLimitInfo{
		ResponseModel: domain.RateLimitInfo{
			RemainingTokens: remaining,
			LimitTokens:     limit,
			ResetTokens:     reset,
			Model:           "reply-model",
		},
		Timestamp: ts.UnixMilli(),
	}
}

func TestUnarmedStatus(t *testing.T) {
	tr := NewTracker()
	st := tr.Status(time.Now())

	if st.Armed {
		t.Error("tracker should start unarmed")
	}
	if st.Countdown != "--:--" {
		t.Errorf("Countdown = %q, want --:--", st.Countdown)
	}
	if st.QuotaPercent != 100 {
		t.Errorf("QuotaPercent = %d, want 100", st.QuotaPercent)
	}
}

func TestCountdownDecays(t *testing.T) {
	now := time.Now()
	tr := NewTracker()
	tr.Observe(snapshotAt(now, "3000", "6000", "90s"))

	st := tr.Status(now)
	if !st.Armed {
		t.Fatal("tracker should be armed after Observe")
	}
	if st.Countdown != "01:30" {
		t.Errorf("Countdown = %q, want 01:30", st.Countdown)
	}
	if st.QuotaPercent != 50 {
		t.Errorf("QuotaPercent = %d, want 50", st.QuotaPercent)
	}

	later := tr.Status(now.Add(30 * time.Second))
	if later.Countdown != "01:00" {
		t.Errorf("Countdown after 30s = %q, want 01:00", later.Countdown)
	}
}

func TestResetPinsQuotaAtFull(t *testing.T) {
	now := time.Now()
	tr := NewTracker()
	tr.Observe(snapshotAt(now, "100", "6000", "10s"))

	after := now.Add(11 * time.Second)
	tr.Tick(after)

	st := tr.Status(after)
	if st.Countdown != "00:00" {
		t.Errorf("Countdown = %q, want 00:00", st.Countdown)
	}
	if st.QuotaPercent != 100 {
		t.Errorf("QuotaPercent = %d, want 100 after reset", st.QuotaPercent)
	}
	if st.RemainingTokens != "6000" {
		t.Errorf("RemainingTokens = %q, want full budget shown", st.RemainingTokens)
	}

	// The pin holds even when queried at an earlier instant afterwards.
	pinned := tr.Status(now.Add(5 * time.Second))
	if pinned.QuotaPercent != 100 || pinned.Countdown != "00:00" {
		t.Errorf("reset pin not sticky: %+v", pinned)
	}
}

func TestObserveRearmsAfterReset(t *testing.T) {
	now := time.Now()
	tr := NewTracker()
	tr.Observe(snapshotAt(now, "100", "6000", "5s"))
	tr.Tick(now.Add(6 * time.Second))

	fresh := now.Add(10 * time.Second)
	tr.Observe(snapshotAt(fresh, "5400", "6000", "60s"))

	st := tr.Status(fresh)
	if st.Countdown != "01:00" {
		t.Errorf("Countdown = %q, want 01:00 after re-arm", st.Countdown)
	}
	if st.QuotaPercent != 90 {
		t.Errorf("QuotaPercent = %d, want 90", st.QuotaPercent)
	}
}

func TestMalformedHeadersDefaultToFullQuota(t *testing.T) {
	now := time.Now()
	tr := NewTracker()
	tr.Observe(snapshotAt(now, "oops", "6000", "30s"))

	if st := tr.Status(now); st.QuotaPercent != 100 {
		t.Errorf("QuotaPercent = %d, want 100 for malformed remaining", st.QuotaPercent)
	}
}

func TestParseResetSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"7.66s", 7.66},
		{"90s", 90},
		{"", 0},
		{"soon", 0},
	}

	for _, tt := range tests {
		if got := parseResetSeconds(tt.in); got != tt.want {
			t.Errorf("parseResetSeconds(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
