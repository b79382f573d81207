package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/interview-labs/internal/domain"
)

type fakeRepo struct {
	mu           sync.Mutex
	expired      []*domain.InterviewSession
	deleted      []string
	deepCleanups int
}

func (f *fakeRepo) GetUser(_ context.Context, _ string) (*domain.User, error) { return nil, nil }
func (f *fakeRepo) UpsertUser(_ context.Context, _ *domain.User) error        { return nil }
func (f *fakeRepo) UpdateLastSeen(_ context.Context, _ string, _ time.Time) error {
	return nil
}
func (f *fakeRepo) GetSession(_ context.Context, _ string) (*domain.InterviewSession, error) {
	return nil, nil
}
func (f *fakeRepo) UpsertSession(_ context.Context, _ *domain.InterviewSession) error { return nil }

func (f *fakeRepo) DeleteSession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, sessionID)
	return nil
}

func (f *fakeRepo) GetExpiredSessions(_ context.Context, _ time.Duration) ([]*domain.InterviewSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expired, nil
}

func (f *fakeRepo) CleanupExpiredSessions(_ context.Context, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deepCleanups++
	return 0, nil
}

func (f *fakeRepo) Ping(_ context.Context) error { return nil }
func (f *fakeRepo) Close() error                 { return nil }

func TestCleanupExpiredSessionsSweep(t *testing.T) {
	repo := &fakeRepo{expired: []*domain.InterviewSession{
		{ID: "stale-1", UserID: "anon_abc"},
		{ID: "stale-2", UserID: "anon_def"},
	}}
	mgr := NewManager()
	trackedSession(t, mgr, "stale-1", 10, domain.StageProblemSolving)

	cleanupExpiredSessions(context.Background(), repo, mgr, time.Hour)

	if mgr.IsLive("stale-1") {
		t.Error("expired session still live after sweep")
	}
	if len(repo.deleted) != 2 {
		t.Fatalf("deleted %d sessions, want 2", len(repo.deleted))
	}
	if repo.deepCleanups != 1 {
		t.Errorf("deep cleanup ran %d times, want 1", repo.deepCleanups)
	}
}

func TestCleanupSkipsWhenNothingExpired(t *testing.T) {
	repo := &fakeRepo{}
	cleanupExpiredSessions(context.Background(), repo, NewManager(), time.Hour)

	if len(repo.deleted) != 0 || repo.deepCleanups != 0 {
		t.Errorf("sweep did work with nothing expired: %+v", repo)
	}
}
