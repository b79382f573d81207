package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/interview-labs/internal/domain"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*domain.User)}
}

func (f *fakeRepo) GetUser(_ context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := f.users[userID]
	if user == nil {
		return nil, nil
	}
	copy := *user
	return &copy, nil
}

func (f *fakeRepo) UpsertUser(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *user
	f.users[user.UserID] = &copy
	return nil
}

func (f *fakeRepo) UpdateLastSeen(_ context.Context, _ string, _ time.Time) error { return nil }

func (f *fakeRepo) GetSession(_ context.Context, _ string) (*domain.InterviewSession, error) {
	return nil, nil
}
func (f *fakeRepo) UpsertSession(_ context.Context, _ *domain.InterviewSession) error { return nil }
func (f *fakeRepo) DeleteSession(_ context.Context, _ string) error                   { return nil }
func (f *fakeRepo) GetExpiredSessions(_ context.Context, _ time.Duration) ([]*domain.InterviewSession, error) {
	return nil, nil
}
func (f *fakeRepo) CleanupExpiredSessions(_ context.Context, _ time.Duration) (int64, error) {
	return 0, nil
}
func (f *fakeRepo) Ping(_ context.Context) error { return nil }
func (f *fakeRepo) Close() error                 { return nil }

func (f *fakeRepo) userCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func TestMiddlewareCreatesAnonymousIdentity(t *testing.T) {
	repo := newFakeRepo()

	var gotUserID, gotUsername string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotUsername = UsernameFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rr := httptest.NewRecorder()
	Middleware(repo, true)(next).ServeHTTP(rr, req)

	if !isValidAnonID(gotUserID) {
		t.Fatalf("user ID %q does not match the anonymous ID format", gotUserID)
	}
	if gotUsername == "" {
		t.Error("expected username in context")
	}

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == AnonCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected identity cookie to be set")
	}
	if cookie.Value != gotUserID {
		t.Errorf("cookie = %q, context user = %q", cookie.Value, gotUserID)
	}
	if !cookie.HttpOnly {
		t.Error("identity cookie must be HttpOnly")
	}

	user, err := repo.GetUser(context.Background(), gotUserID)
	if err != nil || user == nil {
		t.Fatalf("user not persisted: %v, %v", user, err)
	}
}

func TestMiddlewareReusesValidCookie(t *testing.T) {
	repo := newFakeRepo()
	const id = "anon_0123456789abcdef0123456789abcdef"

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: id})
	rr := httptest.NewRecorder()
	Middleware(repo, true)(next).ServeHTTP(rr, req)

	if gotUserID != id {
		t.Errorf("user ID = %q, want cookie identity reused", gotUserID)
	}
	if repo.userCount() != 1 {
		t.Errorf("user count = %d, want 1", repo.userCount())
	}
}

func TestMiddlewareRejectsMalformedCookie(t *testing.T) {
	repo := newFakeRepo()

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: "anon_not-hex"})
	rr := httptest.NewRecorder()
	Middleware(repo, true)(next).ServeHTTP(rr, req)

	if gotUserID == "anon_not-hex" {
		t.Error("malformed cookie identity must not be accepted")
	}
	if !isValidAnonID(gotUserID) {
		t.Errorf("replacement identity %q invalid", gotUserID)
	}
}

func TestIsValidAnonID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"anon_0123456789abcdef0123456789abcdef", true},
		{"anon_0123456789ABCDEF0123456789ABCDEF", false},
		{"anon_short", false},
		{"user_0123456789abcdef0123456789abcdef", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isValidAnonID(tt.id); got != tt.valid {
			t.Errorf("isValidAnonID(%q) = %v, want %v", tt.id, got, tt.valid)
		}
	}
}

func TestDeriveUsername(t *testing.T) {
	if got := deriveUsername("anon_0123456789abcdef0123456789abcdef"); got != "anon-89abcdef" {
		t.Errorf("deriveUsername = %q", got)
	}
	if got := deriveUsername("short"); got != "anon-user" {
		t.Errorf("deriveUsername(short) = %q", got)
	}
}
