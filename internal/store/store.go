// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/interview-labs/internal/domain"
)

// Repository defines the interface for persisting user and interview data.
type Repository interface {
	// GetUser retrieves a user by their user ID.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// UpsertUser creates or updates a user record.
	UpsertUser(ctx context.Context, user *domain.User) error

	// UpdateLastSeen updates the last_seen_at timestamp for a user.
	UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error

	// GetSession retrieves an interview session by ID. Returns (nil, nil)
	// when the session does not exist.
	GetSession(ctx context.Context, sessionID string) (*domain.InterviewSession, error)

	// UpsertSession creates or updates an interview session checkpoint.
	UpsertSession(ctx context.Context, session *domain.InterviewSession) error

	// DeleteSession removes an interview session.
	DeleteSession(ctx context.Context, sessionID string) error

	// GetExpiredSessions retrieves sessions idle longer than the TTL.
	GetExpiredSessions(ctx context.Context, ttl time.Duration) ([]*domain.InterviewSession, error)

	// CleanupExpiredSessions removes sessions idle longer than the TTL.
	CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
