package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashureev/interview-labs/internal/domain"
	"github.com/ashureev/interview-labs/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	sessionMu sync.Mutex // Mutex for session operations to prevent SQLITE_BUSY
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		last_seen_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS interview_sessions (
		session_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		stage TEXT NOT NULL,
		language TEXT NOT NULL,
		runtime_version TEXT NOT NULL DEFAULT '',
		user_code TEXT NOT NULL DEFAULT '',
		elapsed_seconds INTEGER NOT NULL DEFAULT 0,
		problem_json TEXT,
		transcript_json TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_interview_sessions_user ON interview_sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_interview_sessions_updated ON interview_sessions(updated_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetUser retrieves a user by their user ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, username, last_seen_at, created_at, updated_at
		FROM users WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var user domain.User
	var lastSeen, createdAt, updatedAt int64

	err := row.Scan(&user.UserID, &user.Username, &lastSeen, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	user.LastSeenAt = time.Unix(lastSeen, 0)
	user.CreatedAt = time.Unix(createdAt, 0)
	user.UpdatedAt = time.Unix(updatedAt, 0)

	return &user, nil
}

// UpsertUser creates or updates a user record.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *domain.User) error {
	query := `
	INSERT INTO users (user_id, username, last_seen_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		username = excluded.username,
		last_seen_at = excluded.last_seen_at,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		user.UserID, user.Username,
		user.LastSeenAt.Unix(), user.CreatedAt.Unix(), user.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// UpdateLastSeen updates the last_seen_at timestamp for a user.
func (s *SQLiteStore) UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error {
	query := `UPDATE users SET last_seen_at = ?, updated_at = ? WHERE user_id = ?`
	result, err := s.db.ExecContext(ctx, query, lastSeen.Unix(), time.Now().Unix(), userID)
	if err != nil {
		return fmt.Errorf("update last_seen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateLastSeen affected 0 rows", "user_id", userID)
	}

	return nil
}

// GetSession retrieves an interview session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.InterviewSession, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	query := `
		SELECT session_id, user_id, stage, language, runtime_version,
		       user_code, elapsed_seconds, problem_json, transcript_json,
		       created_at, updated_at
		FROM interview_sessions WHERE session_id = ?`

	row := s.db.QueryRowContext(ctx, query, sessionID)
	return scanSession(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.InterviewSession, error) {
	var sess domain.InterviewSession
	var stage string
	var problemJSON sql.NullString
	var transcriptJSON string
	var createdAt, updatedAt int64

	err := row.Scan(
		&sess.ID, &sess.UserID, &stage, &sess.Language, &sess.RuntimeVersion,
		&sess.UserCode, &sess.ElapsedSeconds, &problemJSON, &transcriptJSON,
		&createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	sess.Stage = domain.Stage(stage)
	sess.CreatedAt = time.Unix(createdAt, 0)
	sess.UpdatedAt = time.Unix(updatedAt, 0)

	if transcriptJSON != "" {
		if err := json.Unmarshal([]byte(transcriptJSON), &sess.Transcript); err != nil {
			return nil, fmt.Errorf("unmarshal transcript: %w", err)
		}
	}
	if problemJSON.Valid && problemJSON.String != "" {
		var problem domain.Problem
		if err := json.Unmarshal([]byte(problemJSON.String), &problem); err != nil {
			return nil, fmt.Errorf("unmarshal problem: %w", err)
		}
		sess.Problem = &problem
	}

	return &sess, nil
}

// UpsertSession creates or updates an interview session checkpoint.
func (s *SQLiteStore) UpsertSession(ctx context.Context, session *domain.InterviewSession) error {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	transcript := session.Transcript
	if transcript == nil {
		transcript = []domain.Message{}
	}
	transcriptJSON, err := json.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}

	var problemJSON interface{}
	if session.Problem != nil {
		data, err := json.Marshal(session.Problem)
		if err != nil {
			return fmt.Errorf("marshal problem: %w", err)
		}
		problemJSON = string(data)
	}

	query := `
		INSERT INTO interview_sessions (
			session_id, user_id, stage, language, runtime_version,
			user_code, elapsed_seconds, problem_json, transcript_json,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			stage = excluded.stage,
			language = excluded.language,
			runtime_version = excluded.runtime_version,
			user_code = excluded.user_code,
			elapsed_seconds = excluded.elapsed_seconds,
			problem_json = COALESCE(excluded.problem_json, interview_sessions.problem_json),
			transcript_json = excluded.transcript_json,
			updated_at = excluded.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		session.ID, session.UserID, string(session.Stage), session.Language, session.RuntimeVersion,
		session.UserCode, session.ElapsedSeconds, problemJSON, string(transcriptJSON),
		session.CreatedAt.Unix(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// DeleteSession removes an interview session.
// Implements retry logic with exponential backoff to handle SQLITE_BUSY errors.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		err := s.deleteSessionOnce(ctx, sessionID)
		if err == nil {
			return nil
		}

		if shared.IsSQLiteConflictError(err) && i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i) // exponential backoff: 100ms, 200ms, 400ms
			slog.Debug("DeleteSession failed with SQLITE_BUSY, retrying",
				"session_id", sessionID,
				"attempt", i+1,
				"delay", delay)
			time.Sleep(delay)
			continue
		}

		// Non-retryable error or max retries exceeded
		return fmt.Errorf("failed to delete session %s after %d attempts: %w", sessionID, maxRetries, err)
	}

	return nil
}

// deleteSessionOnce performs a single delete attempt.
func (s *SQLiteStore) deleteSessionOnce(ctx context.Context, sessionID string) error {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	query := `DELETE FROM interview_sessions WHERE session_id = ?`
	_, err := s.db.ExecContext(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// GetExpiredSessions retrieves sessions idle longer than the TTL.
func (s *SQLiteStore) GetExpiredSessions(ctx context.Context, ttl time.Duration) ([]*domain.InterviewSession, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	threshold := time.Now().Add(-ttl).Unix()
	query := `
		SELECT session_id, user_id, stage, language, runtime_version,
		       user_code, elapsed_seconds, problem_json, transcript_json,
		       created_at, updated_at
		FROM interview_sessions WHERE updated_at < ?`

	rows, err := s.db.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("query expired sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close expired sessions rows", "error", closeErr)
		}
	}()

	var sessions []*domain.InterviewSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expired session row: %w", err)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired sessions: %w", err)
	}

	return sessions, nil
}

// CleanupExpiredSessions removes sessions idle longer than the TTL.
func (s *SQLiteStore) CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	threshold := time.Now().Add(-ttl).Unix()
	query := `DELETE FROM interview_sessions WHERE updated_at < ?`
	result, err := s.db.ExecContext(ctx, query, threshold)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired sessions: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
