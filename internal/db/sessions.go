package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/neboloop/mindsort/internal/model"
)

const sessionColumns = `id, owner_id, original_input, parsed_task_ids, distress_detected, suggestions, finalized, created_at`

func scanSession(row rowScanner) (model.Session, error) {
	var (
		sess        model.Session
		taskIDs     string
		suggestions sql.NullString
		distress    int64
		finalized   int64
		createdAt   int64
	)
	if err := row.Scan(&sess.ID, &sess.OwnerID, &sess.OriginalInput, &taskIDs, &distress,
		&suggestions, &finalized, &createdAt); err != nil {
		return model.Session{}, err
	}
	sess.ParsedTaskIDs = []string{}
	if err := json.Unmarshal([]byte(taskIDs), &sess.ParsedTaskIDs); err != nil {
		return model.Session{}, fmt.Errorf("decode parsed_task_ids: %w", err)
	}
	if suggestions.Valid && suggestions.String != "" {
		if err := json.Unmarshal([]byte(suggestions.String), &sess.Suggestions); err != nil {
			return model.Session{}, fmt.Errorf("decode suggestions: %w", err)
		}
	}
	sess.DistressDetected = distress == 1
	sess.Finalized = finalized == 1
	sess.CreatedAt = fromNanos(createdAt)
	return sess, nil
}

// CreateSession opens a session with an empty task list.
func (s *Store) CreateSession(ctx context.Context, in model.NewSession) (model.Session, error) {
	if err := in.Validate(); err != nil {
		return model.Session{}, err
	}

	var suggestions sql.NullString
	if in.Suggestions != nil {
		raw, err := json.Marshal(in.Suggestions)
		if err != nil {
			return model.Session{}, fmt.Errorf("encode suggestions: %w", err)
		}
		suggestions = sql.NullString{String: string(raw), Valid: true}
	}

	row := s.q.QueryRowContext(ctx, `
		INSERT INTO sessions (id, owner_id, original_input, parsed_task_ids, distress_detected, suggestions, finalized, created_at)
		VALUES (?, ?, ?, '[]', ?, ?, 0, ?)
		RETURNING `+sessionColumns,
		uuid.New().String(), in.OwnerID, in.OriginalInput, boolToInt(in.DistressDetected), suggestions, s.timestamp(),
	)
	sess, err := scanSession(row)
	if err != nil {
		return model.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// SetSessionTasks writes the task list once and marks the session finalized.
func (s *Store) SetSessionTasks(ctx context.Context, sessionID string, taskIDs []string) error {
	if taskIDs == nil {
		taskIDs = []string{}
	}
	raw, err := json.Marshal(taskIDs)
	if err != nil {
		return fmt.Errorf("encode task ids: %w", err)
	}

	res, err := s.q.ExecContext(ctx,
		`UPDATE sessions SET parsed_task_ids = ?, finalized = 1 WHERE id = ? AND finalized = 0`,
		string(raw), sessionID)
	if err != nil {
		return fmt.Errorf("set session %s tasks: %w", sessionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set session %s tasks: %w", sessionID, err)
	}
	if n == 1 {
		return nil
	}

	var finalized int64
	err = s.q.QueryRowContext(ctx, `SELECT finalized FROM sessions WHERE id = ?`, sessionID).Scan(&finalized)
	if err != nil {
		return notFound("session", sessionID, err)
	}
	return fmt.Errorf("session %s: %w", sessionID, model.ErrSessionFinalized)
}

// GetSession loads one session by id.
func (s *Store) GetSession(ctx context.Context, id string) (model.Session, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err != nil {
		return model.Session{}, notFound("session", id, err)
	}
	return sess, nil
}

// ListSessionsByOwner returns the owner's sessions, newest first.
func (s *Store) ListSessionsByOwner(ctx context.Context, ownerID string) ([]model.Session, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.Session, 0)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}
