package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/neboloop/mindsort/internal/model"
)

const taskColumns = `id, owner_id, title, description, category, priority, deadline, completed, original_text, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var (
		t           model.Task
		description sql.NullString
		deadline    sql.NullString
		category    string
		priority    string
		completed   int64
		createdAt   int64
		updatedAt   int64
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &description, &category, &priority,
		&deadline, &completed, &t.OriginalText, &createdAt, &updatedAt)
	if err != nil {
		return model.Task{}, err
	}
	t.Description = fromNullString(description)
	t.Deadline = fromNullString(deadline)
	t.Category = model.Category(category)
	t.Priority = model.Priority(priority)
	t.Completed = completed == 1
	t.CreatedAt = fromNanos(createdAt)
	t.UpdatedAt = fromNanos(updatedAt)
	return t, nil
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", kind, id, err)
}

// CreateTask inserts a new, not-completed task.
func (s *Store) CreateTask(ctx context.Context, t model.NewTask) (model.Task, error) {
	if err := t.Validate(); err != nil {
		return model.Task{}, err
	}

	now := s.timestamp()
	row := s.q.QueryRowContext(ctx, `
		INSERT INTO tasks (id, owner_id, title, description, category, priority, deadline, completed, original_text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?)
		RETURNING `+taskColumns,
		uuid.New().String(), t.OwnerID, t.Title, toNullString(t.Description), string(t.Category),
		string(t.Priority), toNullString(t.Deadline), t.OriginalText, now, now,
	)
	task, err := scanTask(row)
	if err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// GetTask loads one task by id.
func (s *Store) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		return model.Task{}, notFound("task", id, err)
	}
	return task, nil
}

// ListTasksByOwner returns the owner's tasks, newest first.
func (s *Store) ListTasksByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask writes only the fields set on p, in one statement.
func (s *Store) UpdateTask(ctx context.Context, id string, p model.TaskPatch) (model.Task, error) {
	if err := p.Validate(); err != nil {
		return model.Task{}, err
	}
	if p.IsEmpty() {
		return s.GetTask(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	if p.Title.Set {
		sets = append(sets, "title = ?")
		args = append(args, p.Title.Value)
	}
	if p.Description.Set {
		sets = append(sets, "description = ?")
		args = append(args, toNullString(p.Description.Ptr()))
	}
	if p.Priority.Set {
		sets = append(sets, "priority = ?")
		args = append(args, string(p.Priority.Value))
	}
	if p.Deadline.Set {
		sets = append(sets, "deadline = ?")
		args = append(args, toNullString(p.Deadline.Ptr()))
	}
	if p.Completed.Set {
		sets = append(sets, "completed = ?")
		args = append(args, boolToInt(p.Completed.Value))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.timestamp(), id)

	row := s.q.QueryRowContext(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ? RETURNING `+taskColumns, args...)
	task, err := scanTask(row)
	if err != nil {
		return model.Task{}, notFound("task", id, err)
	}
	return task, nil
}

// ToggleTaskCompleted flips the completed flag.
func (s *Store) ToggleTaskCompleted(ctx context.Context, id string) (model.Task, error) {
	row := s.q.QueryRowContext(ctx,
		`UPDATE tasks SET completed = 1 - completed, updated_at = ? WHERE id = ? RETURNING `+taskColumns,
		s.timestamp(), id)
	task, err := scanTask(row)
	if err != nil {
		return model.Task{}, notFound("task", id, err)
	}
	return task, nil
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	return nil
}
