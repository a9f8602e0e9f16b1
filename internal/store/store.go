// Package store defines the persistence contract for tasks and sessions.
//
// Store methods are not owner-scoped; ownership checks live in logic/tasks.
// Every method is atomic for the single record it touches. Multi-record
// atomicity is only available through Transactor.
package store

import (
	"context"

	"github.com/neboloop/mindsort/internal/model"
)

// Store persists tasks and sessions.
type Store interface {
	CreateTask(ctx context.Context, t model.NewTask) (model.Task, error)
	// GetTask returns model.ErrNotFound when id does not resolve.
	GetTask(ctx context.Context, id string) (model.Task, error)
	// ListTasksByOwner returns the owner's tasks, newest first.
	ListTasksByOwner(ctx context.Context, ownerID string) ([]model.Task, error)
	UpdateTask(ctx context.Context, id string, p model.TaskPatch) (model.Task, error)
	ToggleTaskCompleted(ctx context.Context, id string) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error

	CreateSession(ctx context.Context, s model.NewSession) (model.Session, error)
	// SetSessionTasks writes the session's task list. It succeeds once per
	// session and returns model.ErrSessionFinalized afterwards.
	SetSessionTasks(ctx context.Context, sessionID string, taskIDs []string) error
	GetSession(ctx context.Context, id string) (model.Session, error)
	ListSessionsByOwner(ctx context.Context, ownerID string) ([]model.Session, error)
}

// Transactor is implemented by stores that can group several writes.
// fn receives a Store bound to the transaction; returning an error rolls
// every write back.
type Transactor interface {
	InTx(ctx context.Context, fn func(Store) error) error
}
