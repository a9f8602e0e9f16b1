// Package tasks is the owner-scoped surface over the task store. Every call
// takes the caller's owner id explicitly and refuses records owned by
// somebody else.
package tasks

import (
	"context"
	"fmt"

	"github.com/neboloop/mindsort/internal/events"
	"github.com/neboloop/mindsort/internal/logging"
	"github.com/neboloop/mindsort/internal/model"
	"github.com/neboloop/mindsort/internal/store"
	"github.com/neboloop/mindsort/internal/summary"
)

// Service applies ownership checks before touching the store.
type Service struct {
	store store.Store
	bus   *events.Subject
}

// NewService creates a Service. bus may be nil.
func NewService(s store.Store, bus *events.Subject) *Service {
	return &Service{store: s, bus: bus}
}

// List returns the owner's tasks, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]model.Task, error) {
	if ownerID == "" {
		return nil, model.ErrUnauthenticated
	}
	return s.store.ListTasksByOwner(ctx, ownerID)
}

// Counts tallies the owner's completed and pending tasks.
func (s *Service) Counts(ctx context.Context, ownerID string) (summary.Counts, error) {
	list, err := s.List(ctx, ownerID)
	if err != nil {
		return summary.Counts{}, err
	}
	return summary.Count(list), nil
}

// Get returns one task the owner controls.
func (s *Service) Get(ctx context.Context, ownerID, id string) (model.Task, error) {
	return s.owned(ctx, ownerID, id)
}

// Toggle flips the completed flag.
func (s *Service) Toggle(ctx context.Context, ownerID, id string) (model.Task, error) {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return model.Task{}, err
	}
	t, err := s.store.ToggleTaskCompleted(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	s.publish(ctx, ownerID, id, events.ActionToggled, &t)
	return t, nil
}

// Update applies the fields present in the patch and nothing else.
func (s *Service) Update(ctx context.Context, ownerID, id string, patch model.TaskPatch) (model.Task, error) {
	current, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return model.Task{}, err
	}
	if err := patch.Validate(); err != nil {
		return model.Task{}, err
	}
	if patch.IsEmpty() {
		return current, nil
	}
	t, err := s.store.UpdateTask(ctx, id, patch)
	if err != nil {
		return model.Task{}, err
	}
	s.publish(ctx, ownerID, id, events.ActionUpdated, &t)
	return t, nil
}

// Delete removes the task.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, ownerID, id, events.ActionDeleted, nil)
	return nil
}

// ListSessions returns the owner's sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, ownerID string) ([]model.Session, error) {
	if ownerID == "" {
		return nil, model.ErrUnauthenticated
	}
	return s.store.ListSessionsByOwner(ctx, ownerID)
}

// GetSession returns one session the owner controls.
func (s *Service) GetSession(ctx context.Context, ownerID, id string) (model.Session, error) {
	if ownerID == "" {
		return model.Session{}, model.ErrUnauthenticated
	}
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return model.Session{}, err
	}
	if sess.OwnerID != ownerID {
		return model.Session{}, fmt.Errorf("%w: session %s", model.ErrForbidden, id)
	}
	return sess, nil
}

func (s *Service) owned(ctx context.Context, ownerID, id string) (model.Task, error) {
	if ownerID == "" {
		return model.Task{}, model.ErrUnauthenticated
	}
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if t.OwnerID != ownerID {
		logging.WithContext(ctx).Warnf("[Tasks] Owner %s denied access to task %s", ownerID, id)
		return model.Task{}, fmt.Errorf("%w: task %s", model.ErrForbidden, id)
	}
	return t, nil
}

func (s *Service) publish(ctx context.Context, ownerID, id, action string, t *model.Task) {
	if err := events.Emit(s.bus, events.TopicTaskChanged, events.TaskChanged{
		OwnerID: ownerID,
		TaskID:  id,
		Action:  action,
		Task:    t,
	}); err != nil {
		logging.WithContext(ctx).Warnf("[Tasks] Failed to publish %s for %s: %v", action, id, err)
	}
}
