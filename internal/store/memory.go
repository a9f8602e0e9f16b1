package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/neboloop/mindsort/internal/model"
)

// MemoryStore keeps everything in process memory. It backs the "memory"
// database driver and most tests. It does not implement Transactor.
type MemoryStore struct {
	mu       sync.RWMutex
	seq      int64
	tasks    map[string]memTask
	sessions map[string]memSession
	now      func() time.Time
}

type memTask struct {
	seq  int64
	task model.Task
}

type memSession struct {
	seq     int64
	session model.Session
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:    make(map[string]memTask),
		sessions: make(map[string]memSession),
		now:      time.Now,
	}
}

func (m *MemoryStore) CreateTask(ctx context.Context, t model.NewTask) (model.Task, error) {
	if err := t.Validate(); err != nil {
		return model.Task{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	m.seq++
	task := model.Task{
		ID:           uuid.New().String(),
		OwnerID:      t.OwnerID,
		Title:        t.Title,
		Description:  cloneString(t.Description),
		Category:     t.Category,
		Priority:     t.Priority,
		Deadline:     cloneString(t.Deadline),
		OriginalText: t.OriginalText,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.tasks[task.ID] = memTask{seq: m.seq, task: task}
	return cloneTask(task), nil
}

func (m *MemoryStore) GetTask(ctx context.Context, id string) (model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.tasks[id]
	if !ok {
		return model.Task{}, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	return cloneTask(row.task), nil
}

func (m *MemoryStore) ListTasksByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := make([]memTask, 0)
	for _, row := range m.tasks {
		if row.task.OwnerID == ownerID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	out := make([]model.Task, len(rows))
	for i, row := range rows {
		out[i] = cloneTask(row.task)
	}
	return out, nil
}

func (m *MemoryStore) UpdateTask(ctx context.Context, id string, p model.TaskPatch) (model.Task, error) {
	if err := p.Validate(); err != nil {
		return model.Task{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.tasks[id]
	if !ok {
		return model.Task{}, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	if p.IsEmpty() {
		return cloneTask(row.task), nil
	}
	row.task = p.Apply(row.task)
	row.task.UpdatedAt = m.now().UTC()
	m.tasks[id] = row
	return cloneTask(row.task), nil
}

func (m *MemoryStore) ToggleTaskCompleted(ctx context.Context, id string) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.tasks[id]
	if !ok {
		return model.Task{}, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	row.task.Completed = !row.task.Completed
	row.task.UpdatedAt = m.now().UTC()
	m.tasks[id] = row
	return cloneTask(row.task), nil
}

func (m *MemoryStore) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	delete(m.tasks, id)
	return nil
}

func (m *MemoryStore) CreateSession(ctx context.Context, s model.NewSession) (model.Session, error) {
	if err := s.Validate(); err != nil {
		return model.Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	session := model.Session{
		ID:               uuid.New().String(),
		OwnerID:          s.OwnerID,
		OriginalInput:    s.OriginalInput,
		ParsedTaskIDs:    []string{},
		DistressDetected: s.DistressDetected,
		Suggestions:      append([]string(nil), s.Suggestions...),
		CreatedAt:        m.now().UTC(),
	}
	m.sessions[session.ID] = memSession{seq: m.seq, session: session}
	return cloneSession(session), nil
}

func (m *MemoryStore) SetSessionTasks(ctx context.Context, sessionID string, taskIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %s: %w", sessionID, model.ErrNotFound)
	}
	if row.session.Finalized {
		return fmt.Errorf("session %s: %w", sessionID, model.ErrSessionFinalized)
	}
	row.session.ParsedTaskIDs = append([]string{}, taskIDs...)
	row.session.Finalized = true
	m.sessions[sessionID] = row
	return nil
}

func (m *MemoryStore) GetSession(ctx context.Context, id string) (model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.sessions[id]
	if !ok {
		return model.Session{}, fmt.Errorf("session %s: %w", id, model.ErrNotFound)
	}
	return cloneSession(row.session), nil
}

func (m *MemoryStore) ListSessionsByOwner(ctx context.Context, ownerID string) ([]model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := make([]memSession, 0)
	for _, row := range m.sessions {
		if row.session.OwnerID == ownerID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	out := make([]model.Session, len(rows))
	for i, row := range rows {
		out[i] = cloneSession(row.session)
	}
	return out, nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTask(t model.Task) model.Task {
	t.Description = cloneString(t.Description)
	t.Deadline = cloneString(t.Deadline)
	return t
}

func cloneSession(s model.Session) model.Session {
	s.ParsedTaskIDs = append([]string{}, s.ParsedTaskIDs...)
	if s.Suggestions != nil {
		s.Suggestions = append([]string{}, s.Suggestions...)
	}
	return s
}
