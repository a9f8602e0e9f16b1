// Package pipeline turns one free-text input into a finalized session and
// its tasks.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neboloop/mindsort/internal/events"
	"github.com/neboloop/mindsort/internal/extraction"
	"github.com/neboloop/mindsort/internal/logging"
	"github.com/neboloop/mindsort/internal/model"
	"github.com/neboloop/mindsort/internal/store"
)

// Extractor produces task candidates from text. It never fails.
type Extractor interface {
	Extract(ctx context.Context, input string) extraction.Result
}

// Result is what the caller gets back from ProcessInput. Tasks are the
// extracted items as submitted, not re-read from storage.
type Result struct {
	Tasks            []extraction.Item `json:"tasks"`
	DistressDetected bool              `json:"distressDetected"`
	Suggestions      []string          `json:"mentalHealthSuggestions"`
	SessionID        string            `json:"sessionId"`
	TaskIDs          []string          `json:"taskIds"`
	Fallback         bool              `json:"fallback"`
}

// PartialWriteError reports which rows survived a failed run on a store
// without transactions. The session, if created, references exactly TaskIDs.
type PartialWriteError struct {
	SessionID string
	TaskIDs   []string
	Err       error
}

func (e *PartialWriteError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("pipeline write failed before session was created: %v", e.Err)
	}
	return fmt.Sprintf("pipeline write failed: session %s kept %d task(s): %v", e.SessionID, len(e.TaskIDs), e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// Pipeline coordinates extraction and the store writes.
type Pipeline struct {
	extractor Extractor
	store     store.Store
	bus       *events.Subject
}

// New creates a Pipeline. bus may be nil.
func New(extractor Extractor, s store.Store, bus *events.Subject) *Pipeline {
	return &Pipeline{extractor: extractor, store: s, bus: bus}
}

// ProcessInput extracts tasks from input and persists them under ownerID.
//
// On a store that implements store.Transactor the session and task writes
// commit together or not at all. Otherwise rows written before a failure are
// kept and the error is a *PartialWriteError.
func (p *Pipeline) ProcessInput(ctx context.Context, ownerID, input string) (Result, error) {
	if ownerID == "" {
		return Result{}, model.ErrUnauthenticated
	}
	if strings.TrimSpace(input) == "" {
		return Result{}, fmt.Errorf("%w: input is required", model.ErrInvalidInput)
	}

	ctx = logging.ContextWithOwner(ctx, ownerID)
	log := logging.WithContext(ctx)

	// once issued, the upstream call is not cancelled by the caller going away
	extracted := p.extractor.Extract(context.WithoutCancel(ctx), input)

	var (
		sessionID string
		taskIDs   []string
		err       error
	)
	if tx, ok := p.store.(store.Transactor); ok {
		err = tx.InTx(ctx, func(s store.Store) error {
			var werr error
			sessionID, taskIDs, werr = write(ctx, s, ownerID, input, extracted)
			return werr
		})
		if err != nil {
			log.Errorf("[Pipeline] Write failed, transaction rolled back: %v", err)
			return Result{}, fmt.Errorf("save session: %w", err)
		}
	} else {
		sessionID, taskIDs, err = write(ctx, p.store, ownerID, input, extracted)
		if err != nil {
			perr := p.salvage(ctx, sessionID, taskIDs, err)
			log.Errorf("[Pipeline] %v", perr)
			return Result{}, perr
		}
	}

	log.Infof("[Pipeline] Session %s finalized with %d task(s) (fallback=%v)", sessionID, len(taskIDs), extracted.Fallback)
	p.publish(ctx, ownerID, sessionID, taskIDs, extracted)

	return Result{
		Tasks:            extracted.Tasks,
		DistressDetected: extracted.DistressDetected,
		Suggestions:      extracted.Suggestions,
		SessionID:        sessionID,
		TaskIDs:          taskIDs,
		Fallback:         extracted.Fallback,
	}, nil
}

// write runs the session, task and finalize steps in order and returns
// whatever ids were created before a failure.
func write(ctx context.Context, s store.Store, ownerID, input string, res extraction.Result) (string, []string, error) {
	sess, err := s.CreateSession(ctx, model.NewSession{
		OwnerID:          ownerID,
		OriginalInput:    input,
		DistressDetected: res.DistressDetected,
		Suggestions:      res.Suggestions,
	})
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	ids := make([]string, 0, len(res.Tasks))
	for _, item := range res.Tasks {
		t, err := s.CreateTask(ctx, model.NewTask{
			OwnerID:      ownerID,
			Title:        item.Title,
			Description:  item.Description,
			Category:     item.Category,
			Priority:     item.Priority,
			Deadline:     item.Deadline,
			OriginalText: input,
		})
		if err != nil {
			return sess.ID, ids, fmt.Errorf("create task %q: %w", item.Title, err)
		}
		ids = append(ids, t.ID)
	}

	if err := s.SetSessionTasks(ctx, sess.ID, ids); err != nil {
		return sess.ID, ids, fmt.Errorf("finalize session: %w", err)
	}
	return sess.ID, ids, nil
}

// salvage points the session at the tasks that were actually created so it
// never references rows that do not exist.
func (p *Pipeline) salvage(ctx context.Context, sessionID string, taskIDs []string, cause error) *PartialWriteError {
	perr := &PartialWriteError{SessionID: sessionID, TaskIDs: taskIDs, Err: cause}
	if sessionID == "" {
		return perr
	}
	err := p.store.SetSessionTasks(ctx, sessionID, taskIDs)
	if err != nil && !errors.Is(err, model.ErrSessionFinalized) {
		logging.WithContext(ctx).Warnf("[Pipeline] Could not record surviving tasks on session %s: %v", sessionID, err)
	}
	return perr
}

func (p *Pipeline) publish(ctx context.Context, ownerID, sessionID string, taskIDs []string, res extraction.Result) {
	log := logging.WithContext(ctx)
	if err := events.Emit(p.bus, events.TopicSessionCompleted, events.SessionCompleted{
		OwnerID:   ownerID,
		SessionID: sessionID,
		TaskIDs:   taskIDs,
		Fallback:  res.Fallback,
	}); err != nil {
		log.Warnf("[Pipeline] Failed to publish session completion: %v", err)
	}
	if !res.DistressDetected {
		return
	}
	if err := events.Emit(p.bus, events.TopicDistressDetected, events.DistressDetected{
		OwnerID:     ownerID,
		SessionID:   sessionID,
		Suggestions: res.Suggestions,
	}); err != nil {
		log.Warnf("[Pipeline] Failed to publish distress signal: %v", err)
	}
}
