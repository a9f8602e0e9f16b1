package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neboloop/mindsort/internal/ai"
	"github.com/neboloop/mindsort/internal/db"
	"github.com/neboloop/mindsort/internal/events"
	"github.com/neboloop/mindsort/internal/extraction"
	"github.com/neboloop/mindsort/internal/model"
	"github.com/neboloop/mindsort/internal/store"
)

const surgeryInput = "Surgery on 21st, feeling overwhelmed"

const surgeryResponse = `{"tasks":[{"title":"Surgery","description":"Get ready for surgery","category":"HEALTH","priority":"Very Important","deadline":"21st"}],
"distressDetected":true,"mentalHealthSuggestions":["Rest and hydrate","Ask a friend to come with you"]}`

type staticExtractor struct {
	res   extraction.Result
	calls int
}

func (s *staticExtractor) Extract(ctx context.Context, input string) extraction.Result {
	s.calls++
	return s.res
}

// failingStore fails CreateTask once okTasks tasks have been created.
type failingStore struct {
	store.Store
	okTasks int
	created int
	err     error
}

func (f *failingStore) CreateTask(ctx context.Context, t model.NewTask) (model.Task, error) {
	if f.created >= f.okTasks {
		return model.Task{}, f.err
	}
	f.created++
	return f.Store.CreateTask(ctx, t)
}

func newSQLite(t *testing.T) *db.Store {
	t.Helper()
	s, err := db.NewSQLite(filepath.Join(t.TempDir(), "mindsort.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func item(title string) extraction.Item {
	return extraction.Item{Title: title, Category: model.CategoryAcademics, Priority: model.PriorityImportant}
}

func TestProcessInput_SurgeryScenario(t *testing.T) {
	for name, newStore := range map[string]func(t *testing.T) store.Store{
		"memory": func(*testing.T) store.Store { return store.NewMemoryStore() },
		"sqlite": func(t *testing.T) store.Store { return newSQLite(t) },
	} {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ext := extraction.NewExtractor(ai.NewScriptedCompleter(ai.ScriptedResponse{Content: surgeryResponse}))
			p := New(ext, s, nil)
			ctx := context.Background()

			res, err := p.ProcessInput(ctx, "alice", surgeryInput)
			require.NoError(t, err)

			require.Len(t, res.Tasks, 1)
			assert.Equal(t, model.CategoryHealth, res.Tasks[0].Category)
			assert.True(t, res.DistressDetected)
			assert.Equal(t, []string{"Rest and hydrate", "Ask a friend to come with you"}, res.Suggestions)
			assert.False(t, res.Fallback)

			tasks, err := s.ListTasksByOwner(ctx, "alice")
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			assert.Equal(t, model.CategoryHealth, tasks[0].Category)
			assert.Equal(t, model.PriorityVeryImportant, tasks[0].Priority)
			assert.False(t, tasks[0].Completed)

			sess, err := s.GetSession(ctx, res.SessionID)
			require.NoError(t, err)
			assert.True(t, sess.Finalized)
			assert.Equal(t, []string{tasks[0].ID}, sess.ParsedTaskIDs)
			assert.Equal(t, res.TaskIDs, sess.ParsedTaskIDs)
			assert.Equal(t, surgeryInput, sess.OriginalInput)
			assert.True(t, sess.DistressDetected)
			assert.Equal(t, res.Suggestions, sess.Suggestions)
		})
	}
}

func TestProcessInput_TransportErrorScenario(t *testing.T) {
	s := store.NewMemoryStore()
	ext := extraction.NewExtractor(ai.NewScriptedCompleter(ai.ScriptedResponse{Err: errors.New("connection reset")}))
	p := New(ext, s, nil)

	input := "everything is falling apart and I have an exam, a shift, and three emails to answer"
	res, err := p.ProcessInput(context.Background(), "alice", input)
	require.NoError(t, err)

	require.Len(t, res.Tasks, 1)
	assert.Equal(t, model.CategoryEmotions, res.Tasks[0].Category)
	assert.Equal(t, model.PriorityImportant, res.Tasks[0].Priority)
	assert.True(t, res.DistressDetected)
	assert.Equal(t, extraction.FallbackSuggestions, res.Suggestions)
	assert.True(t, res.Fallback)

	sess, err := s.GetSession(context.Background(), res.SessionID)
	require.NoError(t, err)
	require.Len(t, sess.ParsedTaskIDs, 1)
	task, err := s.GetTask(context.Background(), sess.ParsedTaskIDs[0])
	require.NoError(t, err)
	assert.Equal(t, input, task.OriginalText)
	assert.Equal(t, input, *task.Description)
}

func TestProcessInput_SessionReferencesEveryTask(t *testing.T) {
	s := store.NewMemoryStore()
	ext := &staticExtractor{res: extraction.Result{Tasks: []extraction.Item{item("a"), item("b"), item("c")}}}
	p := New(ext, s, nil)
	ctx := context.Background()

	res, err := p.ProcessInput(ctx, "alice", "a, b and c")
	require.NoError(t, err)

	sess, err := s.GetSession(ctx, res.SessionID)
	require.NoError(t, err)
	require.Len(t, sess.ParsedTaskIDs, len(res.Tasks))
	for i, id := range sess.ParsedTaskIDs {
		task, err := s.GetTask(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "a, b and c", task.OriginalText)
		assert.Equal(t, res.Tasks[i].Title, task.Title, "creation order")
	}
}

func TestProcessInput_RejectsBeforeExtracting(t *testing.T) {
	ext := &staticExtractor{}
	p := New(ext, store.NewMemoryStore(), nil)

	_, err := p.ProcessInput(context.Background(), "", "hello")
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	_, err = p.ProcessInput(context.Background(), "alice", "   ")
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	assert.Zero(t, ext.calls)
}

func TestProcessInput_PartialWrite(t *testing.T) {
	mem := store.NewMemoryStore()
	dbErr := errors.New("disk full")
	s := &failingStore{Store: mem, okTasks: 1, err: dbErr}
	ext := &staticExtractor{res: extraction.Result{Tasks: []extraction.Item{item("a"), item("b"), item("c")}}}
	p := New(ext, s, nil)
	ctx := context.Background()

	_, err := p.ProcessInput(ctx, "alice", "three things")
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)

	var perr *PartialWriteError
	require.ErrorAs(t, err, &perr)
	require.NotEmpty(t, perr.SessionID)
	require.Len(t, perr.TaskIDs, 1)

	// the surviving task stays and the session points at exactly it
	tasks, err := mem.ListTasksByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, perr.TaskIDs[0], tasks[0].ID)

	sess, err := mem.GetSession(ctx, perr.SessionID)
	require.NoError(t, err)
	assert.Equal(t, perr.TaskIDs, sess.ParsedTaskIDs)
}

func TestProcessInput_TransactionRollback(t *testing.T) {
	s := newSQLite(t)
	bad := item("bad")
	bad.Category = model.Category("SPORTS")
	ext := &staticExtractor{res: extraction.Result{Tasks: []extraction.Item{item("good"), bad}}}
	p := New(ext, s, nil)
	ctx := context.Background()

	_, err := p.ProcessInput(ctx, "alice", "good and bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	var perr *PartialWriteError
	assert.False(t, errors.As(err, &perr))

	tasks, err := s.ListTasksByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, tasks)
	sessions, err := s.ListSessionsByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestProcessInput_UpstreamNotCancelled(t *testing.T) {
	var sawCancel bool
	ext := extractorFunc(func(ctx context.Context, input string) extraction.Result {
		sawCancel = ctx.Err() != nil
		return extraction.Fallback(input)
	})
	p := New(ext, store.NewMemoryStore(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _ = p.ProcessInput(ctx, "alice", "hello")
	assert.False(t, sawCancel)
}

type extractorFunc func(ctx context.Context, input string) extraction.Result

func (f extractorFunc) Extract(ctx context.Context, input string) extraction.Result { return f(ctx, input) }

func TestProcessInput_PublishesEvents(t *testing.T) {
	bus := events.NewSubject(events.WithSyncDelivery())
	defer events.Complete(bus)

	completed := make(chan events.SessionCompleted, 1)
	distress := make(chan events.DistressDetected, 1)
	events.Subscribe(bus, events.TopicSessionCompleted, func(_ context.Context, e events.SessionCompleted) error {
		completed <- e
		return nil
	})
	events.Subscribe(bus, events.TopicDistressDetected, func(_ context.Context, e events.DistressDetected) error {
		distress <- e
		return nil
	})

	ext := extractorFunc(func(_ context.Context, input string) extraction.Result { return extraction.Fallback(input) })
	p := New(ext, store.NewMemoryStore(), bus)
	res, err := p.ProcessInput(context.Background(), "alice", "help")
	require.NoError(t, err)

	select {
	case e := <-completed:
		assert.Equal(t, res.SessionID, e.SessionID)
		assert.True(t, e.Fallback)
	case <-time.After(2 * time.Second):
		t.Fatal("no session event")
	}
	select {
	case e := <-distress:
		assert.Equal(t, "alice", e.OwnerID)
		assert.Equal(t, extraction.FallbackSuggestions, e.Suggestions)
	case <-time.After(2 * time.Second):
		t.Fatal("no distress event")
	}
}
