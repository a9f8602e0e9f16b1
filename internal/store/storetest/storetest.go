// Package storetest runs the same behavioural checks against every
// store.Store implementation.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neboloop/mindsort/internal/model"
	"github.com/neboloop/mindsort/internal/store"
)

// Run exercises s. newStore must return an empty store on every call.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("CreateAndGetTask", func(t *testing.T) { testCreateAndGetTask(t, newStore(t)) })
	t.Run("ListNewestFirst", func(t *testing.T) { testListNewestFirst(t, newStore(t)) })
	t.Run("UpdateAppliesOnlySetFields", func(t *testing.T) { testUpdate(t, newStore(t)) })
	t.Run("ToggleIsInvolution", func(t *testing.T) { testToggle(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("SessionLifecycle", func(t *testing.T) { testSessions(t, newStore(t)) })
	t.Run("RejectsInvalidTask", func(t *testing.T) { testInvalid(t, newStore(t)) })
}

// NewTask returns valid create fields for owner.
func NewTask(owner, title string) model.NewTask {
	return model.NewTask{
		OwnerID:      owner,
		Title:        title,
		Category:     model.CategoryAcademics,
		Priority:     model.PriorityImportant,
		OriginalText: "original: " + title,
	}
}

func strPtr(s string) *string { return &s }

func testCreateAndGetTask(t *testing.T, s store.Store) {
	ctx := context.Background()
	in := NewTask("alice", "Finish lab report")
	in.Description = strPtr("section 3 still missing")
	in.Deadline = strPtr("Friday")

	created, err := s.CreateTask(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Completed)

	got, err := s.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.OwnerID)
	assert.Equal(t, "Finish lab report", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "section 3 still missing", *got.Description)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, "Friday", *got.Deadline)
	assert.Equal(t, model.CategoryAcademics, got.Category)
	assert.Equal(t, model.PriorityImportant, got.Priority)
	assert.Equal(t, "original: Finish lab report", got.OriginalText)

	_, err = s.GetTask(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func testListNewestFirst(t *testing.T, s store.Store) {
	ctx := context.Background()
	var ids []string
	for _, title := range []string{"one", "two", "three"} {
		task, err := s.CreateTask(ctx, NewTask("alice", title))
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	_, err := s.CreateTask(ctx, NewTask("bob", "not mine"))
	require.NoError(t, err)

	tasks, err := s.ListTasksByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, ids[2], tasks[0].ID)
	assert.Equal(t, ids[1], tasks[1].ID)
	assert.Equal(t, ids[0], tasks[2].ID)

	none, err := s.ListTasksByOwner(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testUpdate(t *testing.T, s store.Store) {
	ctx := context.Background()
	in := NewTask("alice", "Email advisor")
	in.Description = strPtr("about the internship offer")
	in.Deadline = strPtr("Monday")
	created, err := s.CreateTask(ctx, in)
	require.NoError(t, err)

	updated, err := s.UpdateTask(ctx, created.ID, model.TaskPatch{Priority: model.Some(model.PriorityOptional)})
	require.NoError(t, err)
	assert.Equal(t, model.PriorityOptional, updated.Priority)
	assert.Equal(t, "Email advisor", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "about the internship offer", *updated.Description)
	require.NotNil(t, updated.Deadline)
	assert.Equal(t, "Monday", *updated.Deadline)

	cleared, err := s.UpdateTask(ctx, created.ID, model.TaskPatch{
		Title:    model.Some("Email advisor today"),
		Deadline: model.Cleared[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, "Email advisor today", cleared.Title)
	assert.Nil(t, cleared.Deadline)
	require.NotNil(t, cleared.Description)

	reread, err := s.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, cleared.Title, reread.Title)
	assert.Nil(t, reread.Deadline)
	assert.Equal(t, created.OriginalText, reread.OriginalText)
	assert.Equal(t, created.Category, reread.Category)

	_, err = s.UpdateTask(ctx, "missing", model.TaskPatch{Title: model.Some("x")})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.UpdateTask(ctx, created.ID, model.TaskPatch{Title: model.Cleared[string]()})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func testToggle(t *testing.T, s store.Store) {
	ctx := context.Background()
	created, err := s.CreateTask(ctx, NewTask("alice", "Take meds"))
	require.NoError(t, err)

	once, err := s.ToggleTaskCompleted(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, once.Completed)

	twice, err := s.ToggleTaskCompleted(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, twice.Completed)

	_, err = s.ToggleTaskCompleted(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func testDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	created, err := s.CreateTask(ctx, NewTask("alice", "Call dentist"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteTask(ctx, created.ID))
	_, err = s.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTask(ctx, created.ID), model.ErrNotFound)
}

func testSessions(t *testing.T, s store.Store) {
	ctx := context.Background()
	sess, err := s.CreateSession(ctx, model.NewSession{
		OwnerID:          "alice",
		OriginalInput:    "so much to do",
		DistressDetected: true,
		Suggestions:      []string{"breathe"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Empty(t, sess.ParsedTaskIDs)
	assert.False(t, sess.Finalized)

	require.NoError(t, s.SetSessionTasks(ctx, sess.ID, []string{"t1", "t2"}))
	assert.ErrorIs(t, s.SetSessionTasks(ctx, sess.ID, []string{"t3"}), model.ErrSessionFinalized)

	got, err := s.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, got.ParsedTaskIDs)
	assert.True(t, got.Finalized)
	assert.True(t, got.DistressDetected)
	assert.Equal(t, []string{"breathe"}, got.Suggestions)
	assert.Equal(t, "so much to do", got.OriginalInput)

	second, err := s.CreateSession(ctx, model.NewSession{OwnerID: "alice", OriginalInput: "later"})
	require.NoError(t, err)
	list, err := s.ListSessionsByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	_, err = s.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, s.SetSessionTasks(ctx, "missing", nil), model.ErrNotFound)
}

func testInvalid(t *testing.T, s store.Store) {
	ctx := context.Background()
	bad := NewTask("alice", "x")
	bad.Priority = "ASAP"
	_, err := s.CreateTask(ctx, bad)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = s.CreateSession(ctx, model.NewSession{OriginalInput: "no owner"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
