package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neboloop/mindsort/internal/db/migrations"
	"github.com/neboloop/mindsort/internal/logging"
	"github.com/neboloop/mindsort/internal/model"
	"github.com/neboloop/mindsort/internal/store"
	"github.com/neboloop/mindsort/internal/store/storetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logging.Disable()
	t.Cleanup(logging.Enable)
	migrations.QuietMode = true

	s, err := NewSQLite(filepath.Join(t.TempDir(), "data", "mindsort.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return newTestStore(t)
	})
}

func TestMigrationsApplied(t *testing.T) {
	s := newTestStore(t)
	version, err := migrations.Version(s.GetDB())
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
}

func TestReopenKeepsData(t *testing.T) {
	logging.Disable()
	t.Cleanup(logging.Enable)
	migrations.QuietMode = true
	path := filepath.Join(t.TempDir(), "mindsort.db")

	first, err := NewSQLite(path)
	require.NoError(t, err)
	created, err := first.CreateTask(context.Background(), storetest.NewTask("alice", "Renew prescription"))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewSQLite(path)
	require.NoError(t, err)
	defer second.Close()
	got, err := second.GetTask(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renew prescription", got.Title)
}

func TestInTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx store.Store) error {
		sess, err := tx.CreateSession(ctx, model.NewSession{OwnerID: "alice", OriginalInput: "x"})
		require.NoError(t, err)
		_, err = tx.CreateTask(ctx, storetest.NewTask("alice", "first"))
		require.NoError(t, err)
		require.NoError(t, tx.SetSessionTasks(ctx, sess.ID, []string{"whatever"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	tasks, err := s.ListTasksByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, tasks)
	sessions, err := s.ListSessionsByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestInTxCommits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var taskID string
	err := s.InTx(ctx, func(tx store.Store) error {
		task, err := tx.CreateTask(ctx, storetest.NewTask("alice", "kept"))
		if err != nil {
			return err
		}
		taskID = task.ID
		// nested call joins the outer transaction
		return tx.(store.Transactor).InTx(ctx, func(inner store.Store) error {
			_, err := inner.ToggleTaskCompleted(ctx, taskID)
			return err
		})
	})
	require.NoError(t, err)

	got, err := s.GetTask(ctx, taskID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestCheckConstraintRejectsBadCategory(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetDB().Exec(`INSERT INTO tasks (id, owner_id, title, category, priority, original_text, created_at, updated_at)
		VALUES ('x', 'alice', 't', 'FINANCE', 'Important', 'o', 0, 0)`)
	assert.Error(t, err)
}
