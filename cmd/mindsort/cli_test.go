package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zkr "github.com/zalando/go-keyring"

	"github.com/neboloop/mindsort/internal/ai"
	"github.com/neboloop/mindsort/internal/config"
	"github.com/neboloop/mindsort/internal/keyring"
	"github.com/neboloop/mindsort/internal/middleware"
	"github.com/neboloop/mindsort/internal/pipeline"
	"github.com/neboloop/mindsort/internal/svc"
	"github.com/neboloop/mindsort/internal/types"
)

const dumpReply = `{"tasks":[{"title":"Surgery","description":"Pre-op checklist","category":"HEALTH","priority":"Very Important","deadline":"21st"},
{"title":"Email advisor","description":null,"category":"ACADEMICS","priority":"Important","deadline":null}],
"distressDetected":true,"mentalHealthSuggestions":["Take a short walk"]}`

func setup(t *testing.T, replies ...ai.ScriptedResponse) *config.Config {
	t.Helper()
	c, err := config.LoadFromBytes([]byte("Log:\n  Level: error\n"))
	require.NoError(t, err)
	c.Database.SQLitePath = filepath.Join(t.TempDir(), "mindsort.db")
	c.Auth.AccessSecret = "cli-secret"

	svcOptions = []svc.Option{svc.WithCompleter(ai.NewScriptedCompleter(replies...))}
	t.Cleanup(func() { svcOptions = nil })
	return &c
}

func run(t *testing.T, c *config.Config, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := SetupRootCmd(c)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDumpAndManageTasks(t *testing.T) {
	c := setup(t, ai.ScriptedResponse{Content: dumpReply})

	out, err := run(t, c, "", "dump", "--owner", "alice", "--json", "Surgery on 21st, email advisor, so stressed")
	require.NoError(t, err, out)
	var res pipeline.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.TaskIDs, 2)
	assert.True(t, res.DistressDetected)

	out, err = run(t, c, "", "tasks", "list", "--owner", "alice", "--json", "--category", "health")
	require.NoError(t, err, out)
	var list types.ListTasksResponse
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, 2, list.Total)
	id := list.Tasks[0].Id

	out, err = run(t, c, "", "tasks", "toggle", id, "--owner", "alice", "--json")
	require.NoError(t, err, out)
	var toggled types.Task
	require.NoError(t, json.Unmarshal([]byte(out), &toggled))
	assert.True(t, toggled.Completed)

	out, err = run(t, c, "", "tasks", "update", id, "--owner", "alice", "--json", "--priority", "optional", "--clear-deadline")
	require.NoError(t, err, out)
	var updated types.Task
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, "Optional", updated.Priority)
	assert.Nil(t, updated.Deadline)
	assert.Equal(t, "Surgery", updated.Title)
	assert.True(t, updated.Completed)

	_, err = run(t, c, "", "tasks", "toggle", id, "--owner", "bob")
	assert.Error(t, err)

	out, err = run(t, c, "", "tasks", "delete", id, "--owner", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+id)

	out, err = run(t, c, "", "tasks", "list", "--owner", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Email advisor")
	assert.Contains(t, out, "1 total, 0 completed, 1 pending")
}

func TestDump_ReadsStdinAndPrintsText(t *testing.T) {
	c := setup(t, ai.ScriptedResponse{Content: dumpReply})

	out, err := run(t, c, "Surgery on 21st\n", "dump", "--owner", "alice")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2 task(s)")
	assert.Contains(t, out, "[HEALTH] Surgery (Very Important) due 21st")
	assert.Contains(t, out, "Take a short walk")
}

func TestDump_FallbackMessage(t *testing.T) {
	c := setup(t, ai.ScriptedResponse{Err: ai.ErrEmptyCompletion})

	out, err := run(t, c, "", "dump", "--owner", "alice", "I can't cope")
	require.NoError(t, err, out)
	assert.Contains(t, out, "saved it as a single task")
	assert.Contains(t, out, "1 task(s)")
}

func TestCommands_RequireOwner(t *testing.T) {
	c := setup(t)
	for _, args := range [][]string{
		{"dump", "hello"},
		{"tasks", "list"},
		{"summary"},
		{"sessions"},
		{"token"},
	} {
		_, err := run(t, c, "", args...)
		assert.ErrorIs(t, err, errOwnerRequired, strings.Join(args, " "))
	}
}

func TestSessionsAndSummary(t *testing.T) {
	c := setup(t, ai.ScriptedResponse{Content: dumpReply}, ai.ScriptedResponse{Content: "You are doing great."})

	_, err := run(t, c, "", "dump", "--owner", "alice", "Surgery on 21st")
	require.NoError(t, err)

	out, err := run(t, c, "", "sessions", "--owner", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "2 task(s) (distress)")
	assert.Contains(t, out, `"Surgery on 21st"`)

	out, err = run(t, c, "", "summary", "--owner", "alice", "--period", "weekly")
	require.NoError(t, err)
	assert.Equal(t, "You are doing great.\n", out)

	_, err = run(t, c, "", "summary", "--owner", "alice", "--period", "yearly")
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	c := setup(t)

	out, err := run(t, c, "", "token", "--owner", "alice")
	require.NoError(t, err)
	owner, err := middleware.ParseToken("cli-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)
}

func TestAPIKey(t *testing.T) {
	zkr.MockInit()
	c := setup(t)

	out, err := run(t, c, "sk-test\n", "apikey", "set", "anthropic")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved anthropic API key")

	key, err := keyring.GetAPIKey("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)

	_, err = run(t, c, "", "apikey", "delete", "anthropic")
	require.NoError(t, err)
	_, err = keyring.GetAPIKey("anthropic")
	assert.ErrorIs(t, err, keyring.ErrNotFound)

	_, err = run(t, c, "", "apikey", "set", "carrier-pigeon", "key")
	assert.Error(t, err)
}
