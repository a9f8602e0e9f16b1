package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutputCarriesOwner(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "info", "json")
	t.Cleanup(func() { Init("info", "text") })

	ctx := ContextWithOwner(context.Background(), "alice")
	WithContext(ctx).Infof("[Pipeline] created %d tasks", 2)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "[Pipeline] created 2 tasks", line["msg"])
	assert.Equal(t, "alice", line["owner"])
	assert.Equal(t, "INFO", line["level"])
}

func TestDisableSuppressesOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug", "text")
	t.Cleanup(func() {
		Enable()
		Init("info", "text")
	})

	Disable()
	Errorf("should not appear: %s", "x")
	assert.Zero(t, buf.Len())

	Enable()
	Warn("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn", "text")
	t.Cleanup(func() { Init("info", "text") })

	Debugf("hidden %d", 1)
	Info("hidden too")
	assert.Zero(t, buf.Len())

	Error("shown")
	assert.Contains(t, buf.String(), "shown")
}
