package local

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_GeneratesAndPersistsSecret(t *testing.T) {
	t.Setenv("MINDSORT_DATA_DIR", t.TempDir())

	first, err := LoadSettings()
	require.NoError(t, err)
	assert.Len(t, first.AccessSecret, 64)
	assert.Equal(t, int64(2592000), first.AccessExpire)

	second, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, first.AccessSecret, second.AccessSecret)
}

func TestLoadSettings_BackfillsMissingSecret(t *testing.T) {
	t.Setenv("MINDSORT_DATA_DIR", t.TempDir())
	require.NoError(t, SaveSettings(&Settings{AccessExpire: 60}))

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.NotEmpty(t, s.AccessSecret)
	assert.Equal(t, int64(60), s.AccessExpire)
}
