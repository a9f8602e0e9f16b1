package keyring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zkr "github.com/zalando/go-keyring"
)

func TestAPIKeyRoundTrip(t *testing.T) {
	zkr.MockInit()

	_, err := GetAPIKey("openai")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, SetAPIKey("OpenAI", "sk-123"))
	key, err := GetAPIKey("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-123", key)

	require.NoError(t, DeleteAPIKey("openai"))
	require.NoError(t, DeleteAPIKey("openai"))
	_, err = GetAPIKey("openai")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetAPIKey_Empty(t *testing.T) {
	zkr.MockInit()
	assert.Error(t, SetAPIKey("openai", "  "))
}

func TestResolveAPIKey(t *testing.T) {
	zkr.MockInit()
	t.Setenv("MINDSORT_KEYRING_DISABLED", "")

	assert.Equal(t, "cfg", ResolveAPIKey("anthropic", "cfg"))
	assert.Equal(t, "", ResolveAPIKey("anthropic", ""))

	require.NoError(t, SetAPIKey("anthropic", "from-keychain"))
	assert.Equal(t, "from-keychain", ResolveAPIKey("anthropic", ""))

	t.Setenv("MINDSORT_KEYRING_DISABLED", "1")
	assert.False(t, Available())
	assert.Equal(t, "", ResolveAPIKey("anthropic", ""))
}
