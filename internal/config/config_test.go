package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromBytes_ExpandsEnvAndDefaults(t *testing.T) {
	t.Setenv("MINDSORT_TEST_KEY", "sk-from-env")

	c, err := LoadFromBytes([]byte(`
Name: mindsort
Port: 9000
AI:
  Provider: anthropic
  APIKey: ${MINDSORT_TEST_KEY}
Security:
  RateLimitEnabled: "no"
  AllowedOrigins: "http://localhost:5173, https://mindsort.app"
`))
	require.NoError(t, err)

	assert.Equal(t, 9000, c.Port)
	assert.Equal(t, "127.0.0.1", c.Host)
	assert.Equal(t, "anthropic", c.AI.Provider)
	assert.Equal(t, "sk-from-env", c.AI.APIKey)
	assert.Equal(t, 0.3, c.AI.ExtractionTemperature)
	assert.Equal(t, 0.7, c.AI.SummaryTemperature)
	assert.Equal(t, 60*time.Second, c.AITimeout())
	assert.Equal(t, DriverSQLite, c.Database.Driver)
	assert.False(t, c.IsRateLimitEnabled())
	assert.Equal(t, []string{"http://localhost:5173", "https://mindsort.app"}, c.Origins())
	assert.Equal(t, "127.0.0.1:9000", c.Addr())
	assert.Equal(t, 30*24*time.Hour, c.AccessTTL())
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	_, err := LoadFromBytes([]byte("Database:\n  Driver: postgres\n"))
	assert.Error(t, err)

	_, err = LoadFromBytes([]byte("Port: [oops"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mindsort.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Database:\n  Driver: memory\nLog:\n  Format: json\n"), 0644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, c.Database.Driver)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, "info", c.Log.Level)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"", true, true},
		{"", false, false},
		{"TRUE", false, true},
		{" yes ", false, true},
		{"1", false, true},
		{"false", true, false},
		{"nope", true, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseBool(tt.in, tt.def), "parseBool(%q, %v)", tt.in, tt.def)
	}
}
