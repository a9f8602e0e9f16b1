package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func ownerEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(UserIDFromContext(r.Context())))
	})
}

func TestJWTMiddleware(t *testing.T) {
	token, err := IssueToken(secret, "alice", time.Hour)
	require.NoError(t, err)
	h := JWTMiddleware(secret)(ownerEcho())

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		target string
		code   int
		body   string
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, "/", http.StatusOK, "alice"},
		{"query token", func(r *http.Request) {}, "/ws?access_token=" + token, http.StatusOK, "alice"},
		{"missing", func(r *http.Request) {}, "/", http.StatusUnauthorized, ""},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, "/", http.StatusUnauthorized, ""},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer not.a.jwt") }, "/", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			tt.setup(r)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			assert.Equal(t, tt.code, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestParseToken(t *testing.T) {
	token, err := IssueToken(secret, "bob", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)

	expired, err := IssueToken(secret, "bob", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, expired)
	assert.Error(t, err)

	id, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "bob", id)

	_, err = IssueToken("", "bob", time.Hour)
	assert.Error(t, err)
	_, err = IssueToken(secret, "", time.Hour)
	assert.Error(t, err)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, 2)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	do := func(addr string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1235").Code)
	w := do("10.0.0.1:1236")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1234").Code)
}

func TestRateLimiter_SweepDropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(60, time.Minute, 2)
	for i := 0; i < 100; i++ {
		rl.limiter(fmt.Sprintf("10.0.%d.%d", i/256, i%256)).Allow()
	}
	busy := rl.limiter("10.1.0.1")
	busy.Allow()
	busy.Allow()
	require.Len(t, rl.limiters, 101)

	rl.mu.Lock()
	rl.sweep(time.Now().Add(time.Second))
	rl.mu.Unlock()
	assert.Len(t, rl.limiters, 100, "only the drained bucket has not refilled")

	rl.mu.Lock()
	rl.sweep(time.Now().Add(time.Hour))
	rl.mu.Unlock()
	assert.Empty(t, rl.limiters)
}
