package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neboloop/mindsort/internal/events"
	"github.com/neboloop/mindsort/internal/middleware"
	"github.com/neboloop/mindsort/internal/realtime"
)

const secret = "ws-secret"

func startServer(t *testing.T, hub *realtime.Hub) *httptest.Server {
	t.Helper()
	h := middleware.JWTMiddleware(secret)(Handler(hub, NewUpgrader(nil)))
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, owner string) *gws.Conn {
	t.Helper()
	token, err := middleware.IssueToken(secret, owner, time.Hour)
	require.NoError(t, err)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?access_token=" + token
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHandler_DeliversOwnerEventsOnly(t *testing.T) {
	hub := realtime.NewHub()
	bus := events.NewSubject(events.WithSyncDelivery())
	defer events.Complete(bus)
	detach := hub.Bridge(bus)
	defer detach()

	srv := startServer(t, hub)
	alice := dial(t, srv, "alice")
	bob := dial(t, srv, "bob")

	require.Eventually(t, func() bool {
		return hub.ClientCount("alice") == 1 && hub.ClientCount("bob") == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, events.Emit(bus, events.TopicDistressDetected, events.DistressDetected{
		OwnerID:     "alice",
		SessionID:   "s1",
		Suggestions: []string{"Breathe"},
	}))

	alice.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string                  `json:"type"`
		Data events.DistressDetected `json:"data"`
	}
	require.NoError(t, alice.ReadJSON(&msg))
	assert.Equal(t, realtime.TypeDistressDetected, msg.Type)
	assert.Equal(t, "s1", msg.Data.SessionID)
	assert.Equal(t, []string{"Breathe"}, msg.Data.Suggestions)

	bob.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := bob.ReadMessage()
	assert.Error(t, err, "bob must not receive alice's events")
}

func TestHandler_Ping(t *testing.T) {
	hub := realtime.NewHub()
	srv := startServer(t, hub)
	conn := dial(t, srv, "alice")

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg realtime.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, realtime.TypePong, msg.Type)
}

func TestHandler_Unauthenticated(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	w := httptest.NewRecorder()
	Handler(realtime.NewHub(), NewUpgrader(nil)).ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_ClientCountDropsOnClose(t *testing.T) {
	hub := realtime.NewHub()
	srv := startServer(t, hub)
	conn := dial(t, srv, "alice")

	require.Eventually(t, func() bool { return hub.ClientCount("alice") == 1 }, 2*time.Second, 10*time.Millisecond)
	conn.WriteMessage(gws.CloseMessage, gws.FormatCloseMessage(gws.CloseNormalClosure, ""))
	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount("alice") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestNewUpgrader_CheckOrigin(t *testing.T) {
	up := NewUpgrader([]string{"https://mindsort.app"})
	check := func(origin, host string) bool {
		r := httptest.NewRequest(http.MethodGet, "http://"+host+"/ws", nil).WithContext(context.Background())
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return up.CheckOrigin(r)
	}
	assert.True(t, check("", "localhost:27480"))
	assert.True(t, check("https://mindsort.app", "api.mindsort.app"))
	assert.True(t, check("http://localhost:27480", "localhost:27480"))
	assert.False(t, check("https://evil.example", "localhost:27480"))
}
