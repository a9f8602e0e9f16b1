package websocket

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/neboloop/mindsort/internal/logging"
	"github.com/neboloop/mindsort/internal/middleware"
	"github.com/neboloop/mindsort/internal/realtime"
)

// NewUpgrader accepts same-host requests, requests without an Origin header
// and the listed origins.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || strings.EqualFold(allowed, origin) {
					return true
				}
			}
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		},
	}
}

// Handler upgrades authenticated requests and hands the connection to the
// hub. It must run behind middleware.JWTMiddleware.
func Handler(hub *realtime.Hub, upgrader *websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			logging.Infof("[Realtime] WebSocket connection rejected: no authentication")
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		clientID := r.URL.Query().Get("clientId")
		if clientID == "" {
			clientID = "client-" + uuid.New().String()[:8]
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Errorf("[Realtime] WebSocket upgrade error: %v", err)
			return
		}
		realtime.ServeWS(hub, conn, clientID, userID)
	}
}
