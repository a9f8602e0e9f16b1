package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/neboloop/mindsort/internal/logging"
	"github.com/neboloop/mindsort/internal/middleware"
	"github.com/neboloop/mindsort/internal/svc"
)

// Handler serves the streamable MCP endpoint. It must run behind
// middleware.JWTMiddleware; each request gets a server bound to its owner.
type Handler struct {
	svc         *svc.ServiceContext
	httpHandler http.Handler
}

// NewHandler creates the MCP HTTP handler.
func NewHandler(svc *svc.ServiceContext) *Handler {
	h := &Handler{svc: svc}

	// Stateless: every request carries its own bearer token, so no SDK
	// session bookkeeping is needed.
	streamHandler := mcp.NewStreamableHTTPHandler(
		h.getServerForRequest,
		&mcp.StreamableHTTPOptions{Stateless: true},
	)
	h.httpHandler = h.requireOwner(streamHandler)
	return h
}

func (h *Handler) requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if middleware.UserIDFromContext(r.Context()) == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="mindsort"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		logging.Debugf("[MCP] %s %s | Session: %q", r.Method, r.URL.Path, r.Header.Get("Mcp-Session-Id"))
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) getServerForRequest(r *http.Request) *mcp.Server {
	return NewServer(h.svc, middleware.UserIDFromContext(r.Context()), r.Header.Get("Mcp-Session-Id"))
}

// ServeHTTP handles all MCP HTTP requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.httpHandler.ServeHTTP(w, r)
}
