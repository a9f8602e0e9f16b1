package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/neboloop/mindsort/internal/config"
	"github.com/neboloop/mindsort/internal/handler"
	"github.com/neboloop/mindsort/internal/handler/inputs"
	"github.com/neboloop/mindsort/internal/handler/sessions"
	"github.com/neboloop/mindsort/internal/handler/summary"
	"github.com/neboloop/mindsort/internal/handler/tasks"
	"github.com/neboloop/mindsort/internal/logging"
	"github.com/neboloop/mindsort/internal/mcp"
	"github.com/neboloop/mindsort/internal/middleware"
	"github.com/neboloop/mindsort/internal/svc"
	"github.com/neboloop/mindsort/internal/websocket"
)

// ServerOptions holds optional dependencies for the server
type ServerOptions struct {
	SvcCtx *svc.ServiceContext // Pre-initialized service context
	Quiet  bool                // Suppress startup messages and access logs
}

// Run starts the MindSort server with the given configuration.
// It blocks until the context is cancelled or the listener fails.
func Run(ctx context.Context, c config.Config, opts ...ServerOptions) error {
	var o ServerOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	if err := checkPortAvailable(c.Addr()); err != nil {
		return fmt.Errorf("address %s is already in use: %w", c.Addr(), err)
	}

	svcCtx := o.SvcCtx
	if svcCtx == nil {
		var err error
		svcCtx, err = svc.NewServiceContext(ctx, c)
		if err != nil {
			return err
		}
		defer svcCtx.Close()
	}

	// ReadTimeout/WriteTimeout are omitted: they set deadlines on the
	// underlying net.Conn, which breaks hijacked websocket connections.
	httpServer := &http.Server{
		Addr:              c.Addr(),
		Handler:           NewRouter(svcCtx, o.Quiet),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	if !o.Quiet {
		fmt.Printf("Server ready at http://%s\n", c.Addr())
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	if !o.Quiet {
		fmt.Println("\nShutting down server gracefully...")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// NewRouter builds the full HTTP surface.
func NewRouter(svcCtx *svc.ServiceContext, quiet bool) http.Handler {
	c := svcCtx.Config
	r := chi.NewRouter()

	if !quiet {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(corsMiddleware(c.Origins(), !c.IsProductionMode()))

	r.Get("/health", handler.HealthCheckHandler(svcCtx))

	r.Route("/api/v1", func(r chi.Router) {
		if c.IsRateLimitEnabled() {
			limiter := middleware.NewRateLimiter(c.Security.RateLimitRequests, c.RateLimitWindow(), c.Security.RateLimitBurst)
			r.Use(limiter.Middleware)
		}
		r.Use(maxBodyMiddleware(c.Security.MaxRequestBodySize))
		r.Use(middleware.JWTMiddleware(c.Auth.AccessSecret))

		registerProtectedRoutes(r, svcCtx)
	})

	logging.Debugf("[Server] Routes registered")
	return r
}

func registerProtectedRoutes(r chi.Router, svcCtx *svc.ServiceContext) {
	r.Post("/inputs", inputs.ProcessInputHandler(svcCtx))

	r.Get("/tasks", tasks.ListTasksHandler(svcCtx))
	r.Get("/tasks/{id}", tasks.GetTaskHandler(svcCtx))
	r.Patch("/tasks/{id}", tasks.UpdateTaskHandler(svcCtx))
	r.Delete("/tasks/{id}", tasks.DeleteTaskHandler(svcCtx))
	r.Post("/tasks/{id}/toggle", tasks.ToggleTaskHandler(svcCtx))

	r.Get("/sessions", sessions.ListSessionsHandler(svcCtx))
	r.Get("/sessions/{id}", sessions.GetSessionHandler(svcCtx))

	r.Post("/summary", summary.SummaryHandler(svcCtx))

	r.Get("/ws", websocket.Handler(svcCtx.Hub, websocket.NewUpgrader(svcCtx.Config.Origins())))

	mcpHandler := mcp.NewHandler(svcCtx)
	r.Handle("/mcp", mcpHandler)
	r.Handle("/mcp/*", mcpHandler)
}

// maxBodyMiddleware caps request bodies. Websocket upgrades carry none.
func maxBodyMiddleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware allows the configured list, plus localhost origins outside
// production mode.
func corsMiddleware(allowed []string, allowLocalhost bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(origin, allowed, allowLocalhost) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Mcp-Session-Id")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed []string, allowLocalhost bool) bool {
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return allowLocalhost && isLocalhostOrigin(origin)
}

func isLocalhostOrigin(origin string) bool {
	for _, prefix := range []string{"http://localhost", "http://127.0.0.1", "https://localhost", "https://127.0.0.1"} {
		if origin == prefix || strings.HasPrefix(origin, prefix+":") {
			return true
		}
	}
	return false
}

// checkPortAvailable checks if the address is free for binding
func checkPortAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return ln.Close()
}
