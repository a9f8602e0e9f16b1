package sessions

import (
	"net/http"

	"github.com/neboloop/mindsort/internal/httputil"
	"github.com/neboloop/mindsort/internal/middleware"
	"github.com/neboloop/mindsort/internal/svc"
	"github.com/neboloop/mindsort/internal/types"
)

// ListSessionsHandler returns the caller's input history, newest first.
func ListSessionsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := svcCtx.Tasks.ListSessions(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}

		response := types.ListSessionsResponse{
			Sessions: make([]types.Session, len(sessions)),
			Total:    len(sessions),
		}
		for i, s := range sessions {
			response.Sessions[i] = types.FromSession(s)
		}
		httputil.OkJSON(w, response)
	}
}

// GetSessionHandler returns one of the caller's sessions.
func GetSessionHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svcCtx.Tasks.GetSession(r.Context(), middleware.UserIDFromContext(r.Context()), httputil.PathVar(r, "id"))
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		httputil.OkJSON(w, types.FromSession(s))
	}
}
