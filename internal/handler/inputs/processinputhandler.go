package inputs

import (
	"net/http"
	"strings"

	"github.com/neboloop/mindsort/internal/httputil"
	"github.com/neboloop/mindsort/internal/middleware"
	"github.com/neboloop/mindsort/internal/svc"
	"github.com/neboloop/mindsort/internal/types"
)

// ProcessInputHandler turns the posted text into a session and its tasks.
func ProcessInputHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ProcessInputRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		if strings.TrimSpace(req.Input) == "" {
			httputil.BadRequest(w, "input is required")
			return
		}

		res, err := svcCtx.Pipeline.ProcessInput(r.Context(), middleware.UserIDFromContext(r.Context()), req.Input)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		httputil.OkJSON(w, types.ProcessInputResponse(res))
	}
}
