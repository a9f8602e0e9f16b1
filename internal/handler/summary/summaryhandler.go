package summary

import (
	"net/http"

	"github.com/neboloop/mindsort/internal/httputil"
	"github.com/neboloop/mindsort/internal/markdown"
	"github.com/neboloop/mindsort/internal/middleware"
	"github.com/neboloop/mindsort/internal/summary"
	"github.com/neboloop/mindsort/internal/svc"
	"github.com/neboloop/mindsort/internal/types"
)

// SummaryHandler writes a daily or weekly digest of the caller's tasks.
func SummaryHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SummaryRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		period, err := summary.ParsePeriod(req.Period)
		if err != nil {
			httputil.BadRequest(w, "period must be daily or weekly")
			return
		}

		ctx := r.Context()
		owner := middleware.UserIDFromContext(ctx)
		text, err := svcCtx.Summarizer.Summarize(ctx, owner, period)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		counts, err := svcCtx.Tasks.Counts(ctx, owner)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}

		httputil.OkJSON(w, types.SummaryResponse{
			Period:    string(period),
			Summary:   text,
			Html:      markdown.Render(text),
			Completed: counts.Completed,
			Pending:   counts.Pending,
		})
	}
}
