package handler

import (
	"net/http"
	"time"

	"github.com/neboloop/mindsort/internal/config"
	"github.com/neboloop/mindsort/internal/httputil"
	"github.com/neboloop/mindsort/internal/logging"
	"github.com/neboloop/mindsort/internal/svc"
	"github.com/neboloop/mindsort/internal/types"
)

func HealthCheckHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := &types.HealthResponse{
			Status:    "healthy",
			Version:   svcCtx.Version,
			Database:  svcCtx.Config.Database.Driver,
			Provider:  svcCtx.Config.AI.Provider,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if svcCtx.DB != nil {
			if err := svcCtx.DB.GetDB().PingContext(r.Context()); err != nil {
				logging.Errorf("[Health] Database ping failed: %v", err)
				resp.Status = "degraded"
				httputil.WriteJSON(w, http.StatusServiceUnavailable, resp)
				return
			}
		} else if resp.Database == "" {
			resp.Database = config.DriverMemory
		}
		httputil.OkJSON(w, resp)
	}
}
