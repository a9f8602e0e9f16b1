package tasks

import (
	"net/http"

	"github.com/neboloop/mindsort/internal/httputil"
	"github.com/neboloop/mindsort/internal/logic/tasks"
	"github.com/neboloop/mindsort/internal/middleware"
	"github.com/neboloop/mindsort/internal/summary"
	"github.com/neboloop/mindsort/internal/svc"
	"github.com/neboloop/mindsort/internal/types"
)

// ListTasksHandler returns the caller's tasks, newest first. Counts always
// cover every task; category and status only narrow the list.
func ListTasksHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ListTasksRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		filter, err := tasks.ParseFilter(req.Category, req.Status)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}

		all, err := svcCtx.Tasks.List(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}

		counts := summary.Count(all)
		matched := filter.Apply(all)
		response := types.ListTasksResponse{
			Tasks:     make([]types.Task, len(matched)),
			Total:     counts.Total,
			Completed: counts.Completed,
			Pending:   counts.Pending,
		}
		for i, t := range matched {
			response.Tasks[i] = types.FromTask(t)
		}
		httputil.OkJSON(w, response)
	}
}

// GetTaskHandler returns a single task by ID
func GetTaskHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, err := svcCtx.Tasks.Get(r.Context(), middleware.UserIDFromContext(r.Context()), httputil.PathVar(r, "id"))
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		httputil.OkJSON(w, types.FromTask(task))
	}
}

// UpdateTaskHandler applies a partial update. Fields absent from the body
// are left alone; an explicit null clears description or deadline.
func UpdateTaskHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UpdateTaskRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.WriteError(w, r, err)
			return
		}

		task, err := svcCtx.Tasks.Update(r.Context(), middleware.UserIDFromContext(r.Context()), req.Id, req.TaskPatch)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		httputil.OkJSON(w, types.FromTask(task))
	}
}

// ToggleTaskHandler flips a task's completed flag
func ToggleTaskHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, err := svcCtx.Tasks.Toggle(r.Context(), middleware.UserIDFromContext(r.Context()), httputil.PathVar(r, "id"))
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		httputil.OkJSON(w, types.FromTask(task))
	}
}

// DeleteTaskHandler deletes a task
func DeleteTaskHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svcCtx.Tasks.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), httputil.PathVar(r, "id")); err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		httputil.OkJSON(w, types.MessageResponse{Message: "task deleted"})
	}
}
