package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/neboloop/mindsort/internal/logging"
	"github.com/neboloop/mindsort/internal/logic/tasks"
	"github.com/neboloop/mindsort/internal/mcp/mcpctx"
	"github.com/neboloop/mindsort/internal/model"
	"github.com/neboloop/mindsort/internal/summary"
	"github.com/neboloop/mindsort/internal/types"
)

// ProcessInputInput defines input for the process_input tool.
type ProcessInputInput struct {
	Input string `json:"input" jsonschema:"Free text to organize into tasks"`
}

// ListTasksInput defines input for the list_tasks tool.
type ListTasksInput struct {
	Category string `json:"category,omitempty" jsonschema:"Only tasks in this category: HEALTH, ACADEMICS, INTERNSHIP, COMMUNICATION, EMOTIONS"`
	Status   string `json:"status,omitempty" jsonschema:"all, pending or completed"`
}

// TaskIDInput identifies a single task.
type TaskIDInput struct {
	ID string `json:"id" jsonschema:"Task ID"`
}

// UpdateTaskInput defines input for the update_task tool. Omitted fields are
// left unchanged.
type UpdateTaskInput struct {
	ID               string  `json:"id" jsonschema:"Task ID"`
	Title            *string `json:"title,omitempty" jsonschema:"New title"`
	Description      *string `json:"description,omitempty" jsonschema:"New description"`
	Priority         *string `json:"priority,omitempty" jsonschema:"Very Important, Important or Optional"`
	Deadline         *string `json:"deadline,omitempty" jsonschema:"New deadline"`
	Completed        *bool   `json:"completed,omitempty" jsonschema:"Completion state"`
	ClearDescription bool    `json:"clearDescription,omitempty" jsonschema:"Remove the description"`
	ClearDeadline    bool    `json:"clearDeadline,omitempty" jsonschema:"Remove the deadline"`
}

// SummaryInput defines input for the generate_summary tool.
type SummaryInput struct {
	Period string `json:"period" jsonschema:"daily or weekly"`
}

// SummaryOutput is returned by generate_summary.
type SummaryOutput struct {
	Period    string `json:"period"`
	Summary   string `json:"summary"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
}

// DeleteOutput is returned by delete_task.
type DeleteOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// RegisterTaskTools registers every task tool on the server.
func RegisterTaskTools(server *mcp.Server, toolCtx *mcpctx.ToolContext) {
	mcp.AddTool(server, &mcp.Tool{
		Name:  "process_input",
		Title: "Organize Text Into Tasks",
		Description: `Extract categorized, prioritized tasks from free text and save them.

Returns the extracted tasks, the new session and task ids, whether emotional
distress was detected and any wellbeing suggestions.`,
	}, processInputHandler(toolCtx))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tasks",
		Title:       "List Tasks",
		Description: "List the user's tasks, newest first, with completed and pending counts.",
	}, listTasksHandler(toolCtx))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_task",
		Title:       "Toggle Task",
		Description: "Flip a task between completed and pending.",
	}, toggleTaskHandler(toolCtx))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_task",
		Title:       "Update Task",
		Description: "Change a task's title, description, priority, deadline or completion state.",
	}, updateTaskHandler(toolCtx))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_task",
		Title:       "Delete Task",
		Description: "Permanently delete a task.",
	}, deleteTaskHandler(toolCtx))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_summary",
		Title:       "Generate Summary",
		Description: "Write a short encouraging daily or weekly digest of the user's tasks.",
	}, summaryHandler(toolCtx))
}

func processInputHandler(toolCtx *mcpctx.ToolContext) func(context.Context, *mcp.CallToolRequest, ProcessInputInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ProcessInputInput) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(input.Input) == "" {
			return nil, nil, mcpctx.NewValidationError("input is required", "input")
		}
		res, err := toolCtx.Svc().Pipeline.ProcessInput(ctx, toolCtx.OwnerID(), input.Input)
		if err != nil {
			return toolFailure(toolCtx, "process_input", err)
		}
		return jsonResult(res)
	}
}

func listTasksHandler(toolCtx *mcpctx.ToolContext) func(context.Context, *mcp.CallToolRequest, ListTasksInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListTasksInput) (*mcp.CallToolResult, any, error) {
		filter, err := tasks.ParseFilter(input.Category, input.Status)
		if err != nil {
			return nil, nil, mcpctx.NewValidationError(err.Error(), "")
		}
		all, err := toolCtx.Svc().Tasks.List(ctx, toolCtx.OwnerID())
		if err != nil {
			return toolFailure(toolCtx, "list_tasks", err)
		}
		counts := summary.Count(all)
		out := types.ListTasksResponse{
			Tasks:     []types.Task{},
			Total:     counts.Total,
			Completed: counts.Completed,
			Pending:   counts.Pending,
		}
		for _, t := range filter.Apply(all) {
			out.Tasks = append(out.Tasks, types.FromTask(t))
		}
		return jsonResult(out)
	}
}

func toggleTaskHandler(toolCtx *mcpctx.ToolContext) func(context.Context, *mcp.CallToolRequest, TaskIDInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TaskIDInput) (*mcp.CallToolResult, any, error) {
		if input.ID == "" {
			return nil, nil, mcpctx.NewValidationError("id is required", "id")
		}
		t, err := toolCtx.Svc().Tasks.Toggle(ctx, toolCtx.OwnerID(), input.ID)
		if err != nil {
			return toolFailure(toolCtx, "toggle_task", err)
		}
		return jsonResult(types.FromTask(t))
	}
}

func updateTaskHandler(toolCtx *mcpctx.ToolContext) func(context.Context, *mcp.CallToolRequest, UpdateTaskInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UpdateTaskInput) (*mcp.CallToolResult, any, error) {
		if input.ID == "" {
			return nil, nil, mcpctx.NewValidationError("id is required", "id")
		}
		t, err := toolCtx.Svc().Tasks.Update(ctx, toolCtx.OwnerID(), input.ID, input.patch())
		if err != nil {
			return toolFailure(toolCtx, "update_task", err)
		}
		return jsonResult(types.FromTask(t))
	}
}

func (in UpdateTaskInput) patch() model.TaskPatch {
	var p model.TaskPatch
	if in.Title != nil {
		p.Title = model.Some(*in.Title)
	}
	switch {
	case in.ClearDescription:
		p.Description = model.Cleared[string]()
	case in.Description != nil:
		p.Description = model.Some(*in.Description)
	}
	if in.Priority != nil {
		p.Priority = model.Some(model.Priority(*in.Priority))
	}
	switch {
	case in.ClearDeadline:
		p.Deadline = model.Cleared[string]()
	case in.Deadline != nil:
		p.Deadline = model.Some(*in.Deadline)
	}
	if in.Completed != nil {
		p.Completed = model.Some(*in.Completed)
	}
	return p
}

func deleteTaskHandler(toolCtx *mcpctx.ToolContext) func(context.Context, *mcp.CallToolRequest, TaskIDInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TaskIDInput) (*mcp.CallToolResult, any, error) {
		if input.ID == "" {
			return nil, nil, mcpctx.NewValidationError("id is required", "id")
		}
		if err := toolCtx.Svc().Tasks.Delete(ctx, toolCtx.OwnerID(), input.ID); err != nil {
			return toolFailure(toolCtx, "delete_task", err)
		}
		return jsonResult(DeleteOutput{ID: input.ID, Deleted: true})
	}
}

func summaryHandler(toolCtx *mcpctx.ToolContext) func(context.Context, *mcp.CallToolRequest, SummaryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SummaryInput) (*mcp.CallToolResult, any, error) {
		period, err := summary.ParsePeriod(input.Period)
		if err != nil {
			return nil, nil, mcpctx.NewValidationError("period must be daily or weekly", "period")
		}
		text, err := toolCtx.Svc().Summarizer.Summarize(ctx, toolCtx.OwnerID(), period)
		if err != nil {
			return toolFailure(toolCtx, "generate_summary", err)
		}
		counts, err := toolCtx.Svc().Tasks.Counts(ctx, toolCtx.OwnerID())
		if err != nil {
			return toolFailure(toolCtx, "generate_summary", err)
		}
		return jsonResult(SummaryOutput{
			Period:    string(period),
			Summary:   text,
			Completed: counts.Completed,
			Pending:   counts.Pending,
		})
	}
}

// jsonResult returns v both as structured content and as a JSON text block
// for clients that only read text.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, v, nil
}

func toolFailure(toolCtx *mcpctx.ToolContext, tool string, err error) (*mcp.CallToolResult, any, error) {
	te := mcpctx.FromError(err)
	if te.Code == "internal" {
		logging.Errorf("[MCP %s] request %s failed: %v", tool, toolCtx.RequestID(), err)
	}
	return nil, nil, te
}
