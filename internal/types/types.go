package types

import (
	"time"

	"github.com/neboloop/mindsort/internal/model"
	"github.com/neboloop/mindsort/internal/pipeline"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Database  string `json:"database"`
	Provider  string `json:"provider"`
	Timestamp string `json:"timestamp"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ProcessInputRequest struct {
	Input string `json:"input"`
}

type ProcessInputResponse = pipeline.Result

type Task struct {
	Id           string  `json:"id"`
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	Category     string  `json:"category"`
	Priority     string  `json:"priority"`
	Deadline     *string `json:"deadline"`
	Completed    bool    `json:"completed"`
	OriginalText string  `json:"originalText"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type ListTasksRequest struct {
	Category string `form:"category"`
	Status   string `form:"status"` // all, pending, completed
}

type ListTasksResponse struct {
	Tasks     []Task `json:"tasks"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
}

type GetTaskRequest struct {
	Id string `path:"id" json:"-"`
}

type UpdateTaskRequest struct {
	Id string `path:"id" json:"-"`
	model.TaskPatch
}

type Session struct {
	Id               string   `json:"id"`
	OriginalInput    string   `json:"originalInput"`
	ParsedTaskIds    []string `json:"parsedTaskIds"`
	DistressDetected bool     `json:"distressDetected"`
	Suggestions      []string `json:"mentalHealthSuggestions"`
	Finalized        bool     `json:"finalized"`
	CreatedAt        string   `json:"createdAt"`
}

type ListSessionsResponse struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
}

type SummaryRequest struct {
	Period string `json:"period"`
}

type SummaryResponse struct {
	Period    string `json:"period"`
	Summary   string `json:"summary"`
	Html      string `json:"html"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
}

// FromTask converts a stored task for the wire.
func FromTask(t model.Task) Task {
	return Task{
		Id:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Category:     string(t.Category),
		Priority:     string(t.Priority),
		Deadline:     t.Deadline,
		Completed:    t.Completed,
		OriginalText: t.OriginalText,
		CreatedAt:    t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// FromSession converts a stored session for the wire.
func FromSession(s model.Session) Session {
	ids := s.ParsedTaskIDs
	if ids == nil {
		ids = []string{}
	}
	suggestions := s.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return Session{
		Id:               s.ID,
		OriginalInput:    s.OriginalInput,
		ParsedTaskIds:    ids,
		DistressDetected: s.DistressDetected,
		Suggestions:      suggestions,
		Finalized:        s.Finalized,
		CreatedAt:        s.CreatedAt.UTC().Format(time.RFC3339),
	}
}
