package events

import "github.com/neboloop/mindsort/internal/model"

const (
	TopicSessionCompleted = "mindsort.session.completed"
	TopicDistressDetected = "mindsort.distress.detected"
	TopicTaskChanged      = "mindsort.task.changed"
)

// SessionCompleted is emitted after a pipeline run finalizes its session.
type SessionCompleted struct {
	OwnerID   string   `json:"ownerId"`
	SessionID string   `json:"sessionId"`
	TaskIDs   []string `json:"taskIds"`
	Fallback  bool     `json:"fallback"`
}

// DistressDetected is emitted when a run flags emotional distress.
type DistressDetected struct {
	OwnerID     string   `json:"ownerId"`
	SessionID   string   `json:"sessionId"`
	Suggestions []string `json:"suggestions"`
}

// Task change actions.
const (
	ActionUpdated = "updated"
	ActionToggled = "toggled"
	ActionDeleted = "deleted"
)

// TaskChanged is emitted after an owner mutates a task. Task is nil for deletes.
type TaskChanged struct {
	OwnerID string      `json:"ownerId"`
	TaskID  string      `json:"taskId"`
	Action  string      `json:"action"`
	Task    *model.Task `json:"task,omitempty"`
}
