package tasks

import (
	"fmt"
	"strings"

	"github.com/neboloop/mindsort/internal/model"
)

// Status selects tasks by completion state.
type Status string

const (
	StatusAll       Status = ""
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Filter narrows a task list. Zero values match everything.
type Filter struct {
	Category model.Category
	Status   Status
}

// ParseFilter validates raw category and status strings. "all" is accepted
// as an explicit StatusAll.
func ParseFilter(category, status string) (Filter, error) {
	var f Filter
	if category != "" {
		c, err := model.ParseCategory(category)
		if err != nil {
			return Filter{}, err
		}
		f.Category = c
	}
	switch s := Status(strings.ToLower(strings.TrimSpace(status))); s {
	case StatusAll, "all":
	case StatusPending, StatusCompleted:
		f.Status = s
	default:
		return Filter{}, fmt.Errorf("%w: status must be all, pending or completed", model.ErrInvalidInput)
	}
	return f, nil
}

// Apply returns the tasks matching f, preserving order.
func (f Filter) Apply(all []model.Task) []model.Task {
	out := make([]model.Task, 0, len(all))
	for _, t := range all {
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if (f.Status == StatusPending && t.Completed) || (f.Status == StatusCompleted && !t.Completed) {
			continue
		}
		out = append(out, t)
	}
	return out
}
