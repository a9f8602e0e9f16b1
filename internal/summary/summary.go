// Package summary produces a short encouraging digest of an owner's tasks.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/neboloop/mindsort/internal/ai"
	"github.com/neboloop/mindsort/internal/logging"
	"github.com/neboloop/mindsort/internal/model"
)

// DefaultTemperature leaves room for a warmer tone than extraction.
const DefaultTemperature = 0.7

// Period selects the summary window wording.
type Period string

const (
	Daily  Period = "daily"
	Weekly Period = "weekly"
)

// ParsePeriod accepts "daily" or "weekly" in any case.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case Daily, Weekly:
		return p, nil
	}
	return "", fmt.Errorf("%w: period must be daily or weekly, got %q", model.ErrInvalidInput, s)
}

func (p Period) label() string {
	if p == Weekly {
		return "This week"
	}
	return "Today"
}

// TaskLister reads the owner's tasks.
type TaskLister interface {
	ListTasksByOwner(ctx context.Context, ownerID string) ([]model.Task, error)
}

// Counts is the simple tally the summary is built from.
type Counts struct {
	Total      int                    `json:"total"`
	Completed  int                    `json:"completed"`
	Pending    int                    `json:"pending"`
	ByCategory map[model.Category]int `json:"byCategory"`
}

// Count tallies completed and pending tasks, with pending counts per category.
func Count(tasks []model.Task) Counts {
	c := Counts{Total: len(tasks), ByCategory: make(map[model.Category]int)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
			continue
		}
		c.Pending++
		c.ByCategory[t.Category]++
	}
	return c
}

// Summarizer asks the model for a digest and falls back to a template.
type Summarizer struct {
	completer   ai.Completer
	tasks       TaskLister
	temperature float64
}

// NewSummarizer creates a summarizer. A zero temperature selects DefaultTemperature.
func NewSummarizer(completer ai.Completer, tasks TaskLister, temperature float64) *Summarizer {
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	return &Summarizer{completer: completer, tasks: tasks, temperature: temperature}
}

// Summarize returns the model's digest for the period, or the fallback
// sentence when the upstream call fails. Store errors are returned.
func (s *Summarizer) Summarize(ctx context.Context, ownerID string, period Period) (string, error) {
	if ownerID == "" {
		return "", model.ErrUnauthenticated
	}
	if _, err := ParsePeriod(string(period)); err != nil {
		return "", err
	}

	tasks, err := s.tasks.ListTasksByOwner(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("list tasks: %w", err)
	}
	counts := Count(tasks)

	log := logging.WithContext(ctx)
	content, err := s.completer.Complete(ctx, []ai.Message{ai.User(Prompt(period, counts))}, s.temperature)
	if err != nil {
		log.Warnf("[Summary] Upstream call failed (%s), using fallback: %v", ai.ClassifyError(err), err)
		return Fallback(period, counts), nil
	}
	content = strings.TrimSpace(content)
	if content == "" {
		log.Warnf("[Summary] Empty model response, using fallback")
		return Fallback(period, counts), nil
	}
	return content, nil
}

// Prompt builds the period-specific instruction.
func Prompt(period Period, c Counts) string {
	window := "today"
	if period == Weekly {
		window = "this week"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a short, warm %s summary for someone who is organizing their life with MindSort.\n\n", period)
	fmt.Fprintf(&sb, "Progress %s:\n", window)
	fmt.Fprintf(&sb, "- Completed tasks: %d\n", c.Completed)
	fmt.Fprintf(&sb, "- Pending tasks: %d\n", c.Pending)
	for _, cat := range model.Categories {
		if n := c.ByCategory[cat]; n > 0 {
			fmt.Fprintf(&sb, "- Pending %s tasks: %d\n", cat, n)
		}
	}
	sb.WriteString("\nCelebrate what was done, gently point at what matters next, and keep it under 120 words. ")
	sb.WriteString("Be encouraging and never judgmental.")
	return sb.String()
}

// Fallback is the templated digest. It always includes both counts.
func Fallback(period Period, c Counts) string {
	return fmt.Sprintf("%s you've made progress on %d tasks and have %d items to focus on. "+
		"Remember, every step forward counts. You're doing better than you think!",
		period.label(), c.Completed, c.Pending)
}
