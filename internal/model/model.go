// Package model holds the task and session records shared by the pipeline,
// the stores and every caller-facing surface.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Category is the life area a task belongs to.
type Category string

const (
	CategoryHealth        Category = "HEALTH"
	CategoryAcademics     Category = "ACADEMICS"
	CategoryInternship    Category = "INTERNSHIP"
	CategoryCommunication Category = "COMMUNICATION"
	CategoryEmotions      Category = "EMOTIONS"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryHealth,
	CategoryAcademics,
	CategoryInternship,
	CategoryCommunication,
	CategoryEmotions,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts a category name in any letter case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
	}
	return c, nil
}

// Priority is how urgent a task is. The string values are the literals the
// model is asked to produce.
type Priority string

const (
	PriorityVeryImportant Priority = "Very Important"
	PriorityImportant     Priority = "Important"
	PriorityOptional      Priority = "Optional"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityVeryImportant, PriorityImportant, PriorityOptional}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePriority accepts "Very Important", "VeryImportant", "very important", etc.
func ParsePriority(s string) (Priority, error) {
	norm := strings.ToLower(strings.Join(strings.Fields(s), ""))
	for _, p := range Priorities {
		if norm == strings.ToLower(strings.ReplaceAll(string(p), " ", "")) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, s)
}

// Task is one actionable item extracted from a user's input.
type Task struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	Category     Category  `json:"category"`
	Priority     Priority  `json:"priority"`
	Deadline     *string   `json:"deadline,omitempty"`
	Completed    bool      `json:"completed"`
	OriginalText string    `json:"originalText"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewTask carries the fields needed to create a task.
type NewTask struct {
	OwnerID      string
	Title        string
	Description  *string
	Category     Category
	Priority     Priority
	Deadline     *string
	OriginalText string
}

// Validate checks the create fields before anything is written.
func (n NewTask) Validate() error {
	switch {
	case n.OwnerID == "":
		return fmt.Errorf("%w: owner is required", ErrInvalidInput)
	case strings.TrimSpace(n.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case n.OriginalText == "":
		return fmt.Errorf("%w: original text is required", ErrInvalidInput)
	case !n.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, n.Category)
	case !n.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, n.Priority)
	}
	return nil
}

// Session records one pipeline run and the tasks it produced.
type Session struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"ownerId"`
	OriginalInput    string    `json:"originalInput"`
	ParsedTaskIDs    []string  `json:"parsedTaskIds"`
	DistressDetected bool      `json:"distressDetected"`
	Suggestions      []string  `json:"suggestions,omitempty"`
	Finalized        bool      `json:"finalized"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewSession carries the fields needed to open a session.
type NewSession struct {
	OwnerID          string
	OriginalInput    string
	DistressDetected bool
	Suggestions      []string
}

// Validate checks the create fields before anything is written.
func (n NewSession) Validate() error {
	if n.OwnerID == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if n.OriginalInput == "" {
		return fmt.Errorf("%w: original input is required", ErrInvalidInput)
	}
	return nil
}
