package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Optional is a patch field that tells "not provided" apart from
// "explicitly cleared" (JSON null) and "set to a value".
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a field set to v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Cleared returns a field explicitly set to null.
func Cleared[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON only runs when the key is present, so reaching it means Set.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON writes null for unset and cleared fields.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns the value as a pointer, nil when cleared.
func (o Optional[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// TaskPatch is a partial update. Only fields with Set are applied.
type TaskPatch struct {
	Title       Optional[string]   `json:"title"`
	Description Optional[string]   `json:"description"`
	Priority    Optional[Priority] `json:"priority"`
	Deadline    Optional[string]   `json:"deadline"`
	Completed   Optional[bool]     `json:"completed"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Priority.Set && !p.Deadline.Set && !p.Completed.Set
}

// Validate rejects clears of required fields and unknown priorities.
// Priority values are normalised in place.
func (p *TaskPatch) Validate() error {
	if p.Title.Set && (p.Title.Null || strings.TrimSpace(p.Title.Value) == "") {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}
	if p.Priority.Set {
		if p.Priority.Null {
			return fmt.Errorf("%w: priority cannot be cleared", ErrInvalidInput)
		}
		pr, err := ParsePriority(string(p.Priority.Value))
		if err != nil {
			return err
		}
		p.Priority.Value = pr
	}
	if p.Completed.Set && p.Completed.Null {
		return fmt.Errorf("%w: completed cannot be cleared", ErrInvalidInput)
	}
	return nil
}

// Apply returns t with the patch applied. OriginalText, Category and owner are
// never touched.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title.Set {
		t.Title = p.Title.Value
	}
	if p.Description.Set {
		t.Description = p.Description.Ptr()
	}
	if p.Priority.Set {
		t.Priority = p.Priority.Value
	}
	if p.Deadline.Set {
		t.Deadline = p.Deadline.Ptr()
	}
	if p.Completed.Set {
		t.Completed = p.Completed.Value
	}
	return t
}
