package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input string
		want  Priority
		ok    bool
	}{
		{"Very Important", PriorityVeryImportant, true},
		{"VeryImportant", PriorityVeryImportant, true},
		{"very  important", PriorityVeryImportant, true},
		{"Important", PriorityImportant, true},
		{"optional", PriorityOptional, true},
		{"urgent", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, err := ParsePriority(tt.input)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrInvalidInput, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" health ")
	require.NoError(t, err)
	assert.Equal(t, CategoryHealth, c)

	_, err = ParseCategory("FINANCE")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTaskPatchDecodeDistinguishesAbsentAndNull(t *testing.T) {
	var p TaskPatch
	require.NoError(t, json.Unmarshal([]byte(`{"priority":"Optional","deadline":null}`), &p))

	assert.False(t, p.Title.Set)
	assert.False(t, p.Description.Set)
	assert.True(t, p.Priority.Set)
	assert.Equal(t, PriorityOptional, p.Priority.Value)
	assert.True(t, p.Deadline.Set)
	assert.True(t, p.Deadline.Null)
	assert.False(t, p.IsEmpty())
}

func TestTaskPatchApplyPriorityOnly(t *testing.T) {
	desc, deadline := "call the clinic", "21st"
	task := Task{
		Title:        "Surgery prep",
		Description:  &desc,
		Priority:     PriorityVeryImportant,
		Deadline:     &deadline,
		OriginalText: "Surgery on 21st",
	}

	p := TaskPatch{Priority: Some(PriorityOptional)}
	require.NoError(t, p.Validate())
	got := p.Apply(task)

	assert.Equal(t, PriorityOptional, got.Priority)
	assert.Equal(t, "Surgery prep", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "call the clinic", *got.Description)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, "21st", *got.Deadline)
	assert.Equal(t, "Surgery on 21st", got.OriginalText)
}

func TestTaskPatchApplyClear(t *testing.T) {
	deadline := "Friday"
	task := Task{Title: "Essay", Deadline: &deadline}

	got := TaskPatch{Deadline: Cleared[string]()}.Apply(task)
	assert.Nil(t, got.Deadline)
}

func TestTaskPatchValidate(t *testing.T) {
	tests := []struct {
		name  string
		patch TaskPatch
	}{
		{"empty title", TaskPatch{Title: Some("  ")}},
		{"cleared title", TaskPatch{Title: Cleared[string]()}},
		{"cleared priority", TaskPatch{Priority: Cleared[Priority]()}},
		{"unknown priority", TaskPatch{Priority: Some(Priority("ASAP"))}},
		{"cleared completed", TaskPatch{Completed: Cleared[bool]()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.patch
			assert.ErrorIs(t, p.Validate(), ErrInvalidInput)
		})
	}

	p := TaskPatch{Priority: Some(Priority("very important"))}
	require.NoError(t, p.Validate())
	assert.Equal(t, PriorityVeryImportant, p.Priority.Value)
}

func TestNewTaskValidate(t *testing.T) {
	ok := NewTask{
		OwnerID:      "u1",
		Title:        "Call mom",
		Category:     CategoryCommunication,
		Priority:     PriorityImportant,
		OriginalText: "call mom",
	}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.Category = "FINANCE"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidInput)

	bad = ok
	bad.OwnerID = ""
	assert.ErrorIs(t, bad.Validate(), ErrInvalidInput)
}
