package domain

import (
	"errors"
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	task := &Task{Title: "Buy milk"}
	task.ApplyDefaults()

	if task.Status != StatusPending {
		t.Errorf("status = %q, want %q", task.Status, StatusPending)
	}
	if task.Priority != PriorityMedium {
		t.Errorf("priority = %q, want %q", task.Priority, PriorityMedium)
	}
	if task.Tags == nil || len(task.Tags) != 0 {
		t.Errorf("tags = %v, want empty non-nil slice", task.Tags)
	}
	if task.AISuggestions == nil {
		t.Error("aiSuggestions should default to an empty slice")
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	task := &Task{Title: "Deploy", Status: StatusInProgress, Priority: PriorityHigh}
	task.ApplyDefaults()

	if task.Status != StatusInProgress || task.Priority != PriorityHigh {
		t.Errorf("defaults overwrote explicit values: %q/%q", task.Status, task.Priority)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		task       Task
		wantFields []string
	}{
		{
			name: "valid",
			task: Task{Title: "Buy milk", Status: StatusPending, Priority: PriorityMedium},
		},
		{
			name:       "empty title",
			task:       Task{Title: "   "},
			wantFields: []string{"title"},
		},
		{
			name:       "bad status",
			task:       Task{Title: "x", Status: "done"},
			wantFields: []string{"status"},
		},
		{
			name:       "collects every offending field",
			task:       Task{Title: "", Status: "done", Priority: "urgent"},
			wantFields: []string{"priority", "status", "title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if len(vErr.Fields) != len(tt.wantFields) {
				t.Fatalf("got %d field errors %v, want %d", len(vErr.Fields), vErr.Fields, len(tt.wantFields))
			}
			for _, field := range tt.wantFields {
				if _, ok := vErr.Fields[field]; !ok {
					t.Errorf("missing field error for %q", field)
				}
			}
		})
	}
}

func TestApplyPatchOnlyTouchesProvidedFields(t *testing.T) {
	due := time.Now().Add(24 * time.Hour)
	task := Task{
		Title:       "Write report",
		Description: "quarterly numbers",
		Status:      StatusPending,
		Priority:    PriorityHigh,
		Category:    "Work",
		DueDate:     &due,
		Tags:        []string{"q3"},
	}

	status := StatusCompleted
	task.Apply(TaskPatch{Status: &status})

	if task.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", task.Status, StatusCompleted)
	}
	if task.Title != "Write report" || task.Description != "quarterly numbers" ||
		task.Priority != PriorityHigh || task.Category != "Work" || task.DueDate != &due {
		t.Error("patch touched fields it should not have")
	}
	if len(task.Tags) != 1 || task.Tags[0] != "q3" {
		t.Errorf("tags = %v, want [q3]", task.Tags)
	}
}

func TestApplyPatchClearsWithEmptyValues(t *testing.T) {
	task := Task{Title: "x", Description: "old", Tags: []string{"a"}}

	empty := ""
	noTags := []string{}
	task.Apply(TaskPatch{Description: &empty, Tags: &noTags})

	if task.Description != "" {
		t.Errorf("description = %q, want empty", task.Description)
	}
	if len(task.Tags) != 0 {
		t.Errorf("tags = %v, want empty", task.Tags)
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = false", c)
		}
	}
	for _, c := range []string{"work", "Astrology", "", "other"} {
		if ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = true, want false", c)
		}
	}
}

func TestValidationErrorOrNil(t *testing.T) {
	v := &ValidationError{}
	if v.OrNil() != nil {
		t.Error("empty ValidationError should collapse to nil")
	}
	v.Add("title", "title is required")
	if v.OrNil() == nil {
		t.Error("non-empty ValidationError should be an error")
	}
}
