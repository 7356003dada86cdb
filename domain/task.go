package domain

import (
	"strings"
	"time"
)

// Task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Suggestion types produced by the enrichment service.
const (
	SuggestionImprovement = "improvement"
	SuggestionSubtask     = "subtask"
	SuggestionResource    = "resource"
)

// CategoryOther is the designated default for anything outside the closed category set.
const CategoryOther = "Other"

// Categories is the closed set of categories the enrichment service may assign.
// It is the single source of truth for both validation and documentation.
var Categories = []string{"Work", "Personal", "Health", "Learning", "Finance", "Home", CategoryOther}

// ValidCategory reports whether c belongs to the closed category set. The
// match is case-sensitive.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// ValidPriority reports whether p is a known task priority.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ValidSuggestionType reports whether t is a known suggestion type.
func ValidSuggestionType(t string) bool {
	return t == SuggestionImprovement || t == SuggestionSubtask || t == SuggestionResource
}

// Suggestion is one AI-generated hint attached to a task.
type Suggestion struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Task represents a user-owned activity item.
type Task struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Status        string       `json:"status"`
	Priority      string       `json:"priority"`
	Category      string       `json:"category,omitempty"`
	DueDate       *time.Time   `json:"dueDate,omitempty"`
	Tags          []string     `json:"tags"`
	AISuggestions []Suggestion `json:"aiSuggestions"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// ApplyDefaults fills the defaulted fields of a freshly created task.
func (t *Task) ApplyDefaults() {
	if t == nil {
		return
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.AISuggestions == nil {
		t.AISuggestions = []Suggestion{}
	}
}

// Validate checks the title and the closed-set fields, collecting every
// offending field rather than stopping at the first.
func (t *Task) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(t.Title) == "" {
		v.Add("title", "title is required")
	}
	if t.Status != "" && !ValidStatus(t.Status) {
		v.Add("status", "status must be one of pending, in-progress, completed")
	}
	if t.Priority != "" && !ValidPriority(t.Priority) {
		v.Add("priority", "priority must be one of low, medium, high")
	}
	return v.OrNil()
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	Category    *string
	DueDate     *time.Time
	Tags        *[]string
}

// Apply merges the patch into the task. Timestamps are owned by the
// repository and are not touched here.
func (t *Task) Apply(p TaskPatch) {
	if t == nil {
		return
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
}

// TaskStats groups an owner's task counts by status and priority. Only
// values that actually occur are present.
type TaskStats struct {
	StatusStats   map[string]int `json:"statusStats"`
	PriorityStats map[string]int `json:"priorityStats"`
}
