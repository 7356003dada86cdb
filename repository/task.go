package repository

import (
	"context"

	"github.com/taskpilot/backend/domain"
)

// TaskFilter narrows a listing. Empty fields apply no constraint.
type TaskFilter struct {
	Status   string
	Priority string
	Category string
}

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// TaskSort selects the listing order. Unknown fields fall back to creation
// time, unknown directions to descending.
type TaskSort struct {
	Field     string
	Direction string
}

// TaskRepository owns persisted tasks. Every operation is scoped to the
// owning user: a task whose owner differs from ownerID is invisible here.
type TaskRepository interface {
	List(ctx context.Context, ownerID string, filter TaskFilter, sort TaskSort) ([]domain.Task, error)
	GetByID(ctx context.Context, ownerID, id string) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, ownerID, id string) error
	// AppendSuggestions atomically appends to the task's suggestion list so
	// concurrent enrichment requests cannot overwrite each other.
	AppendSuggestions(ctx context.Context, ownerID, id string, suggestions []domain.Suggestion) (*domain.Task, error)
	CountByStatus(ctx context.Context, ownerID string) (map[string]int, error)
	CountByPriority(ctx context.Context, ownerID string) (map[string]int, error)
}
