package task

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/taskpilot/backend/domain"
	"github.com/taskpilot/backend/repository"
	"github.com/taskpilot/backend/usecase"
)

// Enricher provides the AI-assisted operations. Each call degrades to a
// deterministic fallback internally, so these never fail.
type Enricher interface {
	Suggestions(ctx context.Context, task *domain.Task) []domain.Suggestion
	Description(ctx context.Context, title, category string) string
	Breakdown(ctx context.Context, task *domain.Task) []string
	Categorize(ctx context.Context, title, description string) string
}

type UseCase struct {
	tasks    repository.TaskRepository
	enricher Enricher
	buffer   usecase.OperationBuffer
	logger   *zap.Logger
}

func New(tasks repository.TaskRepository, enricher Enricher, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		enricher: enricher,
		buffer:   buffer,
		logger:   logger,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, ownerID string, filter repository.TaskFilter, sort repository.TaskSort) ([]domain.Task, error) {
	return uc.tasks.List(ctx, ownerID, filter, sort)
}

func (uc *UseCase) GetTask(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, ownerID, id)
}

func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if callerFault(err) {
			return nil, err
		}
		if uc.shouldBuffer(ctx, usecase.OperationCreate, task) {
			return task, nil
		}
		return nil, err
	}
	return created, nil
}

func (uc *UseCase) UpdateTask(ctx context.Context, ownerID, id string, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	task.Apply(patch)
	if err := uc.tasks.Update(ctx, task); err != nil {
		if callerFault(err) {
			return nil, err
		}
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, task) {
			return task, nil
		}
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, ownerID, id string) error {
	if err := uc.tasks.Delete(ctx, ownerID, id); err != nil {
		if callerFault(err) {
			return err
		}
		task := &domain.Task{ID: id, UserID: ownerID}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, task) {
			return nil
		}
		return err
	}
	return nil
}

// Stats returns grouped counts over the owner's tasks. Statuses and
// priorities with no tasks are absent from the maps.
func (uc *UseCase) Stats(ctx context.Context, ownerID string) (*domain.TaskStats, error) {
	statusStats, err := uc.tasks.CountByStatus(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	priorityStats, err := uc.tasks.CountByPriority(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &domain.TaskStats{
		StatusStats:   statusStats,
		PriorityStats: priorityStats,
	}, nil
}

// SuggestTask generates suggestions for an owned task and persists them onto
// its suggestion list. The freshly generated batch is returned, not the full
// accumulated list; a success response implies both enrichment and
// persistence went through.
func (uc *UseCase) SuggestTask(ctx context.Context, ownerID, id string) ([]domain.Suggestion, error) {
	task, err := uc.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	suggestions := uc.enricher.Suggestions(ctx, task)
	if _, err := uc.tasks.AppendSuggestions(ctx, ownerID, id, suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// BreakdownTask generates step suggestions for an owned task. The result is
// returned to the caller only, never persisted.
func (uc *UseCase) BreakdownTask(ctx context.Context, ownerID, id string) ([]string, error) {
	task, err := uc.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return uc.enricher.Breakdown(ctx, task), nil
}

// DescribeTask generates a description for a prospective task. Nothing is
// persisted; the caller applies the text via an explicit update if wanted.
func (uc *UseCase) DescribeTask(ctx context.Context, title, category string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", domain.ErrTitleRequired
	}
	return uc.enricher.Description(ctx, title, category), nil
}

// CategorizeTask assigns a category from the closed set. Nothing is persisted.
func (uc *UseCase) CategorizeTask(ctx context.Context, title, description string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", domain.ErrTitleRequired
	}
	return uc.enricher.Categorize(ctx, title, description), nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation))
	return true
}

// callerFault reports errors the caller must see as-is; only infrastructure
// failures are eligible for buffering.
func callerFault(err error) bool {
	return domain.IsValidationError(err) ||
		domain.IsDomainError(err, domain.ErrCodeNotFound) ||
		domain.IsDomainError(err, domain.ErrCodeInvalid)
}
