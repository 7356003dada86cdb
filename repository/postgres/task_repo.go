package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskpilot/backend/domain"
	"github.com/taskpilot/backend/repository"
)

const taskColumns = "id, user_id, title, description, status, priority, category, due_date, tags, ai_suggestions, created_at, updated_at"

// sortColumns whitelists the API sort fields against real columns; anything
// else falls back to creation time.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"priority":  "priority",
	"status":    "status",
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM tasks
	WHERE id = $1 AND user_id = $2
	`, taskColumns)
	row := r.pool.QueryRow(ctx, query, id, ownerID)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, ownerID string, filter repository.TaskFilter, sort repository.TaskSort) ([]domain.Task, error) {
	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if sort.Direction == repository.SortAsc {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
	SELECT %s
	FROM tasks
	WHERE user_id = $1
	  AND ($2 = '' OR status = $2)
	  AND ($3 = '' OR priority = $3)
	  AND ($4 = '' OR category = $4)
	ORDER BY %s %s
	`, taskColumns, column, direction)

	rows, err := r.pool.Query(ctx, query, ownerID, filter.Status, filter.Priority, filter.Category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	task.ApplyDefaults()
	if err := task.Validate(); err != nil {
		return nil, err
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, status, priority, category, due_date, tags, ai_suggestions)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Category,
		nullTime(task.DueDate),
		marshalJSON(task.Tags),
		marshalJSON(task.AISuggestions),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if err := task.Validate(); err != nil {
		return err
	}

	const query = `
	UPDATE tasks
	SET title = $3,
		description = $4,
		status = $5,
		priority = $6,
		category = $7,
		due_date = $8,
		tags = $9,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Category,
		nullTime(task.DueDate),
		marshalJSON(task.Tags),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, ownerID, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// AppendSuggestions concatenates onto the ai_suggestions JSONB array inside a
// single UPDATE, so two overlapping enrichment requests both land.
func (r *taskRepository) AppendSuggestions(ctx context.Context, ownerID, id string, suggestions []domain.Suggestion) (*domain.Task, error) {
	if len(suggestions) == 0 {
		return r.GetByID(ctx, ownerID, id)
	}

	query := fmt.Sprintf(`
	UPDATE tasks
	SET ai_suggestions = ai_suggestions || $3::jsonb,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING %s
	`, taskColumns)

	row := r.pool.QueryRow(ctx, query, id, ownerID, marshalJSON(suggestions))
	return scanTask(row)
}

func (r *taskRepository) CountByStatus(ctx context.Context, ownerID string) (map[string]int, error) {
	const query = `
	SELECT status, COUNT(*)
	FROM tasks
	WHERE user_id = $1
	GROUP BY status
	`
	return r.groupedCount(ctx, query, ownerID)
}

func (r *taskRepository) CountByPriority(ctx context.Context, ownerID string) (map[string]int, error) {
	const query = `
	SELECT priority, COUNT(*)
	FROM tasks
	WHERE user_id = $1
	GROUP BY priority
	`
	return r.groupedCount(ctx, query, ownerID)
}

func (r *taskRepository) groupedCount(ctx context.Context, query, ownerID string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		due         *time.Time
		tags        []byte
		suggestions []byte
	)

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Category,
		&due,
		&tags,
		&suggestions,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.DueDate = due
	if len(tags) > 0 {
		_ = json.Unmarshal(tags, &task.Tags)
	}
	if len(suggestions) > 0 {
		_ = json.Unmarshal(suggestions, &task.AISuggestions)
	}
	task.ApplyDefaults()

	return &task, nil
}
