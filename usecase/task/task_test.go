package task

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/taskpilot/backend/domain"
	"github.com/taskpilot/backend/repository"
)

// memoryRepo is an in-memory TaskRepository honoring the owner-scoping
// contract of the Postgres implementation.
type memoryRepo struct {
	tasks map[string]*domain.Task
	seq   int

	failCreate error
	failUpdate error
	failAppend error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{tasks: make(map[string]*domain.Task)}
}

func (r *memoryRepo) List(_ context.Context, ownerID string, filter repository.TaskFilter, _ repository.TaskSort) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range r.tasks {
		if task.UserID != ownerID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		if filter.Category != "" && task.Category != filter.Category {
			continue
		}
		out = append(out, *task)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, ownerID, id string) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, domain.ErrTaskNotFound
	}
	clone := *task
	return &clone, nil
}

func (r *memoryRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if r.failCreate != nil {
		return nil, r.failCreate
	}
	task.ApplyDefaults()
	if err := task.Validate(); err != nil {
		return nil, err
	}
	if task.ID == "" {
		r.seq++
		task.ID = fmt.Sprintf("task-%d", r.seq)
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	clone := *task
	r.tasks[task.ID] = &clone
	return task, nil
}

func (r *memoryRepo) Update(_ context.Context, task *domain.Task) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if err := task.Validate(); err != nil {
		return err
	}
	existing, ok := r.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return domain.ErrTaskNotFound
	}
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = time.Now()
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, ownerID, id string) error {
	task, ok := r.tasks[id]
	if !ok || task.UserID != ownerID {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *memoryRepo) AppendSuggestions(_ context.Context, ownerID, id string, suggestions []domain.Suggestion) (*domain.Task, error) {
	if r.failAppend != nil {
		return nil, r.failAppend
	}
	task, ok := r.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, domain.ErrTaskNotFound
	}
	task.AISuggestions = append(task.AISuggestions, suggestions...)
	task.UpdatedAt = time.Now()
	clone := *task
	return &clone, nil
}

func (r *memoryRepo) CountByStatus(_ context.Context, ownerID string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, task := range r.tasks {
		if task.UserID == ownerID {
			counts[task.Status]++
		}
	}
	return counts, nil
}

func (r *memoryRepo) CountByPriority(_ context.Context, ownerID string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, task := range r.tasks {
		if task.UserID == ownerID {
			counts[task.Priority]++
		}
	}
	return counts, nil
}

var _ repository.TaskRepository = (*memoryRepo)(nil)

type fakeEnricher struct {
	suggestions []domain.Suggestion
	steps       []string
	description string
	category    string
}

func (e *fakeEnricher) Suggestions(context.Context, *domain.Task) []domain.Suggestion {
	return e.suggestions
}
func (e *fakeEnricher) Description(context.Context, string, string) string { return e.description }
func (e *fakeEnricher) Breakdown(context.Context, *domain.Task) []string  { return e.steps }
func (e *fakeEnricher) Categorize(context.Context, string, string) string { return e.category }

type recordingBuffer struct {
	operations []string
}

func (b *recordingBuffer) BufferProfile(context.Context, string, *domain.User) error { return nil }
func (b *recordingBuffer) BufferTask(_ context.Context, operation string, _ *domain.Task) error {
	b.operations = append(b.operations, operation)
	return nil
}

func newUseCase(repo *memoryRepo, enricher Enricher) *UseCase {
	return New(repo, enricher, nil, nil)
}

func mustCreate(t *testing.T, uc *UseCase, task *domain.Task) *domain.Task {
	t.Helper()
	created, err := uc.CreateTask(context.Background(), task)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	return created
}

func TestCreateTaskDefaults(t *testing.T) {
	uc := newUseCase(newMemoryRepo(), nil)

	created := mustCreate(t, uc, &domain.Task{UserID: "u1", Title: "Buy milk"})

	if created.Priority != domain.PriorityMedium {
		t.Errorf("priority = %q, want medium", created.Priority)
	}
	if created.Status != domain.StatusPending {
		t.Errorf("status = %q, want pending", created.Status)
	}
	if created.Tags == nil || len(created.Tags) != 0 {
		t.Errorf("tags = %v, want empty", created.Tags)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Error("id/timestamps not assigned")
	}
}

func TestCreateTaskEmptyTitle(t *testing.T) {
	uc := newUseCase(newMemoryRepo(), nil)

	_, err := uc.CreateTask(context.Background(), &domain.Task{UserID: "u1", Title: "  "})
	if !domain.IsValidationError(err) {
		t.Fatalf("CreateTask() error = %v, want ValidationError", err)
	}
}

func TestOwnershipScoping(t *testing.T) {
	repo := newMemoryRepo()
	uc := newUseCase(repo, nil)
	ctx := context.Background()

	mine := mustCreate(t, uc, &domain.Task{UserID: "u1", Title: "mine"})
	mustCreate(t, uc, &domain.Task{UserID: "u2", Title: "theirs"})

	tasks, err := uc.ListTasks(ctx, "u1", repository.TaskFilter{}, repository.TaskSort{})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].UserID != "u1" {
		t.Errorf("ListTasks(u1) = %+v, want only u1 tasks", tasks)
	}

	if _, err := uc.GetTask(ctx, "u2", mine.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("GetTask with foreign owner = %v, want not found", err)
	}
	if err := uc.DeleteTask(ctx, "u2", mine.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("DeleteTask with foreign owner = %v, want not found", err)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	repo := newMemoryRepo()
	uc := newUseCase(repo, nil)
	ctx := context.Background()

	created := mustCreate(t, uc, &domain.Task{
		UserID:      "u1",
		Title:       "Write report",
		Description: "quarterly numbers",
		Priority:    domain.PriorityHigh,
	})

	status := domain.StatusCompleted
	updated, err := uc.UpdateTask(ctx, "u1", created.ID, domain.TaskPatch{Status: &status})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}

	if updated.Status != domain.StatusCompleted {
		t.Errorf("status = %q, want completed", updated.Status)
	}
	if updated.Title != "Write report" || updated.Description != "quarterly numbers" || updated.Priority != domain.PriorityHigh {
		t.Error("partial update touched unrelated fields")
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Error("updatedAt not refreshed")
	}
}

func TestUpdateTaskInvalidValue(t *testing.T) {
	repo := newMemoryRepo()
	uc := newUseCase(repo, nil)

	created := mustCreate(t, uc, &domain.Task{UserID: "u1", Title: "x"})

	bad := "urgent"
	if _, err := uc.UpdateTask(context.Background(), "u1", created.ID, domain.TaskPatch{Priority: &bad}); !domain.IsValidationError(err) {
		t.Fatalf("UpdateTask() error = %v, want ValidationError", err)
	}
}

func TestStats(t *testing.T) {
	repo := newMemoryRepo()
	uc := newUseCase(repo, nil)
	ctx := context.Background()

	completed := domain.StatusCompleted
	mustCreate(t, uc, &domain.Task{UserID: "u1", Title: "a"})
	mustCreate(t, uc, &domain.Task{UserID: "u1", Title: "b"})
	mustCreate(t, uc, &domain.Task{UserID: "u1", Title: "c", Status: completed, Priority: domain.PriorityHigh})
	mustCreate(t, uc, &domain.Task{UserID: "u2", Title: "not mine"})

	stats, err := uc.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	total := 0
	for _, n := range stats.StatusStats {
		total += n
	}
	if total != 3 {
		t.Errorf("status counts sum to %d, want 3", total)
	}
	if stats.StatusStats[domain.StatusPending] != 2 || stats.StatusStats[domain.StatusCompleted] != 1 {
		t.Errorf("statusStats = %v", stats.StatusStats)
	}
	// Absent values stay absent rather than appearing with a zero count.
	if _, ok := stats.StatusStats[domain.StatusInProgress]; ok {
		t.Error("statusStats zero-filled in-progress")
	}
	if _, ok := stats.PriorityStats[domain.PriorityLow]; ok {
		t.Error("priorityStats zero-filled low")
	}
}

func TestSuggestTaskAppendsAndReturnsFreshBatch(t *testing.T) {
	repo := newMemoryRepo()
	batch := []domain.Suggestion{
		{Type: domain.SuggestionImprovement, Content: "one"},
		{Type: domain.SuggestionSubtask, Content: "two"},
		{Type: domain.SuggestionResource, Content: "three"},
	}
	uc := newUseCase(repo, &fakeEnricher{suggestions: batch})
	ctx := context.Background()

	created := mustCreate(t, uc, &domain.Task{UserID: "u1", Title: "x"})

	got, err := uc.SuggestTask(ctx, "u1", created.ID)
	if err != nil {
		t.Fatalf("SuggestTask() error = %v", err)
	}
	if !reflect.DeepEqual(got, batch) {
		t.Errorf("SuggestTask() = %+v, want %+v", got, batch)
	}

	// A second round returns just the new batch while the task accumulates.
	if _, err := uc.SuggestTask(ctx, "u1", created.ID); err != nil {
		t.Fatalf("second SuggestTask() error = %v", err)
	}

	stored, err := uc.GetTask(ctx, "u1", created.ID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if len(stored.AISuggestions) != 6 {
		t.Fatalf("stored %d suggestions, want 6", len(stored.AISuggestions))
	}
	if !reflect.DeepEqual(stored.AISuggestions[:3], batch) {
		t.Errorf("append order not preserved: %+v", stored.AISuggestions)
	}
}

func TestSuggestTaskNotFound(t *testing.T) {
	uc := newUseCase(newMemoryRepo(), &fakeEnricher{})
	if _, err := uc.SuggestTask(context.Background(), "u1", "missing"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("SuggestTask() error = %v, want not found", err)
	}
}

func TestSuggestTaskPersistenceFailureSurfaces(t *testing.T) {
	repo := newMemoryRepo()
	uc := newUseCase(repo, &fakeEnricher{suggestions: []domain.Suggestion{{Type: domain.SuggestionSubtask, Content: "x"}}})

	created := mustCreate(t, uc, &domain.Task{UserID: "u1", Title: "x"})
	repo.failAppend = errors.New("connection reset")

	if _, err := uc.SuggestTask(context.Background(), "u1", created.ID); err == nil {
		t.Fatal("SuggestTask() should fail when persistence fails after enrichment")
	}
}

func TestBreakdownTaskNotPersisted(t *testing.T) {
	repo := newMemoryRepo()
	uc := newUseCase(repo, &fakeEnricher{steps: []string{"Plan", "Do", "Review"}})
	ctx := context.Background()

	created := mustCreate(t, uc, &domain.Task{UserID: "u1", Title: "x"})

	steps, err := uc.BreakdownTask(ctx, "u1", created.ID)
	if err != nil {
		t.Fatalf("BreakdownTask() error = %v", err)
	}
	if len(steps) != 3 {
		t.Errorf("steps = %v", steps)
	}

	stored, _ := uc.GetTask(ctx, "u1", created.ID)
	if len(stored.AISuggestions) != 0 {
		t.Errorf("breakdown was persisted: %+v", stored.AISuggestions)
	}
}

func TestDescribeAndCategorizeRequireTitle(t *testing.T) {
	uc := newUseCase(newMemoryRepo(), &fakeEnricher{description: "d", category: "Work"})
	ctx := context.Background()

	if _, err := uc.DescribeTask(ctx, "  ", ""); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("DescribeTask(empty) error = %v, want invalid", err)
	}
	if _, err := uc.CategorizeTask(ctx, "", ""); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("CategorizeTask(empty) error = %v, want invalid", err)
	}

	if desc, err := uc.DescribeTask(ctx, "Pay rent", "Finance"); err != nil || desc != "d" {
		t.Errorf("DescribeTask() = %q, %v", desc, err)
	}
	if category, err := uc.CategorizeTask(ctx, "Pay rent", ""); err != nil || category != "Work" {
		t.Errorf("CategorizeTask() = %q, %v", category, err)
	}
}

func TestCreateBuffersOnInfrastructureFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.failCreate = errors.New("connection refused")
	buf := &recordingBuffer{}
	uc := New(repo, nil, buf, nil)

	task := &domain.Task{UserID: "u1", Title: "offline"}
	if _, err := uc.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("CreateTask() error = %v, want buffered success", err)
	}
	if len(buf.operations) != 1 || buf.operations[0] != "create" {
		t.Errorf("buffered operations = %v", buf.operations)
	}
}

func TestValidationFailureIsNotBuffered(t *testing.T) {
	buf := &recordingBuffer{}
	uc := New(newMemoryRepo(), nil, buf, nil)

	if _, err := uc.CreateTask(context.Background(), &domain.Task{UserID: "u1", Title: ""}); !domain.IsValidationError(err) {
		t.Fatalf("CreateTask() error = %v, want ValidationError", err)
	}
	if len(buf.operations) != 0 {
		t.Errorf("validation failure was buffered: %v", buf.operations)
	}
}
