package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/DusanM998/ToDoApplication/internal/domain"
	"github.com/DusanM998/ToDoApplication/internal/platform/metrics"
	"github.com/DusanM998/ToDoApplication/internal/store"
)

// Pagination bounds for task listings. Requested values outside these
// bounds are clamped, never rejected.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// CreateTaskInput carries the caller-supplied fields for a new task.
// Status is not part of the input: new tasks always start pending.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Category    string
	Priority    domain.TaskPriority
}

// UpdateTaskInput carries the caller-supplied fields for a task update.
// A nil Status preserves the task's current status; a nil DueDate clears
// the due date only when ClearDueDate is set.
type UpdateTaskInput struct {
	Title        string
	Description  string
	DueDate      *time.Time
	ClearDueDate bool
	Category     string
	Priority     domain.TaskPriority
	Status       *domain.TaskStatus
}

// TaskPage is one page of a filtered task listing together with the
// pagination metadata the caller needs to render page controls.
type TaskPage struct {
	Tasks      []domain.Task
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
}

// TaskService provides task lifecycle operations. Every mutation keeps the
// owner's denormalized status counters in step with the task table by
// applying the counter delta in the same transaction as the task write.
type TaskService interface {
	// CreateTask creates a new pending task owned by the given user and
	// increments the owner's pending counter.
	CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error)

	// GetTask retrieves a single task. Returns ErrNotOwned if the task
	// belongs to a different user.
	GetTask(ctx context.Context, userID uuid.UUID, taskID int64) (*domain.Task, error)

	// UpdateTask modifies a task's fields. When input.Status is nil the
	// current status is preserved; when it names a different status the
	// owner's counters are rebalanced in the same transaction.
	UpdateTask(ctx context.Context, userID uuid.UUID, taskID int64, input UpdateTaskInput) (*domain.Task, error)

	// DeleteTask removes a task and decrements the counter for the status
	// the task held at deletion time.
	DeleteTask(ctx context.Context, userID uuid.UUID, taskID int64) error

	// ListTasks returns one page of the user's tasks matching the filter.
	ListTasks(ctx context.Context, filter store.TaskFilter) (*TaskPage, error)

	// ListAllTasks returns every task across every user, annotated with
	// owner details. Admin only; the API layer enforces the role check.
	ListAllTasks(ctx context.Context) ([]store.TaskWithOwner, error)

	// ListCategories returns the distinct categories of the user's tasks.
	ListCategories(ctx context.Context, userID uuid.UUID) ([]string, error)

	// SweepOverdue marks every task whose due date lies before now and
	// which is neither completed nor already overdue as overdue, adjusting
	// each owner's counters. Returns the number of tasks transitioned.
	SweepOverdue(ctx context.Context, now time.Time) (int, error)
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskStore store.TaskStore
	userStore store.UserStore
	db        *sql.DB
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskStore store.TaskStore,
	userStore store.UserStore,
	db *sql.DB,
	logger *slog.Logger,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskStore: taskStore,
		userStore: userStore,
		db:        db,
		logger:    logger.With("component", "task_service"),
	}
}

// Ensure TaskServiceImpl implements TaskService interface
var _ TaskService = (*TaskServiceImpl)(nil)

// CreateTask creates a new pending task and bumps the owner's pending
// counter in the same transaction.
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	task, err := domain.NewTask(
		userID,
		input.Title,
		input.Description,
		input.DueDate,
		input.Category,
		input.Priority,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskStore.WithTx(tx).Create(ctx, task); err != nil {
			return err
		}
		return s.userStore.WithTx(tx).AdjustTaskCounts(ctx, userID, domain.CreationDelta(task.Status))
	})
	if err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	metrics.TasksCreated.WithLabelValues(string(task.Status)).Inc()
	s.logger.Debug("task created",
		"task_id", task.ID,
		"user_id", userID,
		"priority", task.Priority)

	return task, nil
}

// GetTask retrieves a task and verifies ownership.
func (s *TaskServiceImpl) GetTask(
	ctx context.Context,
	userID uuid.UUID,
	taskID int64,
) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to retrieve task",
				"error", err,
				"task_id", taskID)
		}
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}

	if task.UserID != userID {
		return nil, ErrNotOwned
	}

	return task, nil
}

// UpdateTask modifies a task. Status changes rebalance the owner's
// counters atomically with the task write.
func (s *TaskServiceImpl) UpdateTask(
	ctx context.Context,
	userID uuid.UUID,
	taskID int64,
	input UpdateTaskInput,
) (*domain.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status

	task.Title = input.Title
	task.Description = input.Description
	task.Category = input.Category
	task.Priority = input.Priority
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	} else if input.ClearDueDate {
		task.DueDate = nil
	}
	// An absent status means the caller did not intend a transition, so
	// the current status stays as is.
	if input.Status != nil {
		task.Status = *input.Status
	}

	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	delta := domain.TransitionDelta(oldStatus, task.Status)

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskStore.WithTx(tx).Update(ctx, task); err != nil {
			return err
		}
		if delta.IsZero() {
			return nil
		}
		return s.userStore.WithTx(tx).AdjustTaskCounts(ctx, userID, delta)
	})
	if err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", taskID,
			"user_id", userID)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Debug("task updated",
		"task_id", taskID,
		"user_id", userID,
		"old_status", oldStatus,
		"new_status", task.Status)

	return task, nil
}

// DeleteTask removes a task and decrements the owner's counter for the
// status the task held.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID uuid.UUID, taskID int64) error {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskStore.WithTx(tx).Delete(ctx, taskID); err != nil {
			return err
		}
		return s.userStore.WithTx(tx).AdjustTaskCounts(ctx, userID, domain.DeletionDelta(task.Status))
	})
	if err != nil {
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", taskID,
			"user_id", userID)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	metrics.TasksDeleted.WithLabelValues(string(task.Status)).Inc()
	s.logger.Debug("task deleted",
		"task_id", taskID,
		"user_id", userID)

	return nil
}

// ListTasks returns one page of the user's tasks matching the filter.
func (s *TaskServiceImpl) ListTasks(
	ctx context.Context,
	filter store.TaskFilter,
) (*TaskPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = DefaultPageSize
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}

	tasks, total, err := s.taskStore.ListFiltered(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"user_id", filter.UserID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	totalPages := (total + filter.PageSize - 1) / filter.PageSize

	return &TaskPage{
		Tasks:      tasks,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListAllTasks returns every task annotated with owner details.
func (s *TaskServiceImpl) ListAllTasks(ctx context.Context) ([]store.TaskWithOwner, error) {
	tasks, err := s.taskStore.ListWithOwners(ctx)
	if err != nil {
		s.logger.Error("failed to list all tasks", "error", err)
		return nil, fmt.Errorf("failed to list all tasks: %w", err)
	}
	return tasks, nil
}

// ListCategories returns the distinct categories of the user's tasks.
func (s *TaskServiceImpl) ListCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	categories, err := s.taskStore.ListCategories(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list categories",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// SweepOverdue transitions every eligible task to overdue. Each task is
// processed in its own transaction so one failure cannot hold back the
// rest of the sweep; the first error is reported after the full pass.
func (s *TaskServiceImpl) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	start := time.Now()

	candidates, err := s.taskStore.ListOverdueCandidates(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue candidates: %w", err)
	}

	var swept int
	var firstErr error
	for i := range candidates {
		task := candidates[i]
		oldStatus := task.Status
		task.Status = domain.TaskStatusOverdue
		delta := domain.TransitionDelta(oldStatus, domain.TaskStatusOverdue)

		err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			if err := s.taskStore.WithTx(tx).Update(ctx, &task); err != nil {
				return err
			}
			return s.userStore.WithTx(tx).AdjustTaskCounts(ctx, task.UserID, delta)
		})
		if err != nil {
			s.logger.Error("failed to mark task overdue",
				"error", err,
				"task_id", task.ID,
				"user_id", task.UserID)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		swept++
	}

	metrics.ObserveSweep(swept, time.Since(start))
	s.logger.Info("overdue sweep finished",
		"candidates", len(candidates),
		"swept", swept,
		"duration", time.Since(start))

	return swept, firstErr
}
