package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task. Every task is in
// exactly one status bucket, and the per-user counters on User track how
// many tasks a user has in each bucket.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusOverdue   TaskStatus = "overdue"
)

// TaskPriority orders tasks from least to most urgent. The numeric values
// matter: filtered listings sort by priority descending.
type TaskPriority int

// Possible task priority values
const (
	TaskPriorityLow TaskPriority = iota
	TaskPriorityMedium
	TaskPriorityHigh
)

// Common validation errors for Task
var (
	ErrEmptyTaskTitle      = errors.New("task title cannot be empty")
	ErrEmptyTaskUserID     = errors.New("task user ID cannot be empty")
	ErrDueDateInPast       = errors.New("task due date cannot be in the past")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
)

// Task represents a single to-do item belonging to exactly one user.
// Ownership is immutable after creation, and CreatedAt is set once in UTC.
type Task struct {
	ID          int64        `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Category    string       `json:"category,omitempty"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewTask creates a new pending Task owned by the given user.
// The ID stays zero until the store assigns one. Returns an error if the
// title is blank or the due date lies before today (date-only, UTC).
func NewTask(
	userID uuid.UUID,
	title, description string,
	dueDate *time.Time,
	category string,
	priority TaskPriority,
) (*Task, error) {
	task := &Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      TaskStatusPending,
		Priority:    priority,
		Category:    category,
		DueDate:     dueDate,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if dueDate != nil {
		if err := ValidateDueDate(*dueDate, time.Now().UTC()); err != nil {
			return nil, err
		}
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
// Due dates are validated separately because an existing task may
// legitimately hold a due date that has since passed.
func (t *Task) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}

	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	if !IsValidTaskPriority(t.Priority) {
		return ErrInvalidTaskPriority
	}

	return nil
}

// ValidateDueDate rejects due dates that fall before today's date.
// The comparison is date-only in UTC, so a due date of today is allowed
// regardless of the time of day.
func ValidateDueDate(dueDate, now time.Time) error {
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if due.Before(today) {
		return ErrDueDateInPast
	}
	return nil
}

// IsValidTaskStatus checks if the given status is a recognized TaskStatus.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusOverdue:
		return true
	default:
		return false
	}
}

// IsValidTaskPriority checks if the given priority is a recognized TaskPriority.
func IsValidTaskPriority(priority TaskPriority) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// CounterDelta describes how a user's per-status task counters change as
// the result of a single task mutation. Exactly one unit moves between at
// most two buckets; the delta never leaks or double counts.
type CounterDelta struct {
	Pending   int
	Completed int
	Overdue   int
}

// IsZero reports whether the delta changes no counters.
func (d CounterDelta) IsZero() bool {
	return d.Pending == 0 && d.Completed == 0 && d.Overdue == 0
}

// bucketDelta returns a delta touching only the bucket for the given
// status. Unrecognized statuses touch no bucket.
func bucketDelta(status TaskStatus, n int) CounterDelta {
	switch status {
	case TaskStatusPending:
		return CounterDelta{Pending: n}
	case TaskStatusCompleted:
		return CounterDelta{Completed: n}
	case TaskStatusOverdue:
		return CounterDelta{Overdue: n}
	default:
		return CounterDelta{}
	}
}

// CreationDelta returns the counter change for creating a task with the
// given status.
func CreationDelta(status TaskStatus) CounterDelta {
	return bucketDelta(status, 1)
}

// DeletionDelta returns the counter change for deleting a task that is in
// the given status.
func DeletionDelta(status TaskStatus) CounterDelta {
	return bucketDelta(status, -1)
}

// TransitionDelta returns the counter change for a status transition.
// When old and new are equal the delta is zero; otherwise one unit leaves
// the old bucket and one unit enters the new bucket.
func TransitionDelta(oldStatus, newStatus TaskStatus) CounterDelta {
	if oldStatus == newStatus {
		return CounterDelta{}
	}
	out := bucketDelta(oldStatus, -1)
	in := bucketDelta(newStatus, 1)
	return CounterDelta{
		Pending:   out.Pending + in.Pending,
		Completed: out.Completed + in.Completed,
		Overdue:   out.Overdue + in.Overdue,
	}
}
