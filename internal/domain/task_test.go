package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	t.Parallel() // Enable parallel execution
	userID := uuid.New()

	task, err := NewTask(userID, "Buy groceries", "milk, bread", nil, "Personal", TaskPriorityMedium)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, task.UserID)
	}

	if task.Status != TaskStatusPending {
		t.Errorf("Expected status %s, got %s", TaskStatusPending, task.Status)
	}

	if task.Priority != TaskPriorityMedium {
		t.Errorf("Expected priority %d, got %d", TaskPriorityMedium, task.Priority)
	}

	if task.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if task.ID != 0 {
		t.Errorf("Expected zero ID before persistence, got %d", task.ID)
	}

	// Empty owner
	_, err = NewTask(uuid.Nil, "Buy groceries", "", nil, "", TaskPriorityLow)
	if !errors.Is(err, ErrEmptyTaskUserID) {
		t.Errorf("Expected error %v, got %v", ErrEmptyTaskUserID, err)
	}

	// Whitespace title
	_, err = NewTask(userID, "   ", "", nil, "", TaskPriorityLow)
	if !errors.Is(err, ErrEmptyTaskTitle) {
		t.Errorf("Expected error %v, got %v", ErrEmptyTaskTitle, err)
	}

	// Due date in the past
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	_, err = NewTask(userID, "Too late", "", &yesterday, "", TaskPriorityLow)
	if !errors.Is(err, ErrDueDateInPast) {
		t.Errorf("Expected error %v, got %v", ErrDueDateInPast, err)
	}

	// Due date today is allowed regardless of time of day
	today := time.Now().UTC()
	if _, err := NewTask(userID, "Just in time", "", &today, "", TaskPriorityHigh); err != nil {
		t.Errorf("Expected no error for a due date of today, got %v", err)
	}
}

func TestValidateDueDate(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dueDate time.Time
		wantErr error
	}{
		{"yesterday", time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC), ErrDueDateInPast},
		{"earlier today", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), nil},
		{"later today", time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC), nil},
		{"tomorrow", time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), nil},
		{"far past", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), ErrDueDateInPast},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateDueDate(tc.dueDate, now)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidateDueDate(%v) = %v, want %v", tc.dueDate, err, tc.wantErr)
			}
		})
	}
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()
	validTask := Task{
		UserID:   uuid.New(),
		Title:    "Test task",
		Status:   TaskStatusPending,
		Priority: TaskPriorityLow,
	}

	if err := validTask.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidTask := validTask
	invalidTask.Status = TaskStatus("archived")
	if err := invalidTask.Validate(); !errors.Is(err, ErrInvalidTaskStatus) {
		t.Errorf("Expected error %v, got %v", ErrInvalidTaskStatus, err)
	}

	invalidTask = validTask
	invalidTask.Priority = TaskPriority(7)
	if err := invalidTask.Validate(); !errors.Is(err, ErrInvalidTaskPriority) {
		t.Errorf("Expected error %v, got %v", ErrInvalidTaskPriority, err)
	}
}

func TestTransitionDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		old  TaskStatus
		new  TaskStatus
		want CounterDelta
	}{
		{"pending to completed", TaskStatusPending, TaskStatusCompleted, CounterDelta{Pending: -1, Completed: 1}},
		{"pending to overdue", TaskStatusPending, TaskStatusOverdue, CounterDelta{Pending: -1, Overdue: 1}},
		{"completed to pending", TaskStatusCompleted, TaskStatusPending, CounterDelta{Pending: 1, Completed: -1}},
		{"overdue to completed", TaskStatusOverdue, TaskStatusCompleted, CounterDelta{Completed: 1, Overdue: -1}},
		{"no change", TaskStatusPending, TaskStatusPending, CounterDelta{}},
		{"unknown old status", TaskStatus("archived"), TaskStatusPending, CounterDelta{Pending: 1}},
		{"unknown new status", TaskStatusPending, TaskStatus("archived"), CounterDelta{Pending: -1}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := TransitionDelta(tc.old, tc.new)
			if got != tc.want {
				t.Errorf("TransitionDelta(%s, %s) = %+v, want %+v", tc.old, tc.new, got, tc.want)
			}

			// Exactly one unit moves between exactly two buckets.
			if tc.old != tc.new {
				sum := got.Pending + got.Completed + got.Overdue
				if IsValidTaskStatus(tc.old) && IsValidTaskStatus(tc.new) && sum != 0 {
					t.Errorf("delta %+v leaks %d units", got, sum)
				}
			}
		})
	}
}

func TestCreationAndDeletionDelta(t *testing.T) {
	t.Parallel()

	if d := CreationDelta(TaskStatusPending); d != (CounterDelta{Pending: 1}) {
		t.Errorf("CreationDelta(pending) = %+v", d)
	}
	if d := DeletionDelta(TaskStatusCompleted); d != (CounterDelta{Completed: -1}) {
		t.Errorf("DeletionDelta(completed) = %+v", d)
	}
	if d := DeletionDelta(TaskStatusOverdue); d != (CounterDelta{Overdue: -1}) {
		t.Errorf("DeletionDelta(overdue) = %+v", d)
	}
	if d := CreationDelta(TaskStatus("archived")); !d.IsZero() {
		t.Errorf("CreationDelta(unknown) = %+v, want zero", d)
	}
}
