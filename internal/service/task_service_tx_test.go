package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DusanM998/ToDoApplication/internal/domain"
	"github.com/DusanM998/ToDoApplication/internal/mocks"
	"github.com/DusanM998/ToDoApplication/internal/service"
	"github.com/DusanM998/ToDoApplication/internal/testutils"
)

// These tests exercise the transactional task mutations. They need a real
// database handle for transaction management (the stores themselves are
// mocks), so they skip when DATABASE_URL is not set.

func seedUser(t *testing.T, userStore *mocks.MockUserStore) *domain.User {
	t.Helper()

	user, err := domain.NewUser("owner@example.com", "Owner", "password123", "", domain.RoleCustomer)
	require.NoError(t, err)
	user.HashedPassword = "hashed"
	user.Password = ""
	require.NoError(t, userStore.Create(context.Background(), user))
	return user
}

func TestTaskService_CreateTask_AdjustsCounters(t *testing.T) {
	db := testutils.GetTestDB(t)

	taskStore := mocks.NewMockTaskStore()
	userStore := mocks.NewMockUserStore()
	svc := service.NewTaskService(taskStore, userStore, db, testLogger())

	user := seedUser(t, userStore)

	task, err := svc.CreateTask(context.Background(), user.ID, service.CreateTaskInput{
		Title:    "Write report",
		Priority: domain.TaskPriorityHigh,
	})
	require.NoError(t, err)
	require.NotZero(t, task.ID)
	assert.Equal(t, domain.TaskStatusPending, task.Status)

	assert.Equal(t, 1, user.PendingCount)
	assert.Equal(t, 0, user.CompletedCount)
	assert.Equal(t, 0, user.OverdueCount)
}

func TestTaskService_CreateTask_RejectsPastDueDate(t *testing.T) {
	db := testutils.GetTestDB(t)

	taskStore := mocks.NewMockTaskStore()
	userStore := mocks.NewMockUserStore()
	svc := service.NewTaskService(taskStore, userStore, db, testLogger())

	user := seedUser(t, userStore)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	_, err := svc.CreateTask(context.Background(), user.ID, service.CreateTaskInput{
		Title:   "Too late",
		DueDate: &yesterday,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, user.PendingCount)
}

func TestTaskService_UpdateTask_StatusTransitions(t *testing.T) {
	db := testutils.GetTestDB(t)

	taskStore := mocks.NewMockTaskStore()
	userStore := mocks.NewMockUserStore()
	svc := service.NewTaskService(taskStore, userStore, db, testLogger())

	user := seedUser(t, userStore)

	task, err := svc.CreateTask(context.Background(), user.ID, service.CreateTaskInput{
		Title: "Walk the dog",
	})
	require.NoError(t, err)
	require.Equal(t, 1, user.PendingCount)

	t.Run("completing moves one unit between buckets", func(t *testing.T) {
		completed := domain.TaskStatusCompleted
		updated, err := svc.UpdateTask(context.Background(), user.ID, task.ID, service.UpdateTaskInput{
			Title:    task.Title,
			Priority: task.Priority,
			Status:   &completed,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
		assert.Equal(t, 0, user.PendingCount)
		assert.Equal(t, 1, user.CompletedCount)
	})

	t.Run("omitting status preserves it and leaves counters alone", func(t *testing.T) {
		deltasBefore := len(userStore.Deltas[user.ID])
		updated, err := svc.UpdateTask(context.Background(), user.ID, task.ID, service.UpdateTaskInput{
			Title:    "Walk the dog twice",
			Priority: domain.TaskPriorityHigh,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
		assert.Equal(t, "Walk the dog twice", updated.Title)
		assert.Equal(t, 0, user.PendingCount)
		assert.Equal(t, 1, user.CompletedCount)
		assert.Len(t, userStore.Deltas[user.ID], deltasBefore, "no new delta expected")
	})
}

func TestTaskService_DeleteTask_AdjustsCounters(t *testing.T) {
	db := testutils.GetTestDB(t)

	taskStore := mocks.NewMockTaskStore()
	userStore := mocks.NewMockUserStore()
	svc := service.NewTaskService(taskStore, userStore, db, testLogger())

	user := seedUser(t, userStore)

	task, err := svc.CreateTask(context.Background(), user.ID, service.CreateTaskInput{Title: "Temp"})
	require.NoError(t, err)
	require.Equal(t, 1, user.PendingCount)

	require.NoError(t, svc.DeleteTask(context.Background(), user.ID, task.ID))
	assert.Equal(t, 0, user.PendingCount)

	t.Run("stranger cannot delete", func(t *testing.T) {
		other, err := svc.CreateTask(context.Background(), user.ID, service.CreateTaskInput{Title: "Keep"})
		require.NoError(t, err)

		err = svc.DeleteTask(context.Background(), uuid.New(), other.ID)
		assert.ErrorIs(t, err, service.ErrNotOwned)
		assert.Equal(t, 1, user.PendingCount)
	})
}

func TestTaskService_SweepOverdue(t *testing.T) {
	db := testutils.GetTestDB(t)

	taskStore := mocks.NewMockTaskStore()
	userStore := mocks.NewMockUserStore()
	svc := service.NewTaskService(taskStore, userStore, db, testLogger())

	user := seedUser(t, userStore)

	// Seed tasks directly: the service would reject due dates in the past.
	past := time.Now().UTC().Add(-48 * time.Hour)
	future := time.Now().UTC().Add(48 * time.Hour)

	dueTask := &domain.Task{
		UserID: user.ID, Title: "Missed deadline", Status: domain.TaskStatusPending,
		DueDate: &past, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, taskStore.Create(context.Background(), dueTask))
	user.PendingCount++

	doneTask := &domain.Task{
		UserID: user.ID, Title: "Finished in time", Status: domain.TaskStatusCompleted,
		DueDate: &past, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, taskStore.Create(context.Background(), doneTask))
	user.CompletedCount++

	upcoming := &domain.Task{
		UserID: user.ID, Title: "Still time", Status: domain.TaskStatusPending,
		DueDate: &future, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, taskStore.Create(context.Background(), upcoming))
	user.PendingCount++

	swept, err := svc.SweepOverdue(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	assert.Equal(t, 1, user.PendingCount)
	assert.Equal(t, 1, user.CompletedCount)
	assert.Equal(t, 1, user.OverdueCount)

	got, err := taskStore.GetByID(context.Background(), dueTask.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusOverdue, got.Status)

	// A second sweep finds nothing left to do.
	swept, err = svc.SweepOverdue(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, swept)
}
