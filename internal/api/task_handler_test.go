package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DusanM998/ToDoApplication/internal/api/shared"
	"github.com/DusanM998/ToDoApplication/internal/domain"
	"github.com/DusanM998/ToDoApplication/internal/mocks"
	"github.com/DusanM998/ToDoApplication/internal/service"
	"github.com/DusanM998/ToDoApplication/internal/store"
)

// newTaskRouter mounts the handler the way the server does, with a stub
// authentication middleware that injects the given user ID.
func newTaskRouter(handler *TaskHandler, userID uuid.UUID) chi.Router {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if userID != uuid.Nil {
				req = req.WithContext(
					context.WithValue(req.Context(), shared.UserIDContextKey, userID),
				)
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Get("/all", handler.ListAll)
		r.Get("/categories", handler.Categories)
		r.Get("/{id}", handler.Get)
		r.Put("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
	})
	return r
}

func TestTaskHandlerCreate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name       string
		userID     uuid.UUID
		payload    map[string]interface{}
		wantStatus int
	}{
		{
			name:   "valid task",
			userID: userID,
			payload: map[string]interface{}{
				"title":    "Buy groceries",
				"priority": 1,
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing title",
			userID:     userID,
			payload:    map[string]interface{}{"priority": 1},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "priority out of range",
			userID: userID,
			payload: map[string]interface{}{
				"title":    "Buy groceries",
				"priority": 5,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "unauthenticated",
			userID: uuid.Nil,
			payload: map[string]interface{}{
				"title":    "Buy groceries",
				"priority": 1,
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			taskService := &mocks.MockTaskService{
				CreateTaskFn: func(ctx context.Context, owner uuid.UUID, input service.CreateTaskInput) (*domain.Task, error) {
					assert.Equal(t, userID, owner)
					task, err := domain.NewTask(owner, input.Title, input.Description, input.DueDate, input.Category, input.Priority)
					if err != nil {
						return nil, err
					}
					task.ID = 1
					return task, nil
				},
			}
			router := newTaskRouter(NewTaskHandler(taskService), tc.userID)

			body, err := json.Marshal(tc.payload)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)

			if tc.wantStatus == http.StatusCreated {
				var got domain.Task
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, "Buy groceries", got.Title)
				assert.Equal(t, domain.TaskStatusPending, got.Status)
			}
		})
	}

	t.Run("omitted priority defaults to medium", func(t *testing.T) {
		t.Parallel()

		var gotPriority domain.TaskPriority
		taskService := &mocks.MockTaskService{
			CreateTaskFn: func(ctx context.Context, owner uuid.UUID, input service.CreateTaskInput) (*domain.Task, error) {
				gotPriority = input.Priority
				task, err := domain.NewTask(owner, input.Title, input.Description, input.DueDate, input.Category, input.Priority)
				if err != nil {
					return nil, err
				}
				task.ID = 1
				return task, nil
			},
		}
		router := newTaskRouter(NewTaskHandler(taskService), userID)

		req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{"title":"Buy milk"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, domain.TaskPriorityMedium, gotPriority)

		var got domain.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, domain.TaskPriorityMedium, got.Priority)
	})
}

func TestTaskHandlerGet(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name       string
		path       string
		serviceErr error
		wantStatus int
	}{
		{name: "found", path: "/api/tasks/42", wantStatus: http.StatusOK},
		{name: "not owned", path: "/api/tasks/42", serviceErr: service.ErrNotOwned, wantStatus: http.StatusForbidden},
		{name: "not found", path: "/api/tasks/42", serviceErr: store.ErrTaskNotFound, wantStatus: http.StatusNotFound},
		{name: "malformed id", path: "/api/tasks/abc", wantStatus: http.StatusBadRequest},
		{name: "non-positive id", path: "/api/tasks/0", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			taskService := &mocks.MockTaskService{
				GetTaskFn: func(ctx context.Context, owner uuid.UUID, taskID int64) (*domain.Task, error) {
					if tc.serviceErr != nil {
						return nil, tc.serviceErr
					}
					assert.Equal(t, int64(42), taskID)
					return &domain.Task{ID: taskID, UserID: owner, Title: "File taxes", Status: domain.TaskStatusPending}, nil
				},
			}
			router := newTaskRouter(NewTaskHandler(taskService), userID)

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestTaskHandlerList(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("query parameters populate the filter", func(t *testing.T) {
		t.Parallel()

		var got store.TaskFilter
		taskService := &mocks.MockTaskService{
			ListTasksFn: func(ctx context.Context, filter store.TaskFilter) (*service.TaskPage, error) {
				got = filter
				return &service.TaskPage{
					Tasks:      []domain.Task{},
					TotalCount: 0,
					Page:       filter.Page,
					PageSize:   filter.PageSize,
					TotalPages: 0,
				}, nil
			},
		}
		router := newTaskRouter(NewTaskHandler(taskService), userID)

		target := "/api/tasks?search=tax&status=pending&priority=2&category=home&due_from=2026-01-01&due_to=2026-12-31&page=3&page_size=25"
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, "tax", got.Search)
		require.NotNil(t, got.Status)
		assert.Equal(t, domain.TaskStatusPending, *got.Status)
		require.NotNil(t, got.Priority)
		assert.Equal(t, domain.TaskPriorityHigh, *got.Priority)
		assert.Equal(t, "home", got.Category)
		require.NotNil(t, got.DueFrom)
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *got.DueFrom)
		require.NotNil(t, got.DueTo)
		assert.Equal(t, 3, got.Page)
		assert.Equal(t, 25, got.PageSize)
	})

	t.Run("invalid filter values are rejected", func(t *testing.T) {
		t.Parallel()

		router := newTaskRouter(NewTaskHandler(&mocks.MockTaskService{}), userID)

		for _, target := range []string{
			"/api/tasks?status=archived",
			"/api/tasks?priority=9",
			"/api/tasks?priority=high",
			"/api/tasks?due_from=January",
			"/api/tasks?page=0",
			"/api/tasks?page_size=-1",
		} {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
		}
	})

	t.Run("page metadata is passed through", func(t *testing.T) {
		t.Parallel()

		taskService := &mocks.MockTaskService{
			ListTasksFn: func(ctx context.Context, filter store.TaskFilter) (*service.TaskPage, error) {
				return &service.TaskPage{
					Tasks:      []domain.Task{{ID: 1, UserID: userID, Title: "Water plants", Status: domain.TaskStatusPending}},
					TotalCount: 11,
					Page:       2,
					PageSize:   10,
					TotalPages: 2,
				}, nil
			},
		}
		router := newTaskRouter(NewTaskHandler(taskService), userID)

		req := httptest.NewRequest(http.MethodGet, "/api/tasks?page=2", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var page TaskPageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Equal(t, 11, page.TotalCount)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 2, page.TotalPages)
		assert.Len(t, page.Tasks, 1)
	})
}

func TestTaskHandlerUpdate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("status passthrough", func(t *testing.T) {
		t.Parallel()

		var got service.UpdateTaskInput
		taskService := &mocks.MockTaskService{
			UpdateTaskFn: func(ctx context.Context, owner uuid.UUID, taskID int64, input service.UpdateTaskInput) (*domain.Task, error) {
				got = input
				return &domain.Task{ID: taskID, UserID: owner, Title: input.Title, Status: *input.Status}, nil
			},
		}
		router := newTaskRouter(NewTaskHandler(taskService), userID)

		body := []byte(`{"title":"File taxes","priority":2,"status":"completed"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/tasks/7", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got.Status)
		assert.Equal(t, domain.TaskStatusCompleted, *got.Status)
	})

	t.Run("omitted status stays nil", func(t *testing.T) {
		t.Parallel()

		var got service.UpdateTaskInput
		taskService := &mocks.MockTaskService{
			UpdateTaskFn: func(ctx context.Context, owner uuid.UUID, taskID int64, input service.UpdateTaskInput) (*domain.Task, error) {
				got = input
				return &domain.Task{ID: taskID, UserID: owner, Title: input.Title, Status: domain.TaskStatusPending}, nil
			},
		}
		router := newTaskRouter(NewTaskHandler(taskService), userID)

		body := []byte(`{"title":"File taxes","priority":2}`)
		req := httptest.NewRequest(http.MethodPut, "/api/tasks/7", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, got.Status)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		t.Parallel()

		router := newTaskRouter(NewTaskHandler(&mocks.MockTaskService{}), userID)

		body := []byte(`{"title":"File taxes","priority":2,"status":"archived"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/tasks/7", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskHandlerDelete(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "deleted", wantStatus: http.StatusNoContent},
		{name: "not owned", serviceErr: service.ErrNotOwned, wantStatus: http.StatusForbidden},
		{name: "not found", serviceErr: store.ErrTaskNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			taskService := &mocks.MockTaskService{
				DeleteTaskFn: func(ctx context.Context, owner uuid.UUID, taskID int64) error {
					return tc.serviceErr
				},
			}
			router := newTaskRouter(NewTaskHandler(taskService), userID)

			req := httptest.NewRequest(http.MethodDelete, "/api/tasks/9", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestTaskHandlerCategories(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskService := &mocks.MockTaskService{
		ListCategoriesFn: func(ctx context.Context, owner uuid.UUID) ([]string, error) {
			assert.Equal(t, userID, owner)
			return []string{"errands", "home"}, nil
		},
	}
	router := newTaskRouter(NewTaskHandler(taskService), userID)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/categories", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var categories []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	assert.Equal(t, []string{"errands", "home"}, categories)
}

func TestTaskHandlerListAll(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	taskService := &mocks.MockTaskService{
		ListAllTasksFn: func(ctx context.Context) ([]store.TaskWithOwner, error) {
			return []store.TaskWithOwner{
				{
					Task:          domain.Task{ID: 1, UserID: ownerID, Title: "Water plants", Status: domain.TaskStatusPending},
					OwnerName:     "Ana",
					OwnerUsername: "ana@example.com",
				},
			}, nil
		},
	}
	router := newTaskRouter(NewTaskHandler(taskService), ownerID)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/all", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Water plants")
	assert.Contains(t, rec.Body.String(), "ana@example.com")
}
