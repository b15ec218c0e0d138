package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/DusanM998/ToDoApplication/internal/api/shared"
	"github.com/DusanM998/ToDoApplication/internal/domain"
	"github.com/DusanM998/ToDoApplication/internal/service"
	"github.com/DusanM998/ToDoApplication/internal/store"
)

// TaskHandler handles task management API requests.
type TaskHandler struct {
	taskService service.TaskService
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
	}
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	priority := domain.TaskPriorityMedium
	if req.Priority != nil {
		priority = *req.Priority
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Category:    req.Category,
		Priority:    priority,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Update handles PUT /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid task ID")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), userID, taskID, service.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		Category:     req.Category,
		Priority:     req.Priority,
		Status:       req.Status,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/tasks. Filters arrive as query parameters and
// combine with AND semantics.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	filter, err := parseTaskFilter(r, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.taskService.ListTasks(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskPageResponse{
		Tasks:      page.Tasks,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

// Categories handles GET /api/tasks/categories.
func (h *TaskHandler) Categories(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	categories, err := h.taskService.ListCategories(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, categories)
}

// ListAll handles GET /api/tasks/all. Admin only.
func (h *TaskHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListAllTasks(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// parseTaskFilter builds a store.TaskFilter from the request's query
// parameters. Date parameters use the 2006-01-02 layout.
func parseTaskFilter(r *http.Request, userID uuid.UUID) (store.TaskFilter, error) {
	q := r.URL.Query()

	filter := store.TaskFilter{
		UserID:   userID,
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}

	if raw := q.Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		if !domain.IsValidTaskStatus(status) {
			return store.TaskFilter{}, domain.NewValidationError("status", "must be pending, completed or overdue", domain.ErrValidation)
		}
		filter.Status = &status
	}

	if raw := q.Get("priority"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || !domain.IsValidTaskPriority(domain.TaskPriority(n)) {
			return store.TaskFilter{}, domain.NewValidationError("priority", "must be 0, 1 or 2", domain.ErrValidation)
		}
		priority := domain.TaskPriority(n)
		filter.Priority = &priority
	}

	if raw := q.Get("due_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return store.TaskFilter{}, domain.NewValidationError("due_from", "must be a YYYY-MM-DD date", domain.ErrValidation)
		}
		filter.DueFrom = &t
	}

	if raw := q.Get("due_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return store.TaskFilter{}, domain.NewValidationError("due_to", "must be a YYYY-MM-DD date", domain.ErrValidation)
		}
		filter.DueTo = &t
	}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return store.TaskFilter{}, domain.NewValidationError("page", "must be a positive integer", domain.ErrValidation)
		}
		filter.Page = n
	}

	if raw := q.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return store.TaskFilter{}, domain.NewValidationError("page_size", "must be a positive integer", domain.ErrValidation)
		}
		filter.PageSize = n
	}

	return filter, nil
}
