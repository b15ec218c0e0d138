package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DusanM998/ToDoApplication/internal/domain"
	"github.com/DusanM998/ToDoApplication/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn                func(ctx context.Context, task *domain.Task) error
	GetByIDFn               func(ctx context.Context, id int64) (*domain.Task, error)
	UpdateFn                func(ctx context.Context, task *domain.Task) error
	DeleteFn                func(ctx context.Context, id int64) error
	ListFilteredFn          func(ctx context.Context, filter store.TaskFilter) ([]domain.Task, int, error)
	ListWithOwnersFn        func(ctx context.Context) ([]store.TaskWithOwner, error)
	ListOverdueCandidatesFn func(ctx context.Context, now time.Time) ([]domain.Task, error)
	ListCategoriesFn        func(ctx context.Context, userID uuid.UUID) ([]string, error)

	// Data for default implementation, keyed by task ID
	Tasks  map[int64]*domain.Task
	nextID int64
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[int64]*domain.Task),
	}
}

// Ensure MockTaskStore implements store.TaskStore
var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.nextID++
	task.ID = m.nextID
	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	if _, exists := m.Tasks[task.ID]; !exists {
		return store.ErrTaskNotFound
	}
	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Tasks[id]; !exists {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// ListFiltered implements the TaskStore interface. The default mirrors the
// SQL implementation's contract: AND-combined filters, case-sensitive
// substring search, priority then due date descending, offset pagination.
func (m *MockTaskStore) ListFiltered(
	ctx context.Context,
	filter store.TaskFilter,
) ([]domain.Task, int, error) {
	if m.ListFilteredFn != nil {
		return m.ListFilteredFn(ctx, filter)
	}

	var matched []domain.Task
	for _, task := range m.Tasks {
		if task.UserID != filter.UserID {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(task.Title, filter.Search) &&
			!strings.Contains(task.Description, filter.Search) {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.DueFrom != nil && (task.DueDate == nil || task.DueDate.Before(*filter.DueFrom)) {
			continue
		}
		if filter.DueTo != nil && (task.DueDate == nil || task.DueDate.After(*filter.DueTo)) {
			continue
		}
		if filter.Category != "" && task.Category != filter.Category {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		matched = append(matched, *task)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority > matched[j].Priority
		}
		di, dj := matched[i].DueDate, matched[j].DueDate
		switch {
		case di == nil && dj == nil:
			return matched[i].ID < matched[j].ID
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.After(*dj)
		}
	})

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

// ListWithOwners implements the TaskStore interface
func (m *MockTaskStore) ListWithOwners(ctx context.Context) ([]store.TaskWithOwner, error) {
	if m.ListWithOwnersFn != nil {
		return m.ListWithOwnersFn(ctx)
	}

	result := make([]store.TaskWithOwner, 0, len(m.Tasks))
	for _, task := range m.Tasks {
		result = append(result, store.TaskWithOwner{Task: *task})
	}
	return result, nil
}

// ListOverdueCandidates implements the TaskStore interface
func (m *MockTaskStore) ListOverdueCandidates(
	ctx context.Context,
	now time.Time,
) ([]domain.Task, error) {
	if m.ListOverdueCandidatesFn != nil {
		return m.ListOverdueCandidatesFn(ctx, now)
	}

	var result []domain.Task
	for _, task := range m.Tasks {
		if task.DueDate == nil || !task.DueDate.Before(now) {
			continue
		}
		if task.Status == domain.TaskStatusCompleted || task.Status == domain.TaskStatusOverdue {
			continue
		}
		result = append(result, *task)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ListCategories implements the TaskStore interface
func (m *MockTaskStore) ListCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if m.ListCategoriesFn != nil {
		return m.ListCategoriesFn(ctx, userID)
	}

	seen := make(map[string]bool)
	for _, task := range m.Tasks {
		if task.UserID != userID {
			continue
		}
		c := strings.TrimSpace(task.Category)
		if c != "" {
			seen[c] = true
		}
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

// WithTx implements the TaskStore interface. The mock has no transaction
// state, so it returns itself.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
