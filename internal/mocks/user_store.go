package mocks

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/DusanM998/ToDoApplication/internal/domain"
	"github.com/DusanM998/ToDoApplication/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn            func(ctx context.Context, user *domain.User) error
	GetByIDFn           func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameFn     func(ctx context.Context, username string) (*domain.User, error)
	GetByRefreshTokenFn func(ctx context.Context, token string) (*domain.User, error)
	UpdateFn            func(ctx context.Context, user *domain.User) error
	AdjustTaskCountsFn  func(ctx context.Context, id uuid.UUID, delta domain.CounterDelta) error
	ListWithTasksFn     func(ctx context.Context) ([]store.UserWithTasks, error)

	// Data for default implementation, keyed by user ID
	Users map[uuid.UUID]*domain.User

	// Deltas records every counter adjustment applied through the default
	// AdjustTaskCounts implementation, keyed by user ID.
	Deltas map[uuid.UUID][]domain.CounterDelta
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users:  make(map[uuid.UUID]*domain.User),
		Deltas: make(map[uuid.UUID][]domain.CounterDelta),
	}
}

// Ensure MockUserStore implements store.UserStore
var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	for _, existing := range m.Users {
		if strings.EqualFold(existing.Username, user.Username) {
			return store.ErrUsernameExists
		}
	}

	m.Users[user.ID] = user
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	user, exists := m.Users[id]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// GetByUsername implements the UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}

	for _, user := range m.Users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByRefreshToken implements the UserStore interface
func (m *MockUserStore) GetByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	if m.GetByRefreshTokenFn != nil {
		return m.GetByRefreshTokenFn(ctx, token)
	}

	for _, user := range m.Users {
		if user.RefreshToken != "" && user.RefreshToken == token {
			return user, nil
		}
	}
	return nil, store.ErrRefreshTokenNotFound
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	if _, exists := m.Users[user.ID]; !exists {
		return store.ErrUserNotFound
	}
	for id, existing := range m.Users {
		if id != user.ID && strings.EqualFold(existing.Username, user.Username) {
			return store.ErrUsernameExists
		}
	}
	m.Users[user.ID] = user
	return nil
}

// AdjustTaskCounts implements the UserStore interface
func (m *MockUserStore) AdjustTaskCounts(
	ctx context.Context,
	id uuid.UUID,
	delta domain.CounterDelta,
) error {
	if m.AdjustTaskCountsFn != nil {
		return m.AdjustTaskCountsFn(ctx, id, delta)
	}

	user, exists := m.Users[id]
	if !exists {
		return store.ErrUserNotFound
	}

	user.PendingCount += delta.Pending
	user.CompletedCount += delta.Completed
	user.OverdueCount += delta.Overdue
	m.Deltas[id] = append(m.Deltas[id], delta)
	return nil
}

// ListWithTasks implements the UserStore interface
func (m *MockUserStore) ListWithTasks(ctx context.Context) ([]store.UserWithTasks, error) {
	if m.ListWithTasksFn != nil {
		return m.ListWithTasksFn(ctx)
	}

	result := make([]store.UserWithTasks, 0, len(m.Users))
	for _, user := range m.Users {
		result = append(result, store.UserWithTasks{User: *user, Tasks: []domain.Task{}})
	}
	return result, nil
}

// WithTx implements the UserStore interface. The mock has no transaction
// state, so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
