package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DusanM998/ToDoApplication/internal/domain"
	"github.com/DusanM998/ToDoApplication/internal/service"
	"github.com/DusanM998/ToDoApplication/internal/store"
)

// MockAuthService is a configurable service.AuthService for handler tests.
// Unset function fields make the corresponding call fail the zero-value
// way: nil results with a nil error.
type MockAuthService struct {
	RegisterFn          func(ctx context.Context, input service.RegisterInput) (*domain.User, error)
	LoginFn             func(ctx context.Context, username, password string) (*service.AuthResult, error)
	RefreshFn           func(ctx context.Context, refreshToken string) (*service.AuthResult, error)
	LogoutFn            func(ctx context.Context, userID uuid.UUID) error
	GetUserFn           func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetAllUsersFn       func(ctx context.Context) ([]store.UserWithTasks, error)
	VerifyPasswordFn    func(ctx context.Context, userID uuid.UUID, password string) error
	UpdateUserDetailsFn func(ctx context.Context, userID uuid.UUID, input service.UpdateUserInput) (*domain.User, error)
	ForgotPasswordFn    func(ctx context.Context, username string) error
	ResetPasswordFn     func(ctx context.Context, username, token, newPassword string) error
}

var _ service.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) Register(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, input)
	}
	return nil, nil
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.AuthResult, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, username, password)
	}
	return nil, nil
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.AuthResult, error) {
	if m.RefreshFn != nil {
		return m.RefreshFn(ctx, refreshToken)
	}
	return nil, nil
}

func (m *MockAuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, userID)
	}
	return nil
}

func (m *MockAuthService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *MockAuthService) GetAllUsers(ctx context.Context) ([]store.UserWithTasks, error) {
	if m.GetAllUsersFn != nil {
		return m.GetAllUsersFn(ctx)
	}
	return nil, nil
}

func (m *MockAuthService) VerifyPassword(ctx context.Context, userID uuid.UUID, password string) error {
	if m.VerifyPasswordFn != nil {
		return m.VerifyPasswordFn(ctx, userID, password)
	}
	return nil
}

func (m *MockAuthService) UpdateUserDetails(ctx context.Context, userID uuid.UUID, input service.UpdateUserInput) (*domain.User, error) {
	if m.UpdateUserDetailsFn != nil {
		return m.UpdateUserDetailsFn(ctx, userID, input)
	}
	return nil, nil
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, username string) error {
	if m.ForgotPasswordFn != nil {
		return m.ForgotPasswordFn(ctx, username)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, username, token, newPassword string) error {
	if m.ResetPasswordFn != nil {
		return m.ResetPasswordFn(ctx, username, token, newPassword)
	}
	return nil
}

// MockTaskService is a configurable service.TaskService for handler tests.
type MockTaskService struct {
	CreateTaskFn     func(ctx context.Context, userID uuid.UUID, input service.CreateTaskInput) (*domain.Task, error)
	GetTaskFn        func(ctx context.Context, userID uuid.UUID, taskID int64) (*domain.Task, error)
	UpdateTaskFn     func(ctx context.Context, userID uuid.UUID, taskID int64, input service.UpdateTaskInput) (*domain.Task, error)
	DeleteTaskFn     func(ctx context.Context, userID uuid.UUID, taskID int64) error
	ListTasksFn      func(ctx context.Context, filter store.TaskFilter) (*service.TaskPage, error)
	ListAllTasksFn   func(ctx context.Context) ([]store.TaskWithOwner, error)
	ListCategoriesFn func(ctx context.Context, userID uuid.UUID) ([]string, error)
	SweepOverdueFn   func(ctx context.Context, now time.Time) (int, error)
}

var _ service.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) CreateTask(ctx context.Context, userID uuid.UUID, input service.CreateTaskInput) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, userID, input)
	}
	return nil, nil
}

func (m *MockTaskService) GetTask(ctx context.Context, userID uuid.UUID, taskID int64) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, userID, taskID)
	}
	return nil, nil
}

func (m *MockTaskService) UpdateTask(ctx context.Context, userID uuid.UUID, taskID int64, input service.UpdateTaskInput) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, userID, taskID, input)
	}
	return nil, nil
}

func (m *MockTaskService) DeleteTask(ctx context.Context, userID uuid.UUID, taskID int64) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, userID, taskID)
	}
	return nil
}

func (m *MockTaskService) ListTasks(ctx context.Context, filter store.TaskFilter) (*service.TaskPage, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, filter)
	}
	return &service.TaskPage{}, nil
}

func (m *MockTaskService) ListAllTasks(ctx context.Context) ([]store.TaskWithOwner, error) {
	if m.ListAllTasksFn != nil {
		return m.ListAllTasksFn(ctx)
	}
	return nil, nil
}

func (m *MockTaskService) ListCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if m.ListCategoriesFn != nil {
		return m.ListCategoriesFn(ctx, userID)
	}
	return nil, nil
}

func (m *MockTaskService) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	if m.SweepOverdueFn != nil {
		return m.SweepOverdueFn(ctx, now)
	}
	return 0, nil
}
