package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/DusanM998/ToDoApplication/internal/domain"
	"github.com/DusanM998/ToDoApplication/internal/store"
)

// Common request/response structures

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication
// endpoints.
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// VerifyPasswordRequest defines the payload for the password check
// endpoint.
type VerifyPasswordRequest struct {
	Password string `json:"password" validate:"required,min=1"`
}

// ForgotPasswordRequest defines the payload for starting a password
// reset.
type ForgotPasswordRequest struct {
	Username string `json:"username" validate:"required,email"`
}

// ResetPasswordRequest defines the payload for completing a password
// reset.
type ResetPasswordRequest struct {
	Username    string `json:"username"     validate:"required,email"`
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// UserResponse is the public view of a user. The password hash, refresh
// token, and reset token state never leave the server.
type UserResponse struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	Name           string      `json:"name"`
	AvatarURL      string      `json:"avatar_url,omitempty"`
	PhoneNumber    string      `json:"phone_number,omitempty"`
	Role           domain.Role `json:"role"`
	PendingCount   int         `json:"pending_count"`
	CompletedCount int         `json:"completed_count"`
	OverdueCount   int         `json:"overdue_count"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewUserResponse maps a domain user to its public view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Name:           user.Name,
		AvatarURL:      user.AvatarURL,
		PhoneNumber:    user.PhoneNumber,
		Role:           user.Role,
		PendingCount:   user.PendingCount,
		CompletedCount: user.CompletedCount,
		OverdueCount:   user.OverdueCount,
		CreatedAt:      user.CreatedAt,
	}
}

// UserWithTasksResponse pairs a user's public view with their tasks for
// the admin listing.
type UserWithTasksResponse struct {
	User  UserResponse  `json:"user"`
	Tasks []domain.Task `json:"tasks"`
}

// NewUserWithTasksResponse maps the store listing to its public view.
func NewUserWithTasksResponse(items []store.UserWithTasks) []UserWithTasksResponse {
	result := make([]UserWithTasksResponse, 0, len(items))
	for i := range items {
		result = append(result, UserWithTasksResponse{
			User:  NewUserResponse(&items[i].User),
			Tasks: items[i].Tasks,
		})
	}
	return result
}

// CreateTaskRequest defines the payload for creating a task. An absent
// priority defaults to medium.
type CreateTaskRequest struct {
	Title       string               `json:"title"       validate:"required,max=200"`
	Description string               `json:"description" validate:"max=2000"`
	DueDate     *time.Time           `json:"due_date"`
	Category    string               `json:"category"    validate:"max=100"`
	Priority    *domain.TaskPriority `json:"priority"    validate:"omitempty,gte=0,lte=2"`
}

// UpdateTaskRequest defines the payload for updating a task. A null or
// absent status preserves the task's current status.
type UpdateTaskRequest struct {
	Title        string              `json:"title"       validate:"required,max=200"`
	Description  string              `json:"description" validate:"max=2000"`
	DueDate      *time.Time          `json:"due_date"`
	ClearDueDate bool                `json:"clear_due_date"`
	Category     string              `json:"category"    validate:"max=100"`
	Priority     domain.TaskPriority `json:"priority"    validate:"gte=0,lte=2"`
	Status       *domain.TaskStatus  `json:"status"      validate:"omitempty,oneof=pending completed overdue"`
}

// TaskPageResponse is one page of a filtered task listing.
type TaskPageResponse struct {
	Tasks      []domain.Task `json:"tasks"`
	TotalCount int           `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}
