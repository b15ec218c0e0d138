package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/DusanM998/ToDoApplication/internal/domain"
)

// UserWithTasks pairs a user with their full task list, as returned by
// the admin-only user listing.
type UserWithTasks struct {
	User  domain.User   `json:"user"`
	Tasks []domain.Task `json:"tasks"`
}

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The caller must have hashed
	// the password already; only HashedPassword is persisted.
	// Returns ErrUsernameExists if the username is already taken
	// (case-insensitive comparison).
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by username. The lookup is
	// case-insensitive. Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByRefreshToken retrieves the user holding the given refresh token
	// by exact match. Returns ErrRefreshTokenNotFound if no user holds it.
	GetByRefreshToken(ctx context.Context, token string) (*domain.User, error)

	// Update modifies an existing user's details. The caller MUST provide
	// a complete user object including HashedPassword; counter fields are
	// NOT written by Update (use AdjustTaskCounts).
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrUsernameExists when updating to a taken username.
	Update(ctx context.Context, user *domain.User) error

	// AdjustTaskCounts atomically applies the given counter delta to the
	// user's denormalized task counters in a single UPDATE, avoiding the
	// read-modify-write race between concurrent task mutations.
	// Returns ErrUserNotFound if the user row does not exist.
	AdjustTaskCounts(ctx context.Context, id uuid.UUID, delta domain.CounterDelta) error

	// ListWithTasks returns every user together with their tasks,
	// ordered by user creation time. Intended for the admin listing.
	ListWithTasks(ctx context.Context) ([]UserWithTasks, error)

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
