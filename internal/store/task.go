package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/DusanM998/ToDoApplication/internal/domain"
)

// TaskFilter describes the AND-combined criteria for a filtered, paginated
// task listing. Zero values (nil pointers, empty strings) leave that filter
// unapplied. Page and PageSize must both be >= 1; the caller is responsible
// for normalizing smaller values.
type TaskFilter struct {
	UserID   uuid.UUID
	Search   string // case-sensitive substring match on title OR description
	Status   *domain.TaskStatus
	DueFrom  *time.Time
	DueTo    *time.Time
	Category string
	Priority *domain.TaskPriority
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip for the requested page.
func (f TaskFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// TaskWithOwner annotates a task with the owning user's display name and
// username, as returned by the admin-only task listing.
type TaskWithOwner struct {
	domain.Task
	OwnerName     string `json:"owner_name"`
	OwnerUsername string `json:"owner_username"`
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task and assigns its numeric ID from the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update modifies an existing task. The owner never changes.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// ListFiltered returns one page of the requester's tasks matching the
	// filter, sorted by priority descending then due date descending,
	// together with the total pre-pagination match count.
	ListFiltered(ctx context.Context, filter TaskFilter) ([]domain.Task, int, error)

	// ListWithOwners returns every task across every user, annotated with
	// the owner's display name and username. Intended for the admin listing.
	ListWithOwners(ctx context.Context) ([]TaskWithOwner, error)

	// ListOverdueCandidates returns tasks whose due date lies strictly
	// before the given instant and whose status is neither completed nor
	// overdue. Used by the overdue sweep.
	ListOverdueCandidates(ctx context.Context, now time.Time) ([]domain.Task, error)

	// ListCategories returns the distinct, trimmed, non-empty categories
	// of the given user's tasks in alphabetical order.
	ListCategories(ctx context.Context, userID uuid.UUID) ([]string, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
