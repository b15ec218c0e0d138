package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DusanM998/ToDoApplication/internal/domain"
	"github.com/DusanM998/ToDoApplication/internal/store"
)

// taskColumns is the select list shared by all task queries.
const taskColumns = `id, user_id, title, description, status, priority, category, due_date, created_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.Create.
// The task ID is assigned by the database and written back to the task.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (user_id, title, description, status, priority, category, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Category,
		nullTime(task.DueDate),
		task.CreatedAt,
	).Scan(&task.ID)
	if err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"user_id", task.UserID)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Update implements store.TaskStore.Update.
// user_id is never part of the SET clause: ownership is immutable.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $2,
			description = $3,
			status = $4,
			priority = $5,
			category = $6,
			due_date = $7
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Category,
		nullTime(task.DueDate),
	)
	if err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", task.ID)
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", id)
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// ListFiltered implements store.TaskStore.ListFiltered.
// Filters are AND-combined; the total is counted before pagination so the
// caller can compute the page count.
func (s *PostgresTaskStore) ListFiltered(
	ctx context.Context,
	filter store.TaskFilter,
) ([]domain.Task, int, error) {
	where, args := buildTaskFilter(filter)

	countQuery := `SELECT count(*) FROM tasks ` + where
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		s.logger.Error("failed to count filtered tasks",
			"error", err,
			"user_id", filter.UserID)
		return nil, 0, MapError(err)
	}

	// Priority descending, then due date descending; NULL due dates sort
	// last so dated tasks stay ahead of undated ones.
	pageQuery := `SELECT ` + taskColumns + ` FROM tasks ` + where +
		` ORDER BY priority DESC, due_date DESC NULLS LAST, id` +
		` LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.PageSize, filter.Offset())

	rows, err := s.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		s.logger.Error("failed to list filtered tasks",
			"error", err,
			"user_id", filter.UserID)
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTaskFromRows(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	return tasks, total, nil
}

// buildTaskFilter renders the WHERE clause and its arguments for a filter.
func buildTaskFilter(filter store.TaskFilter) (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{filter.UserID}

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		// Case-sensitive substring match on title or description.
		p := arg("%" + escapeLike(filter.Search) + "%")
		conditions = append(conditions,
			fmt.Sprintf("(title LIKE %s OR description LIKE %s)", p, p))
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = "+arg(*filter.Status))
	}
	if filter.DueFrom != nil {
		conditions = append(conditions, "due_date >= "+arg(*filter.DueFrom))
	}
	if filter.DueTo != nil {
		conditions = append(conditions, "due_date <= "+arg(*filter.DueTo))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = "+arg(filter.Category))
	}
	if filter.Priority != nil {
		conditions = append(conditions, "priority = "+arg(*filter.Priority))
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// escapeLike escapes the LIKE metacharacters in a user-supplied search term.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// ListWithOwners implements store.TaskStore.ListWithOwners
func (s *PostgresTaskStore) ListWithOwners(ctx context.Context) ([]store.TaskWithOwner, error) {
	query := `
		SELECT t.id, t.user_id, t.title, t.description, t.status, t.priority,
			t.category, t.due_date, t.created_at, u.name, u.username
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		ORDER BY t.created_at
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.Error("failed to list tasks with owners", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	result := []store.TaskWithOwner{}
	for rows.Next() {
		var (
			item    store.TaskWithOwner
			dueDate sql.NullTime
		)
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Title,
			&item.Description,
			&item.Status,
			&item.Priority,
			&item.Category,
			&dueDate,
			&item.CreatedAt,
			&item.OwnerName,
			&item.OwnerUsername,
		)
		if err != nil {
			return nil, MapError(err)
		}
		if dueDate.Valid {
			t := dueDate.Time.UTC()
			item.DueDate = &t
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return result, nil
}

// ListOverdueCandidates implements store.TaskStore.ListOverdueCandidates
func (s *PostgresTaskStore) ListOverdueCandidates(
	ctx context.Context,
	now time.Time,
) ([]domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE due_date IS NOT NULL
			AND due_date < $1
			AND status NOT IN ($2, $3)
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query,
		now,
		domain.TaskStatusCompleted,
		domain.TaskStatusOverdue,
	)
	if err != nil {
		s.logger.Error("failed to list overdue candidates", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTaskFromRows(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// ListCategories implements store.TaskStore.ListCategories
func (s *PostgresTaskStore) ListCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT DISTINCT trim(category)
		FROM tasks
		WHERE user_id = $1 AND trim(category) <> ''
		ORDER BY trim(category)
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		s.logger.Error("failed to list categories",
			"error", err,
			"user_id", userID)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, MapError(err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return categories, nil
}

// scanTask scans a single task row, mapping sql.ErrNoRows to ErrNotFound.
func scanTask(row *sql.Row) (*domain.Task, error) {
	var (
		task    domain.Task
		dueDate sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Category,
		&dueDate,
		&task.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNotFound
		}
		return nil, MapError(err)
	}

	if dueDate.Valid {
		t := dueDate.Time.UTC()
		task.DueDate = &t
	}
	return &task, nil
}

// scanTaskFromRows scans the current row of a multi-row result set.
func scanTaskFromRows(rows *sql.Rows) (*domain.Task, error) {
	var (
		task    domain.Task
		dueDate sql.NullTime
	)

	err := rows.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Category,
		&dueDate,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, MapError(err)
	}

	if dueDate.Valid {
		t := dueDate.Time.UTC()
		task.DueDate = &t
	}
	return &task, nil
}
