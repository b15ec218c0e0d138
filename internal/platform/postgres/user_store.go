package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/DusanM998/ToDoApplication/internal/domain"
	"github.com/DusanM998/ToDoApplication/internal/store"
)

// userColumns is the select list shared by all user queries.
const userColumns = `id, username, name, hashed_password, avatar_url, phone_number, role,
	pending_count, completed_count, overdue_count,
	refresh_token, refresh_token_expires_at,
	password_reset_token_hash, password_reset_expires_at,
	created_at, updated_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Name,
		user.HashedPassword,
		user.AvatarURL,
		user.PhoneNumber,
		user.Role,
		user.PendingCount,
		user.CompletedCount,
		user.OverdueCount,
		nullString(user.RefreshToken),
		nullTime(user.RefreshTokenExpiresAt),
		nullString(user.PasswordResetTokenHash),
		nullTime(user.PasswordResetExpiresAt),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrUsernameExists
		}
		s.logger.Error("failed to create user",
			"error", err,
			"user_id", user.ID)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(username) = lower($1)`
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

// GetByRefreshToken implements store.UserStore.GetByRefreshToken
func (s *PostgresUserStore) GetByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE refresh_token = $1`
	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, token))
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update implements store.UserStore.Update.
// Counter fields are deliberately excluded; AdjustTaskCounts owns them.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE users
		SET username = $2,
			name = $3,
			hashed_password = $4,
			avatar_url = $5,
			phone_number = $6,
			role = $7,
			refresh_token = $8,
			refresh_token_expires_at = $9,
			password_reset_token_hash = $10,
			password_reset_expires_at = $11,
			updated_at = $12
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Name,
		user.HashedPassword,
		user.AvatarURL,
		user.PhoneNumber,
		user.Role,
		nullString(user.RefreshToken),
		nullTime(user.RefreshTokenExpiresAt),
		nullString(user.PasswordResetTokenHash),
		nullTime(user.PasswordResetExpiresAt),
		time.Now().UTC(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrUsernameExists
		}
		s.logger.Error("failed to update user",
			"error", err,
			"user_id", user.ID)
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrUserNotFound
	}

	return nil
}

// AdjustTaskCounts implements store.UserStore.AdjustTaskCounts.
// The single UPDATE with counter arithmetic is what makes concurrent task
// mutations on the same user safe without row locks in the service layer.
func (s *PostgresUserStore) AdjustTaskCounts(
	ctx context.Context,
	id uuid.UUID,
	delta domain.CounterDelta,
) error {
	if delta.IsZero() {
		return nil
	}

	query := `
		UPDATE users
		SET pending_count = pending_count + $2,
			completed_count = completed_count + $3,
			overdue_count = overdue_count + $4,
			updated_at = $5
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		id,
		delta.Pending,
		delta.Completed,
		delta.Overdue,
		time.Now().UTC(),
	)
	if err != nil {
		s.logger.Error("failed to adjust task counters",
			"error", err,
			"user_id", id)
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrUserNotFound
	}

	return nil
}

// ListWithTasks implements store.UserStore.ListWithTasks
func (s *PostgresUserStore) ListWithTasks(ctx context.Context) ([]store.UserWithTasks, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var result []store.UserWithTasks
	index := make(map[uuid.UUID]int)

	for rows.Next() {
		user, err := scanUserFromRows(rows)
		if err != nil {
			return nil, err
		}
		index[user.ID] = len(result)
		result = append(result, store.UserWithTasks{User: *user, Tasks: []domain.Task{}})
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	taskQuery := `
		SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY created_at
	`
	taskRows, err := s.db.QueryContext(ctx, taskQuery)
	if err != nil {
		s.logger.Error("failed to list tasks for users", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = taskRows.Close() }()

	for taskRows.Next() {
		task, err := scanTaskFromRows(taskRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[task.UserID]; ok {
			result[i].Tasks = append(result[i].Tasks, *task)
		}
	}
	if err := taskRows.Err(); err != nil {
		return nil, MapError(err)
	}

	return result, nil
}

// scanUser scans a single user row, mapping sql.ErrNoRows to ErrUserNotFound.
func (s *PostgresUserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var (
		user             domain.User
		refreshToken     sql.NullString
		refreshExpiry    sql.NullTime
		resetTokenHash   sql.NullString
		resetTokenExpiry sql.NullTime
	)

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.HashedPassword,
		&user.AvatarURL,
		&user.PhoneNumber,
		&user.Role,
		&user.PendingCount,
		&user.CompletedCount,
		&user.OverdueCount,
		&refreshToken,
		&refreshExpiry,
		&resetTokenHash,
		&resetTokenExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}

	applyNullableUserFields(&user, refreshToken, refreshExpiry, resetTokenHash, resetTokenExpiry)
	return &user, nil
}

// scanUserFromRows scans the current row of a multi-row result set.
func scanUserFromRows(rows *sql.Rows) (*domain.User, error) {
	var (
		user             domain.User
		refreshToken     sql.NullString
		refreshExpiry    sql.NullTime
		resetTokenHash   sql.NullString
		resetTokenExpiry sql.NullTime
	)

	err := rows.Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.HashedPassword,
		&user.AvatarURL,
		&user.PhoneNumber,
		&user.Role,
		&user.PendingCount,
		&user.CompletedCount,
		&user.OverdueCount,
		&refreshToken,
		&refreshExpiry,
		&resetTokenHash,
		&resetTokenExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, MapError(err)
	}

	applyNullableUserFields(&user, refreshToken, refreshExpiry, resetTokenHash, resetTokenExpiry)
	return &user, nil
}

func applyNullableUserFields(
	user *domain.User,
	refreshToken sql.NullString,
	refreshExpiry sql.NullTime,
	resetTokenHash sql.NullString,
	resetTokenExpiry sql.NullTime,
) {
	if refreshToken.Valid {
		user.RefreshToken = refreshToken.String
	}
	if refreshExpiry.Valid {
		t := refreshExpiry.Time.UTC()
		user.RefreshTokenExpiresAt = &t
	}
	if resetTokenHash.Valid {
		user.PasswordResetTokenHash = resetTokenHash.String
	}
	if resetTokenExpiry.Valid {
		t := resetTokenExpiry.Time.UTC()
		user.PasswordResetExpiresAt = &t
	}
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime converts a nil time pointer to a SQL NULL.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
