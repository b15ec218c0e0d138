package postgres_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DusanM998/ToDoApplication/internal/domain"
	"github.com/DusanM998/ToDoApplication/internal/platform/postgres"
	"github.com/DusanM998/ToDoApplication/internal/store"
	"github.com/DusanM998/ToDoApplication/internal/testutils"
)

func TestPostgresUserStoreCreate(t *testing.T) {
	db := testutils.GetTestDB(t)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		testutils.WithTx(t, db, func(tx *sql.Tx) {
			users := postgres.NewPostgresUserStore(tx, testLogger())
			user := createTestUser(t, tx)

			byID, err := users.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, user.Username, byID.Username)
			assert.Equal(t, user.HashedPassword, byID.HashedPassword)
			assert.Zero(t, byID.PendingCount)

			// Lookup ignores the stored casing.
			byName, err := users.GetByUsername(ctx, strings.ToUpper(user.Username))
			require.NoError(t, err)
			assert.Equal(t, user.ID, byName.ID)
		})
	})

	t.Run("duplicate username is rejected case-insensitively", func(t *testing.T) {
		testutils.WithTx(t, db, func(tx *sql.Tx) {
			users := postgres.NewPostgresUserStore(tx, testLogger())
			user := createTestUser(t, tx)

			dup, err := domain.NewUser(
				strings.ToUpper(user.Username),
				"Duplicate",
				"password123",
				"",
				domain.RoleCustomer,
			)
			require.NoError(t, err)
			dup.HashedPassword = user.HashedPassword
			dup.Password = ""

			assert.ErrorIs(t, users.Create(ctx, dup), store.ErrUsernameExists)
		})
	})
}

func TestPostgresUserStoreUpdate(t *testing.T) {
	db := testutils.GetTestDB(t)
	ctx := context.Background()

	t.Run("persists profile changes", func(t *testing.T) {
		testutils.WithTx(t, db, func(tx *sql.Tx) {
			users := postgres.NewPostgresUserStore(tx, testLogger())
			user := createTestUser(t, tx)

			user.Username = uuid.NewString() + "@example.com"
			user.Name = "Renamed"
			user.PhoneNumber = "555-0123"
			require.NoError(t, users.Update(ctx, user))

			got, err := users.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, user.Username, got.Username)
			assert.Equal(t, "Renamed", got.Name)
			assert.Equal(t, "555-0123", got.PhoneNumber)
		})
	})

	t.Run("taking another user's username is rejected", func(t *testing.T) {
		testutils.WithTx(t, db, func(tx *sql.Tx) {
			users := postgres.NewPostgresUserStore(tx, testLogger())
			first := createTestUser(t, tx)
			second := createTestUser(t, tx)

			second.Username = strings.ToUpper(first.Username)
			assert.ErrorIs(t, users.Update(ctx, second), store.ErrUsernameExists)
		})
	})

	t.Run("unknown user", func(t *testing.T) {
		testutils.WithTx(t, db, func(tx *sql.Tx) {
			users := postgres.NewPostgresUserStore(tx, testLogger())
			user := createTestUser(t, tx)
			user.ID = uuid.New()

			assert.ErrorIs(t, users.Update(ctx, user), store.ErrUserNotFound)
		})
	})
}

func TestPostgresUserStoreAdjustTaskCounts(t *testing.T) {
	db := testutils.GetTestDB(t)
	ctx := context.Background()

	t.Run("deltas accumulate", func(t *testing.T) {
		testutils.WithTx(t, db, func(tx *sql.Tx) {
			users := postgres.NewPostgresUserStore(tx, testLogger())
			user := createTestUser(t, tx)

			require.NoError(t, users.AdjustTaskCounts(ctx, user.ID,
				domain.CounterDelta{Pending: 2}))
			require.NoError(t, users.AdjustTaskCounts(ctx, user.ID,
				domain.CounterDelta{Pending: -1, Completed: 1}))
			require.NoError(t, users.AdjustTaskCounts(ctx, user.ID,
				domain.CounterDelta{Overdue: 1, Pending: -1}))

			got, err := users.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, 0, got.PendingCount)
			assert.Equal(t, 1, got.CompletedCount)
			assert.Equal(t, 1, got.OverdueCount)
		})
	})

	t.Run("zero delta touches nothing", func(t *testing.T) {
		testutils.WithTx(t, db, func(tx *sql.Tx) {
			users := postgres.NewPostgresUserStore(tx, testLogger())
			user := createTestUser(t, tx)

			require.NoError(t, users.AdjustTaskCounts(ctx, user.ID, domain.CounterDelta{}))

			got, err := users.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Zero(t, got.PendingCount)
			assert.Zero(t, got.CompletedCount)
			assert.Zero(t, got.OverdueCount)
		})
	})

	t.Run("unknown user", func(t *testing.T) {
		testutils.WithTx(t, db, func(tx *sql.Tx) {
			users := postgres.NewPostgresUserStore(tx, testLogger())

			err := users.AdjustTaskCounts(ctx, uuid.New(), domain.CounterDelta{Pending: 1})
			assert.ErrorIs(t, err, store.ErrUserNotFound)
		})
	})
}

func TestPostgresUserStoreGetByRefreshToken(t *testing.T) {
	db := testutils.GetTestDB(t)
	ctx := context.Background()

	testutils.WithTx(t, db, func(tx *sql.Tx) {
		users := postgres.NewPostgresUserStore(tx, testLogger())
		user := createTestUser(t, tx)

		expiry := time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)
		user.RefreshToken = "opaque-refresh-token-" + uuid.NewString()
		user.RefreshTokenExpiresAt = &expiry
		require.NoError(t, users.Update(ctx, user))

		got, err := users.GetByRefreshToken(ctx, user.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		require.NotNil(t, got.RefreshTokenExpiresAt)
		assert.True(t, got.RefreshTokenExpiresAt.Equal(expiry))

		_, err = users.GetByRefreshToken(ctx, "no-such-token")
		assert.ErrorIs(t, err, store.ErrRefreshTokenNotFound)
	})
}
