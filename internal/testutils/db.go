// Package testutils provides common utilities for testing across the
// application. It centralizes repeated test setup and teardown logic to
// avoid duplication and standardize testing practices.
package testutils

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"
)

// IsIntegrationTestEnvironment returns true if the environment is
// configured for running integration tests with a database connection.
// Integration tests should check this and skip if not in an integration
// test environment.
func IsIntegrationTestEnvironment() bool {
	return os.Getenv("DATABASE_URL") != ""
}

// GetTestDB opens a connection to the integration test database, skipping
// the test when DATABASE_URL is not set. The connection is closed when the
// test finishes.
func GetTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test - DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, db.PingContext(context.Background()), "failed to ping test database")

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so
// integration tests leave no state behind.
func WithTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin test transaction")
	defer func() {
		_ = tx.Rollback()
	}()

	fn(tx)
}
