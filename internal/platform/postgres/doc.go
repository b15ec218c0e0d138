// Package postgres implements the store interfaces on top of PostgreSQL,
// using database/sql with the pgx driver. Store constructors accept a
// store.DBTX so the same implementation runs against a connection pool or
// an open transaction.
package postgres
