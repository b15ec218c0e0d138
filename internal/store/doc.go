// Package store defines the persistence interfaces of the application:
// task and user stores, their shared error taxonomy, and the transaction
// helper that gives services a single commit boundary.
package store
