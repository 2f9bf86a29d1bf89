// Package repositories defines the document store contract shared by the
// bbolt, MongoDB and PostgreSQL backends.
package repositories

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// TxFunc is run by WithinTransaction against a store bound to the transaction.
type TxFunc func(ctx context.Context, store Store) error

// Store groups the repositories of one backend.
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	Comments() CommentRepository
	Notifications() NotificationRepository

	// WithinTransaction runs fn as one atomic unit. Every repository obtained
	// from the store passed to fn joins the transaction. fn may be invoked
	// more than once when the backend retries transient conflicts.
	WithinTransaction(ctx context.Context, fn TxFunc) error

	// Migrate creates the buckets, tables or indexes the backend relies on.
	Migrate(ctx context.Context) error

	Close(ctx context.Context) error
}
