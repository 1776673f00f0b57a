// Package storage defines the backend-agnostic, transactionally-scoped row
// operations a concrete SQL dialect adapter must implement. It is the only
// extension point in txorm: new backends implement Transaction and the
// error-mapping rules of txerr.
package storage

import (
	"context"

	"github.com/Darisishe/txorm/schema"
)

// Transaction is the storage adapter interface. An implementation is
// single-threaded with respect to its owning transaction: txorm never
// calls it concurrently, and it must not be shared across transactions.
type Transaction interface {
	// EnsureTable idempotently creates a table with the schema's columns
	// plus an autoincrement integer primary key "id".
	EnsureTable(ctx context.Context, s *schema.Schema) error

	// InsertRow inserts row's values and returns the generated id.
	InsertRow(ctx context.Context, s *schema.Schema, row schema.Row) (int64, error)

	// SelectRow fetches the columns for the given id, keyed by column
	// name. Returns txerr.NotFound if no such row exists.
	SelectRow(ctx context.Context, s *schema.Schema, id int64) (schema.Row, error)

	// UpdateRow overwrites the row at id with row's values. Returns
	// txerr.NotFound if no such row exists.
	UpdateRow(ctx context.Context, s *schema.Schema, id int64, row schema.Row) error

	// DeleteRow removes the row at id. Returns txerr.NotFound if no such
	// row exists.
	DeleteRow(ctx context.Context, s *schema.Schema, id int64) error

	// Commit finalizes the underlying transaction.
	Commit(ctx context.Context) error

	// Rollback discards the underlying transaction's changes.
	Rollback(ctx context.Context) error
}
