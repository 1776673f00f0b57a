// Package txerr is the five-variant error taxonomy shared by every layer
// of txorm: schema serialization, the storage adapter interface, its
// SQLite implementation, the object cache, and the transaction facade.
//
// Callers compare against the exported sentinels with errors.Is; wrapping
// is done with github.com/cockroachdb/errors so context (the offending
// column, id, SQL) can be attached without losing the underlying kind.
package txerr

import "github.com/cockroachdb/errors"

// The five exhaustive error kinds.
var (
	// NotFound is returned for a lookup of a nonexistent or removed object.
	NotFound = errors.New("txorm: not found")
	// UnexpectedType is returned when a column's stored value does not
	// match the schema's declared kind for that column.
	UnexpectedType = errors.New("txorm: unexpected type")
	// MissingColumn is returned when a schema-declared column is absent
	// from a stored row.
	MissingColumn = errors.New("txorm: missing column")
	// LockConflict is returned when the backend reports contention, e.g.
	// "database is locked"/"database busy".
	LockConflict = errors.New("txorm: lock conflict")
	// Storage wraps any other backend failure; the detail is carried via
	// errors.Wrap, not as a distinct sentinel.
	Storage = errors.New("txorm: storage error")
)

// Is reports whether err ultimately wraps the given sentinel kind.
func Is(err, kind error) bool { return errors.Is(err, kind) }

// Wrap attaches msg as context to err while preserving Is-comparability
// against whichever sentinel kind err wraps.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}

// Wrapf is Wrap with fmt-style formatting.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}
