package sqlite

import (
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/Darisishe/txorm/txerr"
)

// mapErr translates a driver-level error into the txerr taxonomy:
//
//   - "query returned no rows"            -> txerr.NotFound
//   - "invalid column type"               -> txerr.UnexpectedType
//   - SQLite "database busy"              -> txerr.LockConflict
//   - message contains "no such column:"
//     or "has no column named"            -> txerr.MissingColumn
//   - everything else                     -> txerr.Storage
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(txerr.NotFound, op)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "invalid column type"):
		return errors.Wrapf(txerr.UnexpectedType, "%s: %s", op, err)
	case strings.Contains(msg, "database busy") || strings.Contains(msg, "database is locked") || strings.Contains(msg, "sqlite_busy"):
		return errors.Wrapf(txerr.LockConflict, "%s: %s", op, err)
	case strings.Contains(msg, "no such column:") || strings.Contains(msg, "has no column named"):
		return errors.Wrapf(txerr.MissingColumn, "%s: %s", op, err)
	default:
		return errors.Wrapf(txerr.Storage, "%s: %s", op, err)
	}
}
