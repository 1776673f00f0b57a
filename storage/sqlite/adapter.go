// Package sqlite is the concrete storage.Transaction implementation for
// the one first-party backend this repo ships: SQLite, driven directly
// through database/sql rather than through an ORM, since the adapter
// needs raw, column-named row operations that a struct-scanning ORM
// layer would only get in the way of.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	// Pure-Go SQLite driver: no cgo, registers itself under "sqlite".
	_ "modernc.org/sqlite"

	"github.com/Darisishe/txorm/schema"
	"github.com/Darisishe/txorm/txerr"
	"github.com/Darisishe/txorm/value"
)

// Dial opens a *sql.DB against the SQLite file at path (or ":memory:"/
// "file::memory:?cache=shared" for an in-memory database) with the
// default 5 second busy timeout. See DialTimeout to override it.
func Dial(path string) (*sql.DB, error) {
	return DialTimeout(path, 5000)
}

// DialTimeout is Dial with an explicit busy timeout in milliseconds,
// wiring a set of performance pragmas through the DSN query string: WAL
// journaling, a busy timeout so lock contention surfaces as
// txerr.LockConflict rather than hanging, and a single connection, since
// SQLite serializes writes per file anyway.
func DialTimeout(path string, busyTimeoutMS int) (*sql.DB, error) {
	dsn := buildDSN(path, busyTimeoutMS)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite: open")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

func buildDSN(path string, busyTimeoutMS int) string {
	if path == "" || path == ":memory:" {
		return "file::memory:?cache=shared"
	}
	if busyTimeoutMS <= 0 {
		busyTimeoutMS = 5000
	}
	params := []string{
		"_pragma=journal_mode(WAL)",
		fmt.Sprintf("_pragma=busy_timeout(%d)", busyTimeoutMS),
		"_pragma=synchronous(NORMAL)",
		"_pragma=foreign_keys(on)",
	}
	return path + "?" + strings.Join(params, "&")
}

// Adapter implements storage.Transaction over a single *sql.Tx. It is not
// safe for concurrent use, matching the single-threaded contract of
// storage.Transaction.
type Adapter struct {
	tx *sql.Tx
}

// New wraps an already-begun *sql.Tx as a storage.Transaction.
func New(tx *sql.Tx) *Adapter { return &Adapter{tx: tx} }

// EnsureTable idempotently creates s's table with an autoincrement "id"
// primary key plus one column per schema field, typed by kind.
func (a *Adapter) EnsureTable(ctx context.Context, s *schema.Schema) error {
	var b strings.Builder
	fmt.Fprintf(&b, `CREATE TABLE IF NOT EXISTS %s (`, quoteIdent(s.TableName))
	b.WriteString(`"id" INTEGER PRIMARY KEY AUTOINCREMENT`)
	for _, f := range s.Fields {
		fmt.Fprintf(&b, `, %s %s`, quoteIdent(f.ColumnName), sqlType(f.Kind))
	}
	b.WriteString(`)`)

	if _, err := a.tx.ExecContext(ctx, b.String()); err != nil {
		return mapErr("ensure_table", err)
	}
	return nil
}

// InsertRow inserts row's values in schema field order and returns the
// generated id.
func (a *Adapter) InsertRow(ctx context.Context, s *schema.Schema, row schema.Row) (int64, error) {
	cols := make([]string, 0, len(s.Fields))
	placeholders := make([]string, 0, len(s.Fields))
	args := make([]any, 0, len(s.Fields))
	for _, f := range s.Fields {
		v, ok := row[f.ColumnName]
		if !ok {
			return 0, errors.Wrapf(txerr.MissingColumn, "column %q", f.ColumnName)
		}
		cols = append(cols, quoteIdent(f.ColumnName))
		placeholders = append(placeholders, "?")
		args = append(args, v.Any())
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteIdent(s.TableName), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	res, err := a.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapErr("insert_row", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mapErr("insert_row", err)
	}
	return id, nil
}

// SelectRow fetches the columns for id, keyed by column name.
func (a *Adapter) SelectRow(ctx context.Context, s *schema.Schema, id int64) (schema.Row, error) {
	cols := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		cols = append(cols, quoteIdent(f.ColumnName))
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE "id" = ?`, strings.Join(cols, ", "), quoteIdent(s.TableName))

	scanDst := make([]any, len(s.Fields))
	raw := make([][]byte, len(s.Fields))
	rawInt := make([]int64, len(s.Fields))
	rawFloat := make([]float64, len(s.Fields))
	rawBool := make([]bool, len(s.Fields))
	for i, f := range s.Fields {
		switch f.Kind {
		case value.KindString, value.KindBytes:
			scanDst[i] = &raw[i]
		case value.KindInt64:
			scanDst[i] = &rawInt[i]
		case value.KindFloat64:
			scanDst[i] = &rawFloat[i]
		case value.KindBool:
			scanDst[i] = &rawBool[i]
		}
	}

	row := a.tx.QueryRowContext(ctx, query, id)
	if err := row.Scan(scanDst...); err != nil {
		return nil, mapErr("select_row", err)
	}

	out := make(schema.Row, len(s.Fields))
	for i, f := range s.Fields {
		switch f.Kind {
		case value.KindString:
			out[f.ColumnName] = value.String(string(raw[i]))
		case value.KindBytes:
			out[f.ColumnName] = value.Bytes(raw[i])
		case value.KindInt64:
			out[f.ColumnName] = value.Int64(rawInt[i])
		case value.KindFloat64:
			out[f.ColumnName] = value.Float64(rawFloat[i])
		case value.KindBool:
			out[f.ColumnName] = value.Bool(rawBool[i])
		}
	}
	return out, nil
}

// UpdateRow overwrites the row at id with row's values.
func (a *Adapter) UpdateRow(ctx context.Context, s *schema.Schema, id int64, row schema.Row) error {
	sets := make([]string, 0, len(s.Fields))
	args := make([]any, 0, len(s.Fields)+1)
	for _, f := range s.Fields {
		v, ok := row[f.ColumnName]
		if !ok {
			return errors.Wrapf(txerr.MissingColumn, "column %q", f.ColumnName)
		}
		sets = append(sets, fmt.Sprintf(`%s = ?`, quoteIdent(f.ColumnName)))
		args = append(args, v.Any())
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE "id" = ?`, quoteIdent(s.TableName), strings.Join(sets, ", "))
	res, err := a.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr("update_row", err)
	}
	return checkAffected("update_row", res)
}

// DeleteRow removes the row at id.
func (a *Adapter) DeleteRow(ctx context.Context, s *schema.Schema, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE "id" = ?`, quoteIdent(s.TableName))
	res, err := a.tx.ExecContext(ctx, query, id)
	if err != nil {
		return mapErr("delete_row", err)
	}
	return checkAffected("delete_row", res)
}

// Commit finalizes the underlying transaction.
func (a *Adapter) Commit(ctx context.Context) error {
	if err := a.tx.Commit(); err != nil {
		return mapErr("commit", err)
	}
	return nil
}

// Rollback discards the underlying transaction's changes.
func (a *Adapter) Rollback(ctx context.Context) error {
	if err := a.tx.Rollback(); err != nil {
		return mapErr("rollback", err)
	}
	return nil
}

func checkAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapErr(op, err)
	}
	if n == 0 {
		return errors.Wrap(txerr.NotFound, op)
	}
	return nil
}

func sqlType(k value.Kind) string {
	switch k {
	case value.KindString:
		return "TEXT"
	case value.KindBytes:
		return "BLOB"
	case value.KindInt64:
		return "INTEGER"
	case value.KindFloat64:
		return "REAL"
	case value.KindBool:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// quoteIdent applies standard SQL double-quote identifier quoting,
// doubling any embedded quote per the SQL standard's escape rule.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
