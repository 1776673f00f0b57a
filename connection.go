// Package txorm is a transaction-scoped object-relational mapping layer:
// declare a record type once (schema.Object), open a Connection, begin a
// Tx against it, and Create/Get/Ref/RefMut/Delete instances of that type
// as native Go values until Commit or Rollback.
package txorm

import (
	"context"
	"database/sql"
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/Darisishe/txorm/cache"
	"github.com/Darisishe/txorm/logger"
	"github.com/Darisishe/txorm/storage/sqlite"
)

// Connection owns a backing SQLite database file and produces at most one
// live Tx at a time. It outlives every Tx begun from it.
type Connection struct {
	db *sql.DB

	mu     sync.Mutex
	active bool
}

// Option configures a Connection at Open time.
type Option func(*openConfig)

type openConfig struct {
	busyTimeoutMS int
}

// WithBusyTimeout overrides the default 5 second SQLite busy timeout used
// while waiting out lock contention before the driver reports
// txerr.LockConflict.
func WithBusyTimeout(ms int) Option {
	return func(c *openConfig) { c.busyTimeoutMS = ms }
}

// Open opens a Connection backed by the SQLite file at path (or
// ":memory:" for an in-memory database). ":memory:" is opened in SQLite's
// shared-cache mode, so every Connection opened on it in one process sees
// the same database.
func Open(path string, opts ...Option) (*Connection, error) {
	cfg := openConfig{busyTimeoutMS: 5000}
	for _, opt := range opts {
		opt(&cfg)
	}
	db, err := sqlite.DialTimeout(path, cfg.busyTimeoutMS)
	if err != nil {
		return nil, err
	}
	logger.L.Debugw("txorm: connection opened", "path", path)
	return &Connection{db: db}, nil
}

// Close closes the underlying database. It panics if a transaction is
// still open, mirroring the rest of this package's "misuse is a
// programmer error" posture.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		panic("txorm: Close called with a transaction still open")
	}
	return c.db.Close()
}

// Begin starts a new transaction. Panics if this Connection already has
// one open: two transactions on one connection are not permitted to
// overlap, and misuse of the library's single-owner contracts is a
// programmer error, not a recoverable one.
func (c *Connection) Begin(ctx context.Context) (*Tx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		panic("txorm: Begin called while a transaction is already open on this connection")
	}

	sqlTx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "txorm: begin")
	}
	c.active = true
	logger.L.Debugw("txorm: transaction begun")
	return &Tx{
		conn:    c,
		storage: sqlite.New(sqlTx),
		cache:   cache.New(),
		ensured: make(map[reflect.Type]bool),
	}, nil
}

func (c *Connection) release() {
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
}
