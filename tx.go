package txorm

import (
	"context"
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/Darisishe/txorm/cache"
	"github.com/Darisishe/txorm/logger"
	"github.com/Darisishe/txorm/schema"
	"github.com/Darisishe/txorm/storage"
	"github.com/Darisishe/txorm/txerr"
)

// Tx is the single-owner transaction facade: a handle obtained from a
// Connection, holding the storage adapter, the object cache, and
// per-type "table ensured" memoization. It is not safe for concurrent
// use.
type Tx struct {
	conn    *Connection
	storage storage.Transaction
	cache   *cache.Cache
	ensured map[reflect.Type]bool
	done    bool
}

func (t *Tx) checkAlive() {
	if t.done {
		panic("txorm: use of a transaction handle after Commit or Rollback")
	}
}

func (t *Tx) ensureTable(ctx context.Context, s *schema.Schema) error {
	if t.ensured[s.Type()] {
		return nil
	}
	if err := t.storage.EnsureTable(ctx, s); err != nil {
		return err
	}
	t.ensured[s.Type()] = true
	return nil
}

// EnsureTable creates s's table if it does not already exist. Create
// calls this automatically for the object being created; EnsureTable is
// exported for tooling that wants to provision tables up front, such as
// the migrate CLI command, which walks schema.Registered().
func EnsureTable(ctx context.Context, tx *Tx, s *schema.Schema) error {
	tx.checkAlive()
	return tx.ensureTable(ctx, s)
}

// Commit flushes the cache to storage and finalizes the underlying
// transaction: cells in insertion order, Clean skipped, Dirty
// re-serialized and UpdateRow'd unconditionally (a RefMut release cannot
// tell whether the caller actually wrote, so every release is treated as
// a write), Removed DeleteRow'd. Any error aborts the walk; the
// underlying storage transaction is rolled back so no partial effect
// becomes visible, and the Tx is ended either way — a failed commit
// cannot be retried on the same Tx.
func (t *Tx) Commit(ctx context.Context) error {
	t.checkAlive()
	defer t.end()

	for _, cell := range t.cache.Cells() {
		s := cell.Erased().Schema()
		id := cell.Identity().ID
		switch cell.State() {
		case cache.StateClean:
			continue
		case cache.StateDirty:
			row, err := cell.Erased().Serialize()
			if err != nil {
				t.abort(ctx)
				return err
			}
			if err := t.storage.UpdateRow(ctx, s, id, row); err != nil {
				t.abort(ctx)
				return err
			}
			logger.L.Debugw("txorm: commit flushed dirty row", "table", s.TableName, "id", id)
		case cache.StateRemoved:
			if err := t.storage.DeleteRow(ctx, s, id); err != nil {
				t.abort(ctx)
				return err
			}
			logger.L.Debugw("txorm: commit flushed delete", "table", s.TableName, "id", id)
		}
	}

	if err := t.storage.Commit(ctx); err != nil {
		return errors.Wrap(err, "txorm: commit")
	}
	logger.L.Debugw("txorm: transaction committed", "cells", t.cache.Len())
	return nil
}

// abort is the best-effort rollback Commit performs when a mid-walk flush
// fails, so the backend connection is released rather than left holding
// locks.
func (t *Tx) abort(ctx context.Context) {
	_ = t.storage.Rollback(ctx)
}

// Rollback drops all cells without flushing and discards the underlying
// transaction's changes.
func (t *Tx) Rollback(ctx context.Context) error {
	t.checkAlive()
	defer t.end()
	if err := t.storage.Rollback(ctx); err != nil {
		return errors.Wrap(err, "txorm: rollback")
	}
	logger.L.Debugw("txorm: transaction rolled back", "cells", t.cache.Len())
	return nil
}

func (t *Tx) end() {
	t.done = true
	t.conn.release()
}

// Create serializes obj, inserts it through the storage adapter, and
// registers a Dirty cell for it in the cache. Failure at EnsureTable or
// InsertRow propagates unchanged; the cache is left unmodified.
func Create[T schema.Object](ctx context.Context, tx *Tx, obj T) (*Handle[T], error) {
	tx.checkAlive()

	s := obj.Schema()
	if err := tx.ensureTable(ctx, s); err != nil {
		return nil, err
	}
	row, err := obj.Serialize()
	if err != nil {
		return nil, err
	}
	id, err := tx.storage.InsertRow(ctx, s, row)
	if err != nil {
		return nil, err
	}

	identity := cache.Identity{Type: s.Type(), ID: id}
	cell := tx.cache.Insert(identity, schema.NewErased(obj), cache.StateDirty)
	logger.L.Debugw("txorm: created", "table", s.TableName, "id", id)
	return &Handle[T]{tx: tx, inner: cache.NewHandle[T](cell)}, nil
}

// Get returns a handle to the object of type T with the given id. A live
// cache hit returns a fresh, aliased handle to the same cell, so two
// Gets of the same id observe the same underlying object. A Removed
// cell, or an id absent from storage, returns txerr.NotFound.
func Get[T schema.Object](ctx context.Context, tx *Tx, id int64) (*Handle[T], error) {
	tx.checkAlive()

	fresh := newZero[T]()
	s := fresh.Schema()
	identity := cache.Identity{Type: s.Type(), ID: id}

	if cell, ok := tx.cache.Lookup(identity); ok {
		if cell.State() == cache.StateRemoved {
			return nil, errors.Wrapf(txerr.NotFound, "get %s id=%d", s.TableName, id)
		}
		return &Handle[T]{tx: tx, inner: cache.NewHandle[T](cell)}, nil
	}

	row, err := tx.storage.SelectRow(ctx, s, id)
	if err != nil {
		return nil, err
	}
	if err := fresh.Deserialize(row); err != nil {
		return nil, err
	}

	cell := tx.cache.Insert(identity, schema.NewErased(fresh), cache.StateClean)
	logger.L.Debugw("txorm: loaded", "table", s.TableName, "id", id)
	return &Handle[T]{tx: tx, inner: cache.NewHandle[T](cell)}, nil
}

// newZero constructs a fresh, addressable T (T is a pointer type
// implementing schema.Object) so its Schema can be inspected and, on a
// cache miss, so it can be the Deserialize target.
func newZero[T schema.Object]() T {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ == nil || typ.Kind() != reflect.Ptr {
		panic("txorm: T must be a concrete pointer type implementing schema.Object")
	}
	return reflect.New(typ.Elem()).Interface().(T)
}
