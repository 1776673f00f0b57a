package txorm

import (
	"github.com/Darisishe/txorm/cache"
	"github.com/Darisishe/txorm/schema"
)

// Handle is a typed reference to a cached object, valid for the lifetime
// of the Tx that produced it. Calling any method after the owning Tx has
// committed or rolled back panics, since the underlying cache and
// storage.Transaction no longer exist.
type Handle[T schema.Object] struct {
	tx    *Tx
	inner *cache.Handle[T]
}

// ID returns the object's identity within its table.
func (h *Handle[T]) ID() int64 {
	h.tx.checkAlive()
	return h.inner.ID()
}

// Ref takes a shared, read-oriented borrow of the live object. Release it
// with Close. Panics if the object has been deleted or an exclusive
// borrow is outstanding, or if the owning Tx is no longer alive.
func (h *Handle[T]) Ref() cache.Ref[T] {
	h.tx.checkAlive()
	return h.inner.Ref()
}

// RefMut takes an exclusive, write-oriented borrow of the live object.
// Release it with Close; Close unconditionally marks the object Dirty.
// Panics if the object has been deleted or any borrow is outstanding, or
// if the owning Tx is no longer alive.
func (h *Handle[T]) RefMut() cache.RefMut[T] {
	h.tx.checkAlive()
	return h.inner.RefMut()
}

// Delete marks the object Removed. Panics if any borrow is outstanding,
// the object was already deleted, or the owning Tx is no longer alive.
func (h *Handle[T]) Delete() {
	h.tx.checkAlive()
	h.inner.Delete()
}
