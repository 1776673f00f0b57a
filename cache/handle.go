package cache

import "github.com/Darisishe/txorm/schema"

// Handle is a lightweight, typed reference into a Cell. Multiple Handles
// may alias the same Cell (that is how two Get calls of the same id
// observe a coherently-mutable shared object): each Handle created by a
// transaction's Get/Create is a separate value, but they all point at the
// one Cell the cache holds for that identity.
//
// A Handle is only valid for the lifetime of the transaction that
// produced it; the txorm package enforces that bound, not this package.
type Handle[T schema.Object] struct {
	cell *Cell
}

// NewHandle wraps cell as a typed Handle. Callers (the txorm package) are
// responsible for having stored a T inside cell's schema.Erased.
func NewHandle[T schema.Object](cell *Cell) *Handle[T] {
	return &Handle[T]{cell: cell}
}

// ID returns the identity's id half.
func (h *Handle[T]) ID() int64 { return h.cell.identity.ID }

// Cell exposes the underlying cell, for the txorm package's commit walk
// and NotFound checks; ordinary callers use Ref/RefMut/Delete instead.
func (h *Handle[T]) Cell() *Cell { return h.cell }

func (h *Handle[T]) downcast() T {
	obj, ok := h.cell.obj.Unwrap().(T)
	if !ok {
		// The cache never mixes record types under one identity
		// (Identity.Type is part of the key); reaching here means a
		// caller built a Handle[T] for the wrong T by hand.
		panic("txorm: handle type does not match the cached object's type")
	}
	return obj
}

// Ref is a shared, read-oriented view onto a Handle's live object.
// Release it by calling Close once done; failing to Close leaks the
// shared-borrow count for the remainder of the transaction, causing a
// later RefMut on any handle to the same identity to panic.
type Ref[T schema.Object] struct {
	cell *Cell
	obj  T
}

// Get returns the live object. It remains valid until Close.
func (r Ref[T]) Get() T { return r.obj }

// Close releases the shared borrow.
func (r Ref[T]) Close() { r.cell.releaseShared() }

// Ref takes a shared borrow. Panics if the cell has been deleted or an
// exclusive borrow is outstanding.
func (h *Handle[T]) Ref() Ref[T] {
	h.cell.acquireShared()
	return Ref[T]{cell: h.cell, obj: h.downcast()}
}

// RefMut is an exclusive, write-oriented view onto a Handle's live
// object. Release it by calling Close once done; Close unconditionally
// marks the cell Dirty, since there is no way to tell whether the caller
// actually wrote through it.
type RefMut[T schema.Object] struct {
	cell *Cell
	obj  T
}

// Get returns the live object. It remains valid until Close.
func (r RefMut[T]) Get() T { return r.obj }

// Close releases the exclusive borrow and marks the cell Dirty.
func (r RefMut[T]) Close() { r.cell.releaseExclusive() }

// RefMut takes an exclusive borrow. Panics if the cell has been deleted
// or any borrow (shared or exclusive) is outstanding.
func (h *Handle[T]) RefMut() RefMut[T] {
	h.cell.acquireExclusive()
	return RefMut[T]{cell: h.cell, obj: h.downcast()}
}

// Delete marks the cell Removed. Panics if any borrow is outstanding or
// the cell is already Removed.
func (h *Handle[T]) Delete() {
	h.cell.markRemoved()
}
