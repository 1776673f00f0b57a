// Package cache implements the transaction-scoped object identity map.
// It guarantees that, within one transaction, at most one live Cell
// exists per (type, id) identity, and it enforces the dynamic
// shared/exclusive borrow discipline that lets a single cache hold
// heterogeneous, type-erased record kinds while still giving callers a
// typed, aliased, checked-at-runtime view onto the live object.
//
// Cache is not safe for concurrent use. A transaction, its Cache, its
// storage.Transaction, and all Handles into it form a single-threaded
// island; nothing here synchronizes against other goroutines.
package cache

import (
	"reflect"

	"github.com/Darisishe/txorm/schema"
)

// State is a Cell's lifecycle state.
type State int

const (
	// StateClean means the cell was loaded from storage and has not
	// been mutated since.
	StateClean State = iota
	// StateDirty means the cell was freshly created, or has been
	// mutated via RefMut, since the last commit.
	StateDirty
	// StateRemoved means the cell has been deleted; no handle may
	// observe its object again.
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "Clean"
	case StateDirty:
		return "Dirty"
	case StateRemoved:
		return "Removed"
	default:
		return "Unknown"
	}
}

// Identity is the (type, id) pair that keys the cache. The dynamic type
// identity (not a string type name) is used so two distinct record types
// may coexist with overlapping id ranges.
type Identity struct {
	Type reflect.Type
	ID   int64
}

// Cell is the per-identity record at the heart of the cache: the live,
// type-erased object, its lifecycle state, and its borrow counter.
type Cell struct {
	identity Identity
	obj      *schema.Erased
	state    State
	shared   int
	excl     bool
}

// State returns the cell's current lifecycle state.
func (c *Cell) State() State { return c.state }

// Identity returns the (type, id) this cell is keyed under.
func (c *Cell) Identity() Identity { return c.identity }

// Erased returns the cell's type-erased object, for the transaction
// facade's commit walk (serialize) and schema lookups. Ordinary callers
// go through a Handle's Ref/RefMut instead, which additionally enforce
// the borrow discipline.
func (c *Cell) Erased() *schema.Erased { return c.obj }

// acquireShared enforces: cell must not be Removed; counter must not be
// Exclusive. Violations panic — they are programmer errors, not
// recoverable conditions.
func (c *Cell) acquireShared() {
	if c.state == StateRemoved {
		panic("txorm: borrow of a deleted object")
	}
	if c.excl {
		panic("txorm: shared borrow while an exclusive borrow is outstanding")
	}
	c.shared++
}

func (c *Cell) releaseShared() {
	c.shared--
}

// acquireExclusive enforces: cell must not be Removed; counter must be
// Idle (no outstanding shared or exclusive borrow).
func (c *Cell) acquireExclusive() {
	if c.state == StateRemoved {
		panic("txorm: mutable borrow of a deleted object")
	}
	if c.excl {
		panic("txorm: mutable borrow while another mutable borrow is outstanding")
	}
	if c.shared > 0 {
		panic("txorm: mutable borrow while a shared borrow is outstanding")
	}
	c.excl = true
}

// releaseExclusive returns the counter to Idle and marks the cell Dirty
// unconditionally: a RefMut view cannot observe whether the caller
// actually wrote through it, so every release is treated as a write. A
// spurious re-flush at commit is the accepted cost.
func (c *Cell) releaseExclusive() {
	c.excl = false
	if c.state != StateRemoved {
		c.state = StateDirty
	}
}

// markRemoved enforces: counter must be Idle; a cell already Removed
// panics (double delete).
func (c *Cell) markRemoved() {
	if c.state == StateRemoved {
		panic("txorm: delete of an already-deleted object")
	}
	if c.excl {
		panic("txorm: delete while a mutable borrow is outstanding")
	}
	if c.shared > 0 {
		panic("txorm: delete while a shared borrow is outstanding")
	}
	c.state = StateRemoved
}

// Cache is the per-transaction identity map.
type Cache struct {
	cells map[Identity]*Cell
	order []Identity // insertion order, the observable flush order at commit
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{cells: make(map[Identity]*Cell)}
}

// Lookup returns the live cell for id, if any. Callers distinguish "no
// cell" (miss, fetch from storage) from "cell is Removed" (return
// txerr.NotFound) by checking the returned Cell's State.
func (c *Cache) Lookup(id Identity) (*Cell, bool) {
	cell, ok := c.cells[id]
	return cell, ok
}

// Insert registers a freshly built cell under id with the given initial
// state (StateDirty after create, StateClean after a storage fetch) and
// returns it. Insert must only be called once per id within a
// transaction's lifetime; the one-cell-per-identity invariant is the
// caller's contract, not re-checked here, since Cache.Lookup is always
// consulted first by the transaction facade.
func (c *Cache) Insert(id Identity, obj *schema.Erased, state State) *Cell {
	cell := &Cell{identity: id, obj: obj, state: state}
	c.cells[id] = cell
	c.order = append(c.order, id)
	return cell
}

// Cells returns every cell in insertion order, the order Commit flushes
// them in.
func (c *Cache) Cells() []*Cell {
	out := make([]*Cell, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.cells[id])
	}
	return out
}

// Len reports how many cells the cache currently holds, live or removed.
func (c *Cache) Len() int { return len(c.cells) }
