package schema

import "reflect"

// Erased is the type-erased view of an Object the cache stores, so a
// single cache instance can hold cells of heterogeneous record types
// without knowing any of them statically. obj is always the concrete
// *T the cache's typed Handle[T] downcasts back to; Type identifies it.
type Erased struct {
	obj    Object
	schema *Schema
}

// NewErased wraps a concrete Object for storage in the cache.
func NewErased(obj Object) *Erased {
	return &Erased{obj: obj, schema: obj.Schema()}
}

// Schema returns the governing schema, as stored at wrap time.
func (e *Erased) Schema() *Schema { return e.schema }

// Type returns the dynamic type identity used as half of the cache key.
func (e *Erased) Type() reflect.Type { return e.schema.Type() }

// Serialize delegates to the wrapped Object.
func (e *Erased) Serialize() (Row, error) { return e.obj.Serialize() }

// Unwrap returns the concrete Object, for downcasting at a typed Handle
// boundary. Callers type-assert the result back to *T; a mismatch is a
// programmer error (the cache never mixes types under one identity) and
// should panic at the call site, not here.
func (e *Erased) Unwrap() Object { return e.obj }
