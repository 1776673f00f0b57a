package schema

import "sync"

var schemaCache sync.Map // typeKey[T]() (a typed nil *T) -> *Schema, one entry per record type

// Basic wraps a user struct T and implements Object by reflecting over its
// `db`-tagged fields. It is the recommended way to declare a record when a
// hand-rolled schema.Object would just repeat what reflection can already
// do; records with unusual serialization needs implement Object directly
// instead.
//
// Usage:
//
//	type User struct {
//		Name     string  `db:"name,string"`
//		Picture  []byte  `db:"picture,bytes"`
//		Visits   int64   `db:"visits,int64"`
//		Balance  float64 `db:"balance,float64"`
//		IsAdmin  bool    `db:"is_admin,bool"`
//	}
//
//	schema.Register[User]("") // table name defaults to "user"
//	obj := &schema.Basic[User]{Value: User{Name: "a"}}
type Basic[T any] struct {
	Value T
}

// Schema returns the memoized Schema for T, building it on first use.
func (b *Basic[T]) Schema() *Schema {
	s, err := schemaFor[T]()
	if err != nil {
		// Build failures are a declaration-time programmer error (a bad
		// struct tag), not a runtime condition callers can recover from.
		panic(err)
	}
	return s
}

func (b *Basic[T]) Serialize() (Row, error) {
	return SerializeReflect(b.Schema(), &b.Value)
}

func (b *Basic[T]) Deserialize(row Row) error {
	return DeserializeReflect(b.Schema(), &b.Value, row)
}

// Register pre-builds and memoizes T's schema under the given table name
// override (pass "" for the default). Call it once, e.g. from an init
// func. It is optional: Basic[T].Schema() builds and memoizes lazily on
// first use with the default table name if Register was never called.
func Register[T any](tableName string) (*Schema, error) {
	s, err := Build[T](tableName)
	if err != nil {
		return nil, err
	}
	schemaCache.Store(typeKey[T](), s)
	return s, nil
}

func schemaFor[T any]() (*Schema, error) {
	key := typeKey[T]()
	if v, ok := schemaCache.Load(key); ok {
		return v.(*Schema), nil
	}
	s, err := Build[T]("")
	if err != nil {
		return nil, err
	}
	schemaCache.Store(key, s)
	return s, nil
}

// typeKey returns a comparable key unique to T, used to memoize schemas
// without requiring a live value of T.
func typeKey[T any]() any {
	var zero *T
	return zero
}

// Registered returns every Schema built so far via Register or a
// Basic[T]'s first Schema() call, in no particular order. Tooling (the
// migrate CLI command) uses this to discover which tables to create
// without the caller enumerating its record types by hand.
func Registered() []*Schema {
	var out []*Schema
	schemaCache.Range(func(_, v any) bool {
		out = append(out, v.(*Schema))
		return true
	})
	return out
}
