// Package schema describes the shape of a user record: its table, its
// ordered columns, and the total serialize/deserialize pair that moves a
// Go value to and from a value.Row. Schemas are built once per record type
// and shared by pointer thereafter, registering a type's table layout
// once rather than re-deriving it on every use.
package schema

import (
	"reflect"

	"github.com/Darisishe/txorm/value"
)

// Field describes one column of a Schema: the Go struct field it comes
// from, the column name it is stored under, and the value kind it carries.
type Field struct {
	FieldName  string
	ColumnName string
	Kind       value.Kind
}

// Schema is the immutable, per-record-type descriptor of a table's shape.
// Field order is the canonical serialization order. Two schemas are
// interchangeable only if TableName and the ordered (ColumnName, Kind)
// sequence agree.
type Schema struct {
	TypeName  string
	TableName string
	Fields    []Field

	// typ is the reflect.Type of the declaring record (pointer-to-struct
	// element type), used as the cache's dynamic type identity.
	typ reflect.Type
}

// Type returns the reflect.Type this schema was built for. Used by the
// cache as the type half of an object identity.
func (s *Schema) Type() reflect.Type { return s.typ }

// Row holds one Value per column of a Schema, keyed by column name. A map
// has no order of its own; the canonical column order is Schema.Fields.
type Row map[string]value.Value

// Object is the capability contract a user record must satisfy to
// participate in a transaction. Serialize must not fail for a
// well-formed object. Deserialize must fail with txerr.MissingColumn or
// txerr.UnexpectedType, never any other kind.
type Object interface {
	// Schema returns this record type's immutable descriptor.
	Schema() *Schema
	// Serialize produces a Row holding one Value per schema field from
	// the receiver.
	Serialize() (Row, error)
	// Deserialize populates the receiver from a column-named Row.
	Deserialize(Row) error
}

// New builds a Schema from explicit parts. Use this for hand-rolled
// schema.Object implementations; use Build for struct-tag derivation. T is
// the record's own declared struct type (not a pointer), used as the
// dynamic type identity half of the cache's (Schema, id) key — it must be
// supplied even for a hand-rolled schema so two distinct record types
// never collide under the same identity.
func New[T any](typeName, tableName string, fields []Field) *Schema {
	var zero T
	return &Schema{TypeName: typeName, TableName: tableName, Fields: fields, typ: reflect.TypeOf(zero)}
}
