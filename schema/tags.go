package schema

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/Darisishe/txorm/value"
)

// tag is the struct tag key read by Build: `db:"column_name,kind"`.
// kind is one of string|bytes|int64|float64|bool, case-insensitive.
const tag = "db"

var kindNames = map[string]value.Kind{
	"string":  value.KindString,
	"bytes":   value.KindBytes,
	"int64":   value.KindInt64,
	"float64": value.KindFloat64,
	"bool":    value.KindBool,
}

// Build reflects over T's exported, `db`-tagged fields and derives a
// Schema from them. Field order follows struct declaration order. T must
// be a struct type (not a pointer). This is the repo's one minimal,
// built-in schema-derivation mechanism; callers needing a different one
// implement schema.Object by hand.
//
// tableName overrides the default table name (the type's own name,
// lowercased); pass "" to use the default.
func Build[T any](tableName string) (*Schema, error) {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, errors.Newf("schema: Build requires a struct type, got %T", zero)
	}

	if tableName == "" {
		tableName = strings.ToLower(typ.Name())
	}

	fields := make([]Field, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		raw, ok := sf.Tag.Lookup(tag)
		if !ok || raw == "-" {
			continue
		}
		parts := strings.SplitN(raw, ",", 2)
		colName := parts[0]
		if colName == "" {
			colName = strings.ToLower(sf.Name)
		}
		if len(parts) != 2 {
			return nil, errors.Newf("schema: field %s: db tag %q missing kind (want \"column,kind\")", sf.Name, raw)
		}
		kind, ok := kindNames[strings.ToLower(parts[1])]
		if !ok {
			return nil, errors.Newf("schema: field %s: unknown kind %q", sf.Name, parts[1])
		}
		fields = append(fields, Field{FieldName: sf.Name, ColumnName: colName, Kind: kind})
	}

	return &Schema{
		TypeName:  typ.Name(),
		TableName: tableName,
		Fields:    fields,
		typ:       typ,
	}, nil
}
