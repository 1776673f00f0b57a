// Package value defines the tagged union that crosses the boundary between
// a schema's serializer/deserializer and a storage.Transaction. It is the
// only representation a storage adapter ever sees or produces.
package value

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/Darisishe/txorm/txerr"
)

// Kind identifies one of the five supported column value shapes.
type Kind uint8

const (
	KindString Kind = iota
	KindBytes
	KindInt64
	KindFloat64
	KindBool
)

// String renders the kind the way it appears in error messages and SQL
// type-mapping tables.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindBytes:
		return "Bytes"
	case KindInt64:
		return "Int64"
	case KindFloat64:
		return "Float64"
	case KindBool:
		return "Bool"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a closed tagged union over the five column kinds. The zero
// Value is a String holding "". Values are immutable once constructed.
type Value struct {
	kind  Kind
	str   string
	bytes []byte
	i64   int64
	f64   float64
	b     bool
}

func String(s string) Value { return Value{kind: KindString, str: s} }
func Bytes(b []byte) Value { return Value{kind: KindBytes, bytes: b} }
func Int64(i int64) Value { return Value{kind: KindInt64, i64: i} }
func Float64(f float64) Value { return Value{kind: KindFloat64, f64: f} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind reports which of the five kinds this Value carries.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the payload of a String value, or txerr.UnexpectedType
// if v does not carry that kind.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", mismatch(KindString, v.kind)
	}
	return v.str, nil
}

// AsBytes returns the payload of a Bytes value, or txerr.UnexpectedType.
func (v Value) AsBytes() ([]byte, error) {
	if v.kind != KindBytes {
		return nil, mismatch(KindBytes, v.kind)
	}
	return v.bytes, nil
}

// AsInt64 returns the payload of an Int64 value, or txerr.UnexpectedType.
func (v Value) AsInt64() (int64, error) {
	if v.kind != KindInt64 {
		return 0, mismatch(KindInt64, v.kind)
	}
	return v.i64, nil
}

// AsFloat64 returns the payload of a Float64 value, or txerr.UnexpectedType.
func (v Value) AsFloat64() (float64, error) {
	if v.kind != KindFloat64 {
		return 0, mismatch(KindFloat64, v.kind)
	}
	return v.f64, nil
}

// AsBool returns the payload of a Bool value, or txerr.UnexpectedType.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, mismatch(KindBool, v.kind)
	}
	return v.b, nil
}

// Any returns the payload boxed as an any, suitable for passing to a
// database/sql driver as a bind parameter.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBytes:
		return v.bytes
	case KindInt64:
		return v.i64
	case KindFloat64:
		return v.f64
	case KindBool:
		return v.b
	default:
		return nil
	}
}

func mismatch(want, got Kind) error {
	return errors.Wrapf(txerr.UnexpectedType, "expected %s, got %s", want, got)
}
