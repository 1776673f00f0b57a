package schema

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/Darisishe/txorm/txerr"
	"github.com/Darisishe/txorm/value"
)

// SerializeReflect produces a Row from obj (a pointer to the struct the
// Schema was Build from), one Value per schema field, using reflection. It is
// the default Serialize implementation for schema.Basic[T]; hand-rolled
// schema.Object implementations need not use it.
func SerializeReflect(s *Schema, obj any) (Row, error) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr {
		return nil, errors.Newf("schema: Serialize requires a pointer, got %T", obj)
	}
	v = v.Elem()

	row := make(Row, len(s.Fields))
	for _, f := range s.Fields {
		fv := v.FieldByName(f.FieldName)
		if !fv.IsValid() {
			return nil, errors.Newf("schema: field %s not found on %T", f.FieldName, obj)
		}
		val, err := toValue(f.Kind, fv)
		if err != nil {
			return nil, err
		}
		row[f.ColumnName] = val
	}
	return row, nil
}

// DeserializeReflect populates obj (a pointer to the struct the Schema was
// Build from) from row, using reflection. A column absent from row yields
// txerr.MissingColumn; a present column whose kind disagrees with the
// schema yields txerr.UnexpectedType.
func DeserializeReflect(s *Schema, obj any, row Row) error {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr {
		return errors.Newf("schema: Deserialize requires a pointer, got %T", obj)
	}
	v = v.Elem()

	for _, f := range s.Fields {
		val, ok := row[f.ColumnName]
		if !ok {
			return errors.Wrapf(txerr.MissingColumn, "column %q", f.ColumnName)
		}
		if val.Kind() != f.Kind {
			return errors.Wrapf(txerr.UnexpectedType, "column %q: expected %s, got %s", f.ColumnName, f.Kind, val.Kind())
		}
		fv := v.FieldByName(f.FieldName)
		if !fv.IsValid() || !fv.CanSet() {
			return errors.Newf("schema: field %s not settable on %T", f.FieldName, obj)
		}
		if err := fromValue(fv, val); err != nil {
			return err
		}
	}
	return nil
}

func toValue(kind value.Kind, fv reflect.Value) (value.Value, error) {
	switch kind {
	case value.KindString:
		return value.String(fv.String()), nil
	case value.KindBytes:
		b, _ := fv.Interface().([]byte)
		return value.Bytes(b), nil
	case value.KindInt64:
		return value.Int64(fv.Int()), nil
	case value.KindFloat64:
		return value.Float64(fv.Float()), nil
	case value.KindBool:
		return value.Bool(fv.Bool()), nil
	default:
		return value.Value{}, errors.Newf("schema: unknown kind %s", kind)
	}
}

func fromValue(fv reflect.Value, v value.Value) error {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		fv.SetString(s)
	case value.KindBytes:
		b, _ := v.AsBytes()
		fv.SetBytes(b)
	case value.KindInt64:
		i, _ := v.AsInt64()
		fv.SetInt(i)
	case value.KindFloat64:
		f, _ := v.AsFloat64()
		fv.SetFloat(f)
	case value.KindBool:
		b, _ := v.AsBool()
		fv.SetBool(b)
	}
	return nil
}
