package sql

import (
	"database/sql"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/syssam/sqlb"
	"github.com/syssam/sqlb/internal/structinfo"
)

var (
	scannerType = reflect.TypeFor[sql.Scanner]()
	timeType    = reflect.TypeFor[time.Time]()
)

// ScanRow decodes the current row of rows into dest, a non-nil pointer.
//
// A struct destination receives the columns by name: the `sqlb` or `db`
// tag of a field, or its underscored name. Unknown columns are ignored.
// Any other destination, including time.Time and sql.Scanner
// implementations, receives the only column of the row.
//
// A value that does not fit its destination is reported as a
// sqlb.ConversionError carrying the column name.
func ScanRow(rows ColumnScanner, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("sql: scan destination must be a non-nil pointer, got %T", dest)
	}
	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return err
	}
	target := rv.Elem()
	if target.Kind() == reflect.Pointer && isStruct(target.Type().Elem()) {
		if target.IsNil() {
			target.Set(reflect.New(target.Type().Elem()))
		}
		target = target.Elem()
	}
	if !isStruct(target.Type()) {
		if len(columns) != 1 {
			return fmt.Errorf("sql: scanning %d columns into a single %s", len(columns), target.Type())
		}
		return assign(target, values[0], columns[0])
	}
	info := structinfo.Of(target.Type())
	for i, name := range columns {
		c, ok := info.Lookup(name)
		if !ok {
			continue
		}
		if err := assign(fieldByIndex(target, c.Index), values[i], name); err != nil {
			return err
		}
	}
	return nil
}

// isStruct reports struct types decoded column by column.
func isStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t != timeType && !reflect.PointerTo(t).Implements(scannerType)
}

// fieldByIndex is reflect.Value.FieldByIndex that allocates nil embedded
// struct pointers.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// assign stores the driver value src into dst.
func assign(dst reflect.Value, src any, column string) error {
	if dst.CanAddr() {
		if s, ok := dst.Addr().Interface().(sql.Scanner); ok {
			if err := s.Scan(src); err != nil {
				return &sqlb.ConversionError{Field: column, Want: dst.Type().String(), Got: typeName(src), Err: err}
			}
			return nil
		}
	}
	if src == nil {
		switch dst.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		return sqlb.NewConversionError(column, dst.Type().String(), "NULL")
	}
	if dst.Kind() == reflect.Pointer {
		elem := reflect.New(dst.Type().Elem())
		if err := assign(elem.Elem(), src, column); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}
	sv := reflect.ValueOf(src)
	if b, ok := src.([]byte); ok && dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Uint8 {
		dst.SetBytes(append([]byte(nil), b...))
		return nil
	}
	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}
	if err := convert(dst, sv); err != nil {
		return &sqlb.ConversionError{Field: column, Want: dst.Type().String(), Got: sv.Type().String(), Err: err}
	}
	return nil
}

// convert stores sv into dst across compatible kinds.
func convert(dst, sv reflect.Value) error {
	text, isText := textOf(sv)
	switch dst.Kind() {
	case reflect.String:
		if isText {
			dst.SetString(text)
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		switch {
		case isInt(sv):
			n = sv.Int()
		case isUint(sv):
			if sv.Uint() > math.MaxInt64 {
				return errOverflow
			}
			n = int64(sv.Uint())
		case isText:
			i, err := strconv.ParseInt(text, 10, dst.Type().Bits())
			if err != nil {
				return err
			}
			n = i
		default:
			return errUnsupported
		}
		if dst.OverflowInt(n) {
			return errOverflow
		}
		dst.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var n uint64
		switch {
		case isInt(sv) && sv.Int() >= 0:
			n = uint64(sv.Int())
		case isUint(sv):
			n = sv.Uint()
		case isText:
			u, err := strconv.ParseUint(text, 10, dst.Type().Bits())
			if err != nil {
				return err
			}
			n = u
		default:
			return errUnsupported
		}
		if dst.OverflowUint(n) {
			return errOverflow
		}
		dst.SetUint(n)
		return nil
	case reflect.Float32, reflect.Float64:
		switch {
		case sv.Kind() == reflect.Float32 || sv.Kind() == reflect.Float64:
			dst.SetFloat(sv.Float())
		case isInt(sv):
			dst.SetFloat(float64(sv.Int()))
		case isText:
			f, err := strconv.ParseFloat(text, dst.Type().Bits())
			if err != nil {
				return err
			}
			dst.SetFloat(f)
		default:
			return errUnsupported
		}
		return nil
	case reflect.Bool:
		switch {
		case isInt(sv):
			dst.SetBool(sv.Int() != 0)
		case isText:
			b, err := strconv.ParseBool(text)
			if err != nil {
				return err
			}
			dst.SetBool(b)
		default:
			return errUnsupported
		}
		return nil
	case reflect.Slice:
		if dst.Type().Elem().Kind() == reflect.Uint8 && isText {
			dst.SetBytes([]byte(text))
			return nil
		}
	}
	if sv.Type().ConvertibleTo(dst.Type()) && sv.Kind() == dst.Kind() {
		dst.Set(sv.Convert(dst.Type()))
		return nil
	}
	return errUnsupported
}

var (
	errUnsupported = fmt.Errorf("unsupported conversion")
	errOverflow    = fmt.Errorf("value out of range")
)

func textOf(v reflect.Value) (string, bool) {
	switch {
	case v.Kind() == reflect.String:
		return v.String(), true
	case v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8:
		return string(v.Bytes()), true
	}
	return "", false
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func typeName(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%T", v)
}
