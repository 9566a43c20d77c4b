package field

import (
	"database/sql/driver"
	"reflect"

	"github.com/syssam/sqlb/dialect/sql"
	"github.com/syssam/sqlb/internal/structinfo"
)

// All returns a field for every column of the struct v, absent values
// bound as NULL. v may be a struct or a pointer to one; anything else
// has no fields.
func All(v any) sql.Fields {
	return collect(v, true)
}

// NotNone returns the fields of the struct v whose value is present.
func NotNone(v any) sql.Fields {
	return collect(v, false)
}

// Names returns the column names of the struct v in declaration order.
func Names(v any) []string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return structinfo.Of(t).Names()
}

// Reflect returns a sql.HasFields view of the struct v.
func Reflect(v any) sql.HasFields {
	return row{v: v}
}

// Present reports whether v holds a value, that is, it is not a nil
// pointer, slice, map or interface and not a driver.Valuer reporting NULL.
// Generated NotNoneFields methods call it for driver.Valuer fields.
func Present(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.IsValid() && !absent(rv)
}

type row struct{ v any }

func (r row) AllFields() sql.Fields     { return All(r.v) }
func (r row) NotNoneFields() sql.Fields { return NotNone(r.v) }
func (r row) FieldNames() []string      { return Names(r.v) }

func collect(v any, all bool) sql.Fields {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	info := structinfo.Of(rv.Type())
	fields := make(sql.Fields, 0, len(info.Columns))
	for _, c := range info.Columns {
		fv, ok := lookup(rv, c.Index)
		switch {
		case ok && !absent(fv):
			fields = append(fields, sql.F(c.Name, fv.Interface()))
		case all:
			fields = append(fields, sql.NewField(c.Name, sql.Null))
		}
	}
	return fields
}

// lookup returns the field at index. It fails on a nil embedded pointer.
func lookup(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

func absent(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		if v.IsNil() {
			return true
		}
	}
	if valuer, ok := v.Interface().(driver.Valuer); ok {
		dv, err := valuer.Value()
		return err == nil && dv == nil
	}
	return false
}
