package sql

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/sqlb"
)

// Value is a bind value of a statement. A value either appends itself to
// the bind arguments, or reports itself as raw SQL text that is inlined
// in place of a placeholder and binds nothing.
type Value interface {
	// BindInto appends the driver value to args.
	BindInto(args *Args)
	// RawText returns the SQL text of a raw fragment.
	RawText() (string, bool)
}

// Args collects bind arguments in placeholder order.
type Args struct {
	values []any
}

// Append adds a driver value.
func (a *Args) Append(v any) {
	a.values = append(a.values, v)
}

// Values returns the collected values.
func (a *Args) Values() []any {
	return a.values
}

// Len returns the number of collected values.
func (a *Args) Len() int {
	return len(a.values)
}

// Raw is a SQL fragment that is written into the statement as is,
// for example Raw("now()").
type Raw string

// BindInto implements Value. A raw fragment binds nothing.
func (Raw) BindInto(*Args) {}

// RawText implements Value.
func (r Raw) RawText() (string, bool) { return string(r), true }

// scalar is a bound value of one of the supported types.
type scalar struct {
	v any
}

func (s scalar) BindInto(args *Args) { args.Append(s.v) }

func (scalar) RawText() (string, bool) { return "", false }

func (s scalar) String() string { return fmt.Sprint(s.v) }

// encoded is a registered type bound as its encoded driver value. The
// source value is kept for As.
type encoded struct {
	src any
	v   driver.Value
}

func (e encoded) BindInto(args *Args) { args.Append(e.v) }

func (encoded) RawText() (string, bool) { return "", false }

func (e encoded) String() string { return fmt.Sprint(e.src) }

// Null is the SQL NULL value.
var Null Value = scalar{}

// badValue carries a conversion failure to render time.
type badValue struct {
	err error
}

func (badValue) BindInto(args *Args) { args.Append(nil) }

func (badValue) RawText() (string, bool) { return "", false }

// Bool returns a bool Value.
func Bool(v bool) Value { return scalar{v} }

// Int returns an int Value.
func Int(v int) Value { return scalar{v} }

// Int64 returns an int64 Value.
func Int64(v int64) Value { return scalar{v} }

// Float64 returns a float64 Value.
func Float64(v float64) Value { return scalar{v} }

// String returns a string Value.
func String(v string) Value { return scalar{v} }

// UUID returns a uuid.UUID Value.
func UUID(v uuid.UUID) Value { return scalar{v} }

// Time returns a time.Time Value.
func Time(v time.Time) Value { return scalar{v} }

// Opt returns a Value for an optional v. A nil v binds NULL.
func Opt[T any](v *T) Value {
	if v == nil {
		return Null
	}
	val, err := ValueOf(*v)
	if err != nil {
		return badValue{err}
	}
	return val
}

// registry holds the encoders of registered types.
var registry = struct {
	sync.RWMutex
	m map[reflect.Type]func(any) (driver.Value, error)
}{m: make(map[reflect.Type]func(any) (driver.Value, error))}

// Register makes values of type T usable as bind values. The encode
// function converts a T to a driver value. For example, a Postgres enum:
//
//	type Status string
//
//	sql.Register(func(s Status) (driver.Value, error) {
//	    return string(s), nil
//	})
//
// As and FieldValue return the registered value itself, not its encoding.
// Registering a type twice replaces the previous encoder.
func Register[T any](encode func(T) (driver.Value, error)) {
	registry.Lock()
	defer registry.Unlock()
	registry.m[reflect.TypeFor[T]()] = func(v any) (driver.Value, error) {
		return encode(v.(T))
	}
}

// encoderOf returns the registered encoder of t.
func encoderOf(t reflect.Type) (func(any) (driver.Value, error), bool) {
	registry.RLock()
	defer registry.RUnlock()
	enc, ok := registry.m[t]
	return enc, ok
}

// ValueOf converts v to a Value. Supported are Value implementations, the
// scalar types bool, int, int8, int16, int32, int64, float32, float64,
// string, []byte, uuid.UUID and time.Time, registered types, types
// implementing driver.Valuer, and pointers to any of those. A nil pointer
// is NULL.
func ValueOf(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null, nil
	case Value:
		return v, nil
	case bool, int, int8, int16, int32, int64, float32, float64, string, []byte, uuid.UUID, time.Time:
		return scalar{v}, nil
	}
	rv := reflect.ValueOf(v)
	if enc, ok := encoderOf(rv.Type()); ok {
		dv, err := enc(v)
		if err != nil {
			return nil, &sqlb.ConversionError{Got: rv.Type().String(), Err: err}
		}
		return encoded{src: v, v: dv}, nil
	}
	if _, ok := v.(driver.Valuer); ok {
		return scalar{v}, nil
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Null, nil
		}
		return ValueOf(rv.Elem().Interface())
	}
	return nil, &sqlb.ConversionError{Got: rv.Type().String()}
}

// valueOf is ValueOf for builder arguments. Failures are kept in the
// returned Value and reported when the statement is rendered.
func valueOf(name string, v any) Value {
	val, err := ValueOf(v)
	if err != nil {
		return badValue{withField(err, name)}
	}
	return named(val, name)
}

// named attaches name to the conversion failure carried by v, if any.
func named(v Value, name string) Value {
	if bv, ok := v.(badValue); ok {
		return badValue{withField(bv.err, name)}
	}
	return v
}

// withField returns a copy of a conversion error that names the field.
// Errors that already name a field are returned unchanged.
func withField(err error, name string) error {
	if ce, ok := err.(*sqlb.ConversionError); ok && ce.Field == "" {
		c := *ce
		c.Field = name
		return &c
	}
	return err
}

// As extracts the Go value bound by v as a T.
func As[T any](v Value) (T, error) {
	var zero T
	if text, ok := v.RawText(); ok {
		return zero, &sqlb.ConversionError{Want: reflect.TypeFor[T]().String(), Got: "raw " + text}
	}
	if bv, ok := v.(badValue); ok {
		return zero, bv.err
	}
	if e, ok := v.(encoded); ok {
		if t, ok := e.src.(T); ok {
			return t, nil
		}
	}
	var args Args
	v.BindInto(&args)
	if args.Len() != 1 {
		return zero, &sqlb.ConversionError{Want: reflect.TypeFor[T]().String(), Got: fmt.Sprintf("%d values", args.Len())}
	}
	got := args.Values()[0]
	if got == nil {
		return zero, &sqlb.ConversionError{Want: reflect.TypeFor[T]().String(), Got: "NULL"}
	}
	t, ok := got.(T)
	if !ok {
		return zero, &sqlb.ConversionError{Want: reflect.TypeFor[T]().String(), Got: fmt.Sprintf("%T", got)}
	}
	return t, nil
}
