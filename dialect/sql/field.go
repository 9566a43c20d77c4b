package sql

import (
	"strings"

	"github.com/syssam/sqlb"
	"github.com/syssam/sqlb/dialect"
)

// Field is a column name paired with its bind value. The name is the
// logical, unquoted column identifier.
type Field struct {
	Name  string
	Value Value
}

// F returns a Field for the given column and Go value. See ValueOf for the
// supported types; an unsupported value fails when the statement is
// rendered.
func F(name string, v any) Field {
	return Field{Name: name, Value: valueOf(name, v)}
}

// NewField returns a Field for the given column and Value. A nil Value
// is NULL. A conversion failure carried by v, such as one from Opt, is
// reported for this column.
func NewField(name string, v Value) Field {
	if v == nil {
		v = Null
	}
	return Field{Name: name, Value: named(v, name)}
}

// Fields is an ordered list of fields. The order determines the column
// order and the bind order of a statement.
type Fields []Field

// HasFields is implemented by row types that can be turned into fields.
// Implementations may be generated by sqlbgen or provided by the
// reflection helpers of the schema/field package.
type HasFields interface {
	// AllFields returns every field, absent values bound as NULL.
	AllFields() Fields
	// NotNoneFields returns the fields whose value is present.
	NotNoneFields() Fields
	// FieldNames returns the column names in declaration order.
	FieldNames() []string
}

// Unzip splits the fields into their names and values.
func (fs Fields) Unzip() ([]string, []Value) {
	names := make([]string, len(fs))
	values := make([]Value, len(fs))
	for i, f := range fs {
		names[i], values[i] = f.Name, f.Value
	}
	return names, values
}

// Names returns the field names.
func (fs Fields) Names() []string {
	names, _ := fs.Unzip()
	return names
}

// RenderNames returns the comma-joined quoted column names.
func (fs Fields) RenderNames(s dialect.Style) string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = dialect.ColumnName(s, f.Name)
	}
	return strings.Join(names, ", ")
}

// RenderParams returns the comma-joined placeholders of the fields,
// numbered from start, and the next free placeholder number. Raw values
// are written as is and take no number.
func (fs Fields) RenderParams(s dialect.Style, start int) (int, string) {
	params := make([]string, len(fs))
	for i, f := range fs {
		params[i], start = renderValue(s, f.Value, start)
	}
	return start, strings.Join(params, ", ")
}

// Lookup returns the value of the named field.
func (fs Fields) Lookup(name string) (Value, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// FieldValue returns the value of the named field as a T. A missing field
// or a value of another type is reported as a ConversionError carrying the
// field name.
func FieldValue[T any](fs Fields, name string) (T, error) {
	v, ok := fs.Lookup(name)
	if !ok {
		var zero T
		return zero, &sqlb.ConversionError{Field: name, Got: "missing field"}
	}
	t, err := As[T](v)
	if err != nil {
		return t, withField(err, name)
	}
	return t, nil
}

// renderValue renders the placeholder or raw text of v.
func renderValue(s dialect.Style, v Value, n int) (string, int) {
	if text, ok := v.RawText(); ok {
		return text, n
	}
	return s.Placeholder(n), n + 1
}

// valuesOf appends the non-raw values of fs to vs.
func valuesOf(vs []Value, fs Fields) []Value {
	for _, f := range fs {
		if _, ok := f.Value.RawText(); !ok {
			vs = append(vs, f.Value)
		}
	}
	return vs
}

// errOf returns the first conversion failure of fs.
func errOf(fs Fields) error {
	for _, f := range fs {
		if bv, ok := f.Value.(badValue); ok {
			return bv.err
		}
	}
	return nil
}
