// Package structinfo maps the exported fields of row structs to columns.
package structinfo

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-openapi/inflect"
)

// Column is a struct field mapped to a column.
type Column struct {
	Name  string       // Column name
	Field string       // Go field name
	Index []int        // Field index path, for reflect.Value.FieldByIndex
	Type  reflect.Type // Field type
}

// Info is the column mapping of a struct type.
type Info struct {
	Columns []Column
	byName  map[string]int
}

// Lookup returns the column with the given name. Names are matched
// case-insensitively.
func (i *Info) Lookup(name string) (Column, bool) {
	idx, ok := i.byName[strings.ToLower(name)]
	if !ok {
		return Column{}, false
	}
	return i.Columns[idx], true
}

// Names returns the column names in declaration order.
func (i *Info) Names() []string {
	names := make([]string, len(i.Columns))
	for j, c := range i.Columns {
		names[j] = c.Name
	}
	return names
}

var cache sync.Map // reflect.Type → *Info

// Of returns the column mapping of the struct type t.
func Of(t reflect.Type) *Info {
	if cached, ok := cache.Load(t); ok {
		return cached.(*Info)
	}
	info := &Info{byName: make(map[string]int)}
	parse(t, nil, info)
	actual, _ := cache.LoadOrStore(t, info)
	return actual.(*Info)
}

func parse(t reflect.Type, index []int, info *Info) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, skip := ColumnName(f.Name, f.Tag)
		if skip {
			continue
		}
		path := append(append([]int(nil), index...), i)
		if ft := embedded(f); ft != nil {
			parse(ft, path, info)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if _, dup := info.byName[strings.ToLower(name)]; dup {
			continue
		}
		info.byName[strings.ToLower(name)] = len(info.Columns)
		info.Columns = append(info.Columns, Column{Name: name, Field: f.Name, Index: path, Type: f.Type})
	}
}

// ColumnName returns the column name of a struct field and whether the
// field is skipped. The `sqlb` tag wins over the `db` tag; a tag value of
// "-" or a "skip" option skips the field. Untagged fields are named after
// the underscored field name (CreatedAt → created_at).
//
//	Title string `sqlb:"title"`
//	Desc  string `sqlb:"description"`
//	Cache []byte `sqlb:"-"`
//	Tmp   int    `sqlb:",skip"`
func ColumnName(field string, tag reflect.StructTag) (string, bool) {
	for _, key := range []string{"sqlb", "db"} {
		v, ok := tag.Lookup(key)
		if !ok {
			continue
		}
		if v == "-" {
			return "", true
		}
		name, opts, _ := strings.Cut(v, ",")
		for _, opt := range strings.Split(opts, ",") {
			if strings.TrimSpace(opt) == "skip" {
				return "", true
			}
		}
		if name = strings.TrimSpace(name); name != "" {
			return name, false
		}
		break
	}
	return Underscore(field), false
}

// rules is the naming ruleset; "ID" is kept as one word.
var rules = func() *inflect.Ruleset {
	rs := inflect.NewDefaultRuleset()
	rs.AddAcronym("ID")
	return rs
}()

// Underscore converts a Go identifier to a snake_case column name.
func Underscore(name string) string {
	return rules.Underscore(name)
}

// embedded returns the struct type of an untagged embedded struct or
// struct pointer, whose fields are promoted to the outer struct.
func embedded(f reflect.StructField) reflect.Type {
	if !f.Anonymous || Tagged(f.Tag) {
		return nil
	}
	t := f.Type
	if t.Kind() == reflect.Pointer {
		if !f.IsExported() {
			return nil
		}
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || isValueType(t) {
		return nil
	}
	return t
}

// Tagged reports whether tag carries a sqlb or db key.
func Tagged(tag reflect.StructTag) bool {
	_, sqlb := tag.Lookup("sqlb")
	_, db := tag.Lookup("db")
	return sqlb || db
}

// isValueType reports struct types that map to a single column.
func isValueType(t reflect.Type) bool {
	return t.PkgPath() == "time" && t.Name() == "Time"
}
