package sql

import (
	"context"
	"slices"

	"github.com/syssam/sqlb/dialect"
)

// InsertBuilder is a builder for the INSERT statement.
//
//	sql.Insert("todo").
//	    Data(sql.F("title", "hello")).
//	    Returning("id", "title")
type InsertBuilder struct {
	builder
	data      Fields
	returning []string
}

// Insert returns a builder for an INSERT statement into table.
func Insert(table string) *InsertBuilder {
	return &InsertBuilder{builder: newBuilder("insert", table)}
}

// Table sets the table name.
func (i *InsertBuilder) Table(name string) *InsertBuilder {
	i.table = name
	return i
}

// Dialect sets the dialect used for rendering.
func (i *InsertBuilder) Dialect(name string) *InsertBuilder {
	i.setDialect(name)
	return i
}

// Style sets a custom quoting and placeholder style.
func (i *InsertBuilder) Style(s dialect.Style) *InsertBuilder {
	i.setStyle(s)
	return i
}

// Data appends fields to the inserted row. An insert without fields
// renders an empty column list, leaving the row to column defaults.
func (i *InsertBuilder) Data(fields ...Field) *InsertBuilder {
	i.data = append(i.data, fields...)
	return i
}

// Returning appends columns to the RETURNING clause. Columns of earlier
// calls are kept.
func (i *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	i.returning = append(i.returning, columns...)
	return i
}

// Clone returns a copy of the builder.
func (i *InsertBuilder) Clone() *InsertBuilder {
	c := *i
	c.data = slices.Clone(i.data)
	c.returning = slices.Clone(i.returning)
	return &c
}

// withStyle returns a copy rendered with st, unless a style was set.
func (i *InsertBuilder) withStyle(st dialect.Style) Statement {
	if i.styled {
		return i
	}
	c := i.Clone()
	c.style = st
	return c
}

// SQL renders the INSERT statement.
func (i *InsertBuilder) SQL() (string, error) {
	if err := i.check(); err != nil {
		return "", err
	}
	if err := errOf(i.data); err != nil {
		return "", err
	}
	_, params := i.data.RenderParams(i.style, 1)
	return joinClauses(
		"INSERT INTO "+i.tableName(),
		"("+i.data.RenderNames(i.style)+")",
		"VALUES ("+params+")",
		renderReturning(i.style, i.returning),
	), nil
}

// Vals returns the bound values of the inserted row.
func (i *InsertBuilder) Vals() []Value {
	return valuesOf(nil, i.data)
}

// Query renders the statement and its arguments.
func (i *InsertBuilder) Query() (string, []any, error) {
	return query(i)
}

// Exec executes the statement and returns the number of affected rows.
func (i *InsertBuilder) Exec(ctx context.Context, ex dialect.ExecQuerier) (int64, error) {
	return Exec(ctx, ex, i)
}
