package sql

import (
	"context"
	"slices"
	"strings"

	"github.com/syssam/sqlb"
	"github.com/syssam/sqlb/dialect"
)

// UpdateBuilder is a builder for the UPDATE statement.
type UpdateBuilder struct {
	builder
	guard     bool
	data      Fields
	where     []whereItem
	returning []string
}

// Update returns a builder for an UPDATE statement on table. Rendering it
// without a WHERE predicate fails with a GuardError; use UpdateAll to
// update every row.
func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{builder: newBuilder("update", table), guard: true}
}

// UpdateAll returns a builder for an UPDATE statement on table that may
// be rendered without a WHERE predicate.
func UpdateAll(table string) *UpdateBuilder {
	return &UpdateBuilder{builder: newBuilder("update", table)}
}

// Table sets the table name.
func (u *UpdateBuilder) Table(name string) *UpdateBuilder {
	u.table = name
	return u
}

// Dialect sets the dialect used for rendering.
func (u *UpdateBuilder) Dialect(name string) *UpdateBuilder {
	u.setDialect(name)
	return u
}

// Style sets a custom quoting and placeholder style.
func (u *UpdateBuilder) Style(s dialect.Style) *UpdateBuilder {
	u.setStyle(s)
	return u
}

// Data appends fields to the SET clause.
func (u *UpdateBuilder) Data(fields ...Field) *UpdateBuilder {
	u.data = append(u.data, fields...)
	return u
}

// Set appends a single field to the SET clause.
func (u *UpdateBuilder) Set(name string, v any) *UpdateBuilder {
	return u.Data(F(name, v))
}

// AndWhere adds the predicate "name op value".
func (u *UpdateBuilder) AndWhere(name, op string, v any) *UpdateBuilder {
	u.where = appendWhere(u.where, name, op, v)
	return u
}

// AndWhereEq adds the predicate "name = value".
func (u *UpdateBuilder) AndWhereEq(name string, v any) *UpdateBuilder {
	return u.AndWhere(name, "=", v)
}

// Returning appends columns to the RETURNING clause. Columns of earlier
// calls are kept.
func (u *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	u.returning = append(u.returning, columns...)
	return u
}

// Clone returns a copy of the builder.
func (u *UpdateBuilder) Clone() *UpdateBuilder {
	c := *u
	c.data = slices.Clone(u.data)
	c.where = slices.Clone(u.where)
	c.returning = slices.Clone(u.returning)
	return &c
}

// withStyle returns a copy rendered with st, unless a style was set.
func (u *UpdateBuilder) withStyle(st dialect.Style) Statement {
	if u.styled {
		return u
	}
	c := u.Clone()
	c.style = st
	return c
}

// SQL renders the UPDATE statement. SET values are numbered first and the
// WHERE clause continues the numbering.
func (u *UpdateBuilder) SQL() (string, error) {
	if err := u.check(); err != nil {
		return "", err
	}
	if u.guard && len(u.where) == 0 {
		return "", sqlb.NewGuardError(u.op, u.table)
	}
	if len(u.data) == 0 {
		return "", sqlb.NewConfigError(u.op, "no fields to set")
	}
	if err := errOf(u.data); err != nil {
		return "", err
	}
	if err := whereErr(u.where); err != nil {
		return "", err
	}
	var (
		n    = 1
		sets = make([]string, len(u.data))
	)
	for i, f := range u.data {
		var param string
		param, n = renderValue(u.style, f.Value, n)
		sets[i] = dialect.ColumnName(u.style, f.Name) + " = " + param
	}
	_, where := renderWhere(u.style, u.where, n)
	return joinClauses(
		"UPDATE "+u.tableName(),
		"SET "+strings.Join(sets, ", "),
		where,
		renderReturning(u.style, u.returning),
	), nil
}

// Vals returns the bound values of the SET clause followed by those of
// the WHERE clause.
func (u *UpdateBuilder) Vals() []Value {
	return whereValues(valuesOf(nil, u.data), u.where)
}

// Query renders the statement and its arguments.
func (u *UpdateBuilder) Query() (string, []any, error) {
	return query(u)
}

// Exec executes the statement and returns the number of affected rows.
func (u *UpdateBuilder) Exec(ctx context.Context, ex dialect.ExecQuerier) (int64, error) {
	return Exec(ctx, ex, u)
}
