package sql

import (
	"context"
	"slices"

	"github.com/syssam/sqlb"
	"github.com/syssam/sqlb/dialect"
)

// DeleteBuilder is a builder for the DELETE statement.
type DeleteBuilder struct {
	builder
	guard     bool
	where     []whereItem
	returning []string
}

// Delete returns a builder for a DELETE statement on table. Rendering it
// without a WHERE predicate fails with a GuardError; use DeleteAll to
// delete every row.
func Delete(table string) *DeleteBuilder {
	return &DeleteBuilder{builder: newBuilder("delete", table), guard: true}
}

// DeleteAll returns a builder for a DELETE statement on table that may be
// rendered without a WHERE predicate.
func DeleteAll(table string) *DeleteBuilder {
	return &DeleteBuilder{builder: newBuilder("delete", table)}
}

// Table sets the table name.
func (d *DeleteBuilder) Table(name string) *DeleteBuilder {
	d.table = name
	return d
}

// Dialect sets the dialect used for rendering.
func (d *DeleteBuilder) Dialect(name string) *DeleteBuilder {
	d.setDialect(name)
	return d
}

// Style sets a custom quoting and placeholder style.
func (d *DeleteBuilder) Style(s dialect.Style) *DeleteBuilder {
	d.setStyle(s)
	return d
}

// AndWhere adds the predicate "name op value".
func (d *DeleteBuilder) AndWhere(name, op string, v any) *DeleteBuilder {
	d.where = appendWhere(d.where, name, op, v)
	return d
}

// AndWhereEq adds the predicate "name = value".
func (d *DeleteBuilder) AndWhereEq(name string, v any) *DeleteBuilder {
	return d.AndWhere(name, "=", v)
}

// Returning appends columns to the RETURNING clause. Columns of earlier
// calls are kept.
func (d *DeleteBuilder) Returning(columns ...string) *DeleteBuilder {
	d.returning = append(d.returning, columns...)
	return d
}

// Clone returns a copy of the builder.
func (d *DeleteBuilder) Clone() *DeleteBuilder {
	c := *d
	c.where = slices.Clone(d.where)
	c.returning = slices.Clone(d.returning)
	return &c
}

// withStyle returns a copy rendered with st, unless a style was set.
func (d *DeleteBuilder) withStyle(st dialect.Style) Statement {
	if d.styled {
		return d
	}
	c := d.Clone()
	c.style = st
	return c
}

// SQL renders the DELETE statement.
func (d *DeleteBuilder) SQL() (string, error) {
	if err := d.check(); err != nil {
		return "", err
	}
	if d.guard && len(d.where) == 0 {
		return "", sqlb.NewGuardError(d.op, d.table)
	}
	if err := whereErr(d.where); err != nil {
		return "", err
	}
	_, where := renderWhere(d.style, d.where, 1)
	return joinClauses(
		"DELETE FROM "+d.tableName(),
		where,
		renderReturning(d.style, d.returning),
	), nil
}

// Vals returns the bound values of the WHERE clause.
func (d *DeleteBuilder) Vals() []Value {
	return whereValues(nil, d.where)
}

// Query renders the statement and its arguments.
func (d *DeleteBuilder) Query() (string, []any, error) {
	return query(d)
}

// Exec executes the statement and returns the number of affected rows.
func (d *DeleteBuilder) Exec(ctx context.Context, ex dialect.ExecQuerier) (int64, error) {
	return Exec(ctx, ex, d)
}
