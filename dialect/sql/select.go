package sql

import (
	"context"
	"slices"

	"github.com/syssam/sqlb/dialect"
)

// SelectBuilder is a builder for the SELECT statement.
type SelectBuilder struct {
	builder
	columns []string
	where   []whereItem
	order   []OrderItem
	limit   *int64
	offset  *int64
}

// Select returns a builder for a SELECT statement of the given columns.
// No columns selects "*".
func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{builder: newBuilder("select", ""), columns: slices.Clone(columns)}
}

// Table sets the table to select from.
func (s *SelectBuilder) Table(name string) *SelectBuilder {
	s.table = name
	return s
}

// From is an alias for Table.
func (s *SelectBuilder) From(name string) *SelectBuilder {
	return s.Table(name)
}

// Dialect sets the dialect used for rendering.
func (s *SelectBuilder) Dialect(name string) *SelectBuilder {
	s.setDialect(name)
	return s
}

// Style sets a custom quoting and placeholder style.
func (s *SelectBuilder) Style(st dialect.Style) *SelectBuilder {
	s.setStyle(st)
	return s
}

// Columns replaces the selected columns. Names containing "(" such as
// count(*) are written as is.
func (s *SelectBuilder) Columns(columns ...string) *SelectBuilder {
	s.columns = slices.Clone(columns)
	return s
}

// AndWhere adds the predicate "name op value". Predicates are joined
// with AND.
func (s *SelectBuilder) AndWhere(name, op string, v any) *SelectBuilder {
	s.where = appendWhere(s.where, name, op, v)
	return s
}

// AndWhereEq adds the predicate "name = value".
func (s *SelectBuilder) AndWhereEq(name string, v any) *SelectBuilder {
	return s.AndWhere(name, "=", v)
}

// OrderBy appends order items in shorthand form ("id" or "!id").
// Items of earlier OrderBy or OrderBys calls are kept, so
// OrderBy("a").OrderBy("b") orders by a, then b.
func (s *SelectBuilder) OrderBy(items ...string) *SelectBuilder {
	for _, item := range items {
		s.order = append(s.order, ParseOrder(item))
	}
	return s
}

// OrderBys appends order items after those already set.
func (s *SelectBuilder) OrderBys(items ...OrderItem) *SelectBuilder {
	s.order = append(s.order, items...)
	return s
}

// Limit sets the LIMIT clause.
func (s *SelectBuilder) Limit(n int64) *SelectBuilder {
	s.limit = &n
	return s
}

// Offset sets the OFFSET clause.
func (s *SelectBuilder) Offset(n int64) *SelectBuilder {
	s.offset = &n
	return s
}

// Clone returns a copy of the builder.
func (s *SelectBuilder) Clone() *SelectBuilder {
	c := *s
	c.columns = slices.Clone(s.columns)
	c.where = slices.Clone(s.where)
	c.order = slices.Clone(s.order)
	return &c
}

// withStyle returns a copy rendered with st, unless a style was set.
func (s *SelectBuilder) withStyle(st dialect.Style) Statement {
	if s.styled {
		return s
	}
	c := s.Clone()
	c.style = st
	return c
}

// SQL renders the SELECT statement.
func (s *SelectBuilder) SQL() (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	if err := whereErr(s.where); err != nil {
		return "", err
	}
	cols := "*"
	if len(s.columns) > 0 {
		cols = renderColumns(s.style, s.columns)
	}
	_, where := renderWhere(s.style, s.where, 1)
	var limit, offset string
	if s.limit != nil {
		limit = "LIMIT " + itoa(*s.limit)
	}
	if s.offset != nil {
		offset = "OFFSET " + itoa(*s.offset)
	}
	return joinClauses(
		"SELECT "+cols,
		"FROM "+s.tableName(),
		where,
		renderOrderBy(s.style, s.order),
		limit,
		offset,
	), nil
}

// Vals returns the bound values of the WHERE clause.
func (s *SelectBuilder) Vals() []Value {
	return whereValues(nil, s.where)
}

// Query renders the statement and its arguments.
func (s *SelectBuilder) Query() (string, []any, error) {
	return query(s)
}

// Exec executes the statement and returns the number of affected rows.
func (s *SelectBuilder) Exec(ctx context.Context, ex dialect.ExecQuerier) (int64, error) {
	return Exec(ctx, ex, s)
}
