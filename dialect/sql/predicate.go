package sql

// Cond is a WHERE predicate "column op value", the argument form of
// AndWhere. Builders take conditions through Where.
type Cond struct {
	Column string
	Op     string
	Value  any
}

// Eq returns the condition "column = v".
func Eq(column string, v any) Cond { return Cond{Column: column, Op: "=", Value: v} }

// Column is a column whose values have type T. It builds conditions
// that only accept T, so a typo in a value type fails to compile
// instead of failing at bind time.
//
//	var Title = sql.Column[string]("title")
//	sql.Select().From("todo").Where(Title.HasPrefix("pay"))
type Column[T any] string

// Name returns the column name.
func (c Column[T]) Name() string { return string(c) }

// EQ returns the condition "c = v".
func (c Column[T]) EQ(v T) Cond { return c.cond("=", v) }

// NEQ returns the condition "c <> v".
func (c Column[T]) NEQ(v T) Cond { return c.cond("<>", v) }

// GT returns the condition "c > v".
func (c Column[T]) GT(v T) Cond { return c.cond(">", v) }

// GTE returns the condition "c >= v".
func (c Column[T]) GTE(v T) Cond { return c.cond(">=", v) }

// LT returns the condition "c < v".
func (c Column[T]) LT(v T) Cond { return c.cond("<", v) }

// LTE returns the condition "c <= v".
func (c Column[T]) LTE(v T) Cond { return c.cond("<=", v) }

// IsNull returns the condition "c IS NULL".
func (c Column[T]) IsNull() Cond { return c.cond("IS", Raw("NULL")) }

// NotNull returns the condition "c IS NOT NULL".
func (c Column[T]) NotNull() Cond { return c.cond("IS NOT", Raw("NULL")) }

// Like returns the condition "c LIKE pattern".
func (c Column[T]) Like(pattern string) Cond { return c.cond("LIKE", pattern) }

// HasPrefix returns the condition "c LIKE 'prefix%'". LIKE wildcards in
// prefix are not escaped.
func (c Column[T]) HasPrefix(prefix string) Cond { return c.Like(prefix + "%") }

// Contains returns the condition "c LIKE '%sub%'".
func (c Column[T]) Contains(sub string) Cond { return c.Like("%" + sub + "%") }

func (c Column[T]) cond(op string, v any) Cond {
	return Cond{Column: string(c), Op: op, Value: v}
}

// Where adds conditions joined by AND.
func (s *SelectBuilder) Where(conds ...Cond) *SelectBuilder {
	for _, c := range conds {
		s.AndWhere(c.Column, c.Op, c.Value)
	}
	return s
}

// Where adds conditions joined by AND.
func (u *UpdateBuilder) Where(conds ...Cond) *UpdateBuilder {
	for _, c := range conds {
		u.AndWhere(c.Column, c.Op, c.Value)
	}
	return u
}

// Where adds conditions joined by AND.
func (d *DeleteBuilder) Where(conds ...Cond) *DeleteBuilder {
	for _, c := range conds {
		d.AndWhere(c.Column, c.Op, c.Value)
	}
	return d
}
