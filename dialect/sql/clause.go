package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/sqlb/dialect"
)

// whereItem is a single "column op value" predicate. The operator is
// written as given; it is expected to be a literal in code, not user input.
type whereItem struct {
	name  string
	op    string
	value Value
}

// renderWhere returns the AND-joined predicates numbered from start, and
// the next free placeholder number. It returns an empty text for no items.
func renderWhere(s dialect.Style, items []whereItem, start int) (int, string) {
	if len(items) == 0 {
		return start, ""
	}
	preds := make([]string, len(items))
	for i, w := range items {
		var param string
		param, start = renderValue(s, w.value, start)
		preds[i] = dialect.ColumnName(s, w.name) + " " + w.op + " " + param
	}
	return start, "WHERE " + strings.Join(preds, " AND ")
}

// whereValues appends the non-raw values of items to vs.
func whereValues(vs []Value, items []whereItem) []Value {
	for _, w := range items {
		if _, ok := w.value.RawText(); !ok {
			vs = append(vs, w.value)
		}
	}
	return vs
}

// whereErr returns the first conversion failure of items.
func whereErr(items []whereItem) error {
	for _, w := range items {
		if bv, ok := w.value.(badValue); ok {
			return bv.err
		}
	}
	return nil
}

// OrderItem is a column of an ORDER BY clause.
type OrderItem struct {
	Column string
	Desc   bool
}

// ParseOrder parses the order shorthand: a leading "!" means descending,
// anything else is an ascending column name. It accepts any input.
func ParseOrder(s string) OrderItem {
	if col, ok := strings.CutPrefix(s, "!"); ok {
		return OrderItem{Column: col, Desc: true}
	}
	return OrderItem{Column: s}
}

// Asc returns an ascending OrderItem.
func Asc(column string) OrderItem { return OrderItem{Column: column} }

// Desc returns a descending OrderItem.
func Desc(column string) OrderItem { return OrderItem{Column: column, Desc: true} }

// String returns the item in shorthand form.
func (o OrderItem) String() string {
	if o.Desc {
		return "!" + o.Column
	}
	return o.Column
}

func (o OrderItem) render(s dialect.Style) string {
	if o.Desc {
		return dialect.ColumnName(s, o.Column) + " DESC"
	}
	return dialect.ColumnName(s, o.Column)
}

// renderOrderBy returns the ORDER BY clause, or an empty text for no items.
func renderOrderBy(s dialect.Style, items []OrderItem) string {
	if len(items) == 0 {
		return ""
	}
	cols := make([]string, len(items))
	for i, o := range items {
		cols[i] = o.render(s)
	}
	return "ORDER BY " + strings.Join(cols, ", ")
}

// renderColumns returns the comma-joined quoted columns.
func renderColumns(s dialect.Style, columns []string) string {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = dialect.ColumnName(s, c)
	}
	return strings.Join(cols, ", ")
}

// renderReturning returns the RETURNING clause, or an empty text for no
// columns.
func renderReturning(s dialect.Style, columns []string) string {
	if len(columns) == 0 {
		return ""
	}
	return "RETURNING " + renderColumns(s, columns)
}

// joinClauses joins the non-empty clauses with a space.
func joinClauses(clauses ...string) string {
	var b strings.Builder
	for _, c := range clauses {
		if c == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c)
	}
	return b.String()
}

// itoa formats LIMIT and OFFSET counts.
func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
