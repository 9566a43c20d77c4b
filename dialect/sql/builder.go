package sql

import (
	"github.com/syssam/sqlb"
	"github.com/syssam/sqlb/dialect"
)

// Statement is a rendered-on-demand SQL statement with its bind values.
// All builders of this package implement it.
type Statement interface {
	// SQL renders the statement text.
	SQL() (string, error)
	// Vals returns the bound (non-raw) values in placeholder order.
	Vals() []Value
	// Query renders the statement and its driver arguments.
	Query() (string, []any, error)
}

// builder is the state shared by all statement builders.
type builder struct {
	op     string
	table  string
	style  dialect.Style
	styled bool // style set by Dialect or Style
	err    error
}

func newBuilder(op, table string) builder {
	return builder{op: op, table: table, style: dialect.PostgresStyle}
}

// setDialect switches the quoting and placeholder style.
func (b *builder) setDialect(name string) {
	s, err := dialect.StyleOf(name)
	if err != nil {
		b.addErr(sqlb.NewConfigError(b.op, err.Error()))
		return
	}
	b.setStyle(s)
}

func (b *builder) setStyle(s dialect.Style) {
	b.style = s
	b.styled = true
}

// addErr records the first builder error.
func (b *builder) addErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// check returns the recorded error or a missing table error.
func (b *builder) check() error {
	if b.err != nil {
		return b.err
	}
	if b.table == "" {
		return sqlb.NewConfigError(b.op, "missing table name")
	}
	return nil
}

func (b *builder) label() string {
	return b.table
}

func (b *builder) tableName() string {
	return dialect.TableName(b.style, b.table)
}

// query renders st and binds its values.
func query(st Statement) (string, []any, error) {
	text, err := st.SQL()
	if err != nil {
		return "", nil, err
	}
	var args Args
	for _, v := range st.Vals() {
		v.BindInto(&args)
	}
	return text, args.Values(), nil
}

// appendWhere parses a predicate into items.
func appendWhere(items []whereItem, name, op string, v any) []whereItem {
	return append(items, whereItem{name: name, op: op, value: valueOf(name, v)})
}
