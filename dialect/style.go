package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

// Style is the identifier quoting and placeholder convention of a dialect.
// Custom styles may be passed to the statement builders to target other
// databases.
type Style interface {
	// QuoteIdent quotes a single identifier segment.
	QuoteIdent(segment string) string
	// Placeholder returns the bind placeholder for the n-th (1-based)
	// bound value.
	Placeholder(n int) string
}

// quoteStyle is the Style of the built-in dialects.
type quoteStyle struct {
	quote    string
	numbered bool
}

func (s quoteStyle) QuoteIdent(segment string) string {
	return s.quote + strings.ReplaceAll(segment, s.quote, s.quote+s.quote) + s.quote
}

func (s quoteStyle) Placeholder(n int) string {
	if s.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Built-in styles.
var (
	// PostgresStyle renders "ident" and $N placeholders.
	PostgresStyle Style = quoteStyle{quote: `"`, numbered: true}
	// SQLiteStyle renders "ident" and ? placeholders.
	SQLiteStyle Style = quoteStyle{quote: `"`}
	// MySQLStyle renders `ident` and ? placeholders.
	MySQLStyle Style = quoteStyle{quote: "`"}
)

// StyleOf returns the Style of the given dialect name.
func StyleOf(name string) (Style, error) {
	switch name {
	case Postgres:
		return PostgresStyle, nil
	case MySQL:
		return MySQLStyle, nil
	case SQLite:
		return SQLiteStyle, nil
	default:
		return nil, fmt.Errorf("dialect: unsupported dialect %q", name)
	}
}

// TableName quotes a table name with the given style. Each dot-separated
// segment is quoted on its own.
func TableName(s Style, name string) string {
	if !strings.Contains(name, ".") {
		return s.QuoteIdent(name)
	}
	parts := strings.Split(name, ".")
	for i := range parts {
		parts[i] = s.QuoteIdent(parts[i])
	}
	return strings.Join(parts, ".")
}

// ColumnName quotes a column name like TableName, except that a name
// containing "(" is an expression such as count(*) and is returned as is.
func ColumnName(s Style, name string) string {
	if strings.Contains(name, "(") {
		return name
	}
	return TableName(s, name)
}

// QuoteTable quotes a table name with double quotes.
func QuoteTable(name string) string {
	return TableName(PostgresStyle, name)
}

// QuoteColumn quotes a column name with double quotes.
func QuoteColumn(name string) string {
	return ColumnName(PostgresStyle, name)
}
