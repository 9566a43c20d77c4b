package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteTable(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"todo", `"todo"`},
		{"public.todo", `"public"."todo"`},
		{"schema.table", `"schema"."table"`},
		{`we"ird`, `"we""ird"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteTable(tt.in))
		})
	}
}

func TestQuoteColumn(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"id", `"id"`},
		{"a.b", `"a"."b"`},
		{"public.todo.title", `"public"."todo"."title"`},
		{"count(*)", "count(*)"},
		{"lower(title)", "lower(title)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteColumn(tt.in))
		})
	}
}

func TestStyleOf(t *testing.T) {
	tests := []struct {
		dialect     string
		table       string
		placeholder string
	}{
		{Postgres, `"public"."todo"`, "$3"},
		{SQLite, `"public"."todo"`, "?"},
		{MySQL, "`public`.`todo`", "?"},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			s, err := StyleOf(tt.dialect)
			require.NoError(t, err)
			assert.Equal(t, tt.table, TableName(s, "public.todo"))
			assert.Equal(t, tt.placeholder, s.Placeholder(3))
		})
	}

	_, err := StyleOf("oracle")
	assert.EqualError(t, err, `dialect: unsupported dialect "oracle"`)
}

func TestColumnNameStyle(t *testing.T) {
	assert.Equal(t, "`a`.`b`", ColumnName(MySQLStyle, "a.b"))
	assert.Equal(t, "count(*)", ColumnName(MySQLStyle, "count(*)"))
	assert.Equal(t, "`x``y`", MySQLStyle.QuoteIdent("x`y"))
}
