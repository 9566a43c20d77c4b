package sql

import (
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlb"
)

// row is a single-row ColumnScanner.
type row struct {
	columns []string
	values  []any
}

func (r *row) Close() error               { return nil }
func (r *row) Columns() ([]string, error) { return r.columns, nil }
func (r *row) Err() error                 { return nil }
func (r *row) Next() bool                 { return false }

func (r *row) Scan(dest ...any) error {
	for i, d := range dest {
		*d.(*any) = r.values[i]
	}
	return nil
}

type base struct {
	ID    int64     `sqlb:"id"`
	CTime time.Time `sqlb:"ctime"`
}

type item struct {
	base
	Title   string
	Body    []byte
	Rank    float32
	Votes   uint8
	Flag    bool
	Note    *string
	Deleted sql.NullTime
	Ref     uuid.UUID
	Skip    string `db:"-"`
}

func TestScanRowStruct(t *testing.T) {
	now := time.Now().UTC()
	ref := uuid.New()
	r := &row{
		columns: []string{"id", "ctime", "title", "body", "rank", "votes", "flag", "note", "deleted", "ref", "unknown"},
		values:  []any{int64(7), now, []byte("t"), "b", 1.5, int64(3), int64(1), "n", nil, ref.String(), "x"},
	}
	var it item
	require.NoError(t, ScanRow(r, &it))
	assert.EqualValues(t, 7, it.ID)
	assert.Equal(t, now, it.CTime)
	assert.Equal(t, "t", it.Title)
	assert.Equal(t, []byte("b"), it.Body)
	assert.Equal(t, float32(1.5), it.Rank)
	assert.Equal(t, uint8(3), it.Votes)
	assert.True(t, it.Flag)
	require.NotNil(t, it.Note)
	assert.Equal(t, "n", *it.Note)
	assert.False(t, it.Deleted.Valid)
	assert.Equal(t, ref, it.Ref)
	assert.Empty(t, it.Skip)
}

func TestScanRowSingle(t *testing.T) {
	var n int
	require.NoError(t, ScanRow(&row{columns: []string{"count"}, values: []any{int64(4)}}, &n))
	assert.Equal(t, 4, n)

	var ts time.Time
	now := time.Now()
	require.NoError(t, ScanRow(&row{columns: []string{"now"}, values: []any{now}}, &ts))
	assert.Equal(t, now, ts)

	var s *string
	require.NoError(t, ScanRow(&row{columns: []string{"title"}, values: []any{nil}}, &s))
	assert.Nil(t, s)

	var ns sql.NullString
	require.NoError(t, ScanRow(&row{columns: []string{"title"}, values: []any{"x"}}, &ns))
	assert.Equal(t, sql.NullString{String: "x", Valid: true}, ns)

	var p *item
	require.NoError(t, ScanRow(&row{columns: []string{"title"}, values: []any{"x"}}, &p))
	require.NotNil(t, p)
	assert.Equal(t, "x", p.Title)

	err := ScanRow(&row{columns: []string{"a", "b"}, values: []any{1, 2}}, &n)
	assert.ErrorContains(t, err, "scanning 2 columns into a single int")

	err = ScanRow(&row{columns: []string{"a"}, values: []any{1}}, n)
	assert.ErrorContains(t, err, "non-nil pointer")
}

func TestScanRowConversion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		dest  any
		want  string
	}{
		{"null into int", nil, new(int), "NULL"},
		{"text into int", "seven", new(int), "string"},
		{"overflow", int64(300), new(int8), "int64"},
		{"negative into uint", int64(-1), new(uint), "int64"},
		{"unsigned overflow", uint64(1 << 63), new(int64), "uint64"},
		{"unsigned overflow int32", uint64(1 << 31), new(int32), "uint64"},
		{"float into string", 1.5, new(string), "float64"},
		{"bad bool", "maybe", new(bool), "string"},
		{"bad uuid", "zzz", new(uuid.UUID), "string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ScanRow(&row{columns: []string{"col"}, values: []any{tt.value}}, tt.dest)
			require.ErrorIs(t, err, sqlb.ErrConversion)
			var ce *sqlb.ConversionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "col", ce.Field)
			assert.Equal(t, tt.want, ce.Got)
		})
	}
}

func TestScanRowConvert(t *testing.T) {
	var (
		i64 int64
		f64 float64
		b   bool
		u16 uint16
		raw []byte
	)
	require.NoError(t, ScanRow(&row{columns: []string{"c"}, values: []any{[]byte("12")}}, &i64))
	assert.EqualValues(t, 12, i64)
	require.NoError(t, ScanRow(&row{columns: []string{"c"}, values: []any{int64(2)}}, &f64))
	assert.Equal(t, 2.0, f64)
	require.NoError(t, ScanRow(&row{columns: []string{"c"}, values: []any{uint64(math.MaxInt64)}}, &i64))
	assert.EqualValues(t, int64(math.MaxInt64), i64)
	require.NoError(t, ScanRow(&row{columns: []string{"c"}, values: []any{"true"}}, &b))
	assert.True(t, b)
	require.NoError(t, ScanRow(&row{columns: []string{"c"}, values: []any{"65535"}}, &u16))
	assert.EqualValues(t, 65535, u16)
	require.NoError(t, ScanRow(&row{columns: []string{"c"}, values: []any{"text"}}, &raw))
	assert.Equal(t, []byte("text"), raw)

	src := []byte("shared")
	require.NoError(t, ScanRow(&row{columns: []string{"c"}, values: []any{src}}, &raw))
	src[0] = 'X'
	assert.Equal(t, []byte("shared"), raw)
}
