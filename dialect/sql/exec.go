package sql

import (
	"context"

	"github.com/syssam/sqlb"
	"github.com/syssam/sqlb/dialect"
	"github.com/syssam/sqlb/dialect/sql/sqlerr"
)

// Exec renders st, executes it on ex and returns the number of affected
// rows. ex may be a driver, a connection or a transaction. A builder
// without an explicit Dialect or Style renders in the style of ex when
// ex has one, as Driver, Tx and their decorators do.
func Exec(ctx context.Context, ex dialect.ExecQuerier, st Statement) (int64, error) {
	query, args, err := styledFor(ex, st).Query()
	if err != nil {
		return 0, err
	}
	var res Result
	if err := ex.Exec(ctx, query, args, &res); err != nil {
		return 0, sqlb.NewQueryError("exec", query, sqlerr.Classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, sqlb.NewQueryError("exec", query, err)
	}
	return n, nil
}

// FetchAll renders st, runs it on ex and decodes every row into a T,
// in the order returned by the database. Rendering follows Exec; see
// ScanRow for the decoding rules.
func FetchAll[T any](ctx context.Context, ex dialect.ExecQuerier, st Statement) ([]T, error) {
	var out []T
	err := fetch(ctx, ex, st, func(rows *Rows) error {
		var v T
		if err := ScanRow(rows, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchOne is like FetchAll, but expects exactly one row. Zero or more
// than one row fail with a NotSingularError; zero rows also match
// sqlb.ErrNotFound.
func FetchOne[T any](ctx context.Context, ex dialect.ExecQuerier, st Statement) (T, error) {
	var zero T
	v, n, err := fetchFirst[T](ctx, ex, st)
	switch {
	case err != nil:
		return zero, err
	case n != 1:
		return zero, sqlb.NewNotSingularErrorWithCount(labelOf(st), n)
	default:
		return v, nil
	}
}

// FetchOptional is like FetchOne, but returns nil for zero rows.
func FetchOptional[T any](ctx context.Context, ex dialect.ExecQuerier, st Statement) (*T, error) {
	v, n, err := fetchFirst[T](ctx, ex, st)
	switch {
	case err != nil:
		return nil, err
	case n == 0:
		return nil, nil
	case n > 1:
		return nil, sqlb.NewNotSingularErrorWithCount(labelOf(st), n)
	default:
		return &v, nil
	}
}

// fetchFirst decodes the first row and counts all rows.
func fetchFirst[T any](ctx context.Context, ex dialect.ExecQuerier, st Statement) (T, int, error) {
	var (
		v T
		n int
	)
	err := fetch(ctx, ex, st, func(rows *Rows) error {
		n++
		if n > 1 {
			return nil
		}
		return ScanRow(rows, &v)
	})
	return v, n, err
}

// fetch runs st and calls fn for each row.
func fetch(ctx context.Context, ex dialect.ExecQuerier, st Statement, fn func(*Rows) error) (rerr error) {
	query, args, err := styledFor(ex, st).Query()
	if err != nil {
		return err
	}
	rows := &Rows{}
	if err := ex.Query(ctx, query, args, rows); err != nil {
		return sqlb.NewQueryError("query", query, sqlerr.Classify(err))
	}
	defer func() {
		if err := rows.Close(); err != nil && rerr == nil {
			rerr = sqlb.NewQueryError("query", query, err)
		}
	}()
	for rows.Next() {
		if err := fn(rows); err != nil {
			if sqlb.IsConversionError(err) {
				return err
			}
			return sqlb.NewQueryError("scan", query, err)
		}
	}
	if err := rows.Err(); err != nil {
		return sqlb.NewQueryError("query", query, sqlerr.Classify(err))
	}
	return nil
}

// styledFor returns st rendered in the style of ex. Builders with an
// explicit style and executors without one leave st as is.
func styledFor(ex dialect.ExecQuerier, st Statement) Statement {
	se, ok := ex.(interface{ Style() dialect.Style })
	if !ok {
		return st
	}
	if b, ok := st.(interface{ withStyle(dialect.Style) Statement }); ok {
		return b.withStyle(se.Style())
	}
	return st
}

// labelOf returns the table name of builder statements.
func labelOf(st Statement) string {
	if l, ok := st.(interface{ label() string }); ok {
		return l.label()
	}
	return "result"
}
