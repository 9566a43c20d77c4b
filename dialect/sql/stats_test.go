package sql

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmhodges/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlb/dialect"
)

// slowConn advances a fake clock on every statement.
type slowConn struct {
	clk  clock.FakeClock
	took time.Duration
	err  error
}

func (c *slowConn) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	c.clk.Add(c.took)
	if c.err != nil {
		return nil, c.err
	}
	return sqlmock.NewResult(0, 1), nil
}

func (c *slowConn) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	c.clk.Add(c.took)
	return nil, errors.New("no rows")
}

func TestStatsDriver(t *testing.T) {
	clk := clock.NewFake()
	conn := &slowConn{clk: clk, took: 50 * time.Millisecond}
	var slow []string
	drv, err := NewStatsDriver(NewDriver(dialect.Postgres, Conn{ExecQuerier: conn}),
		WithClock(clk),
		WithSlowThreshold(100*time.Millisecond),
		WithSlowQueryHook(func(_ context.Context, query string, args []any, took time.Duration) {
			slow = append(slow, query)
			assert.Equal(t, []any{1}, args)
			assert.Equal(t, 150*time.Millisecond, took)
		}),
	)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, drv.Exec(ctx, "UPDATE fast", []any{1}, nil))
	conn.took = 150 * time.Millisecond
	require.NoError(t, drv.Exec(ctx, "UPDATE slow", []any{1}, nil))
	conn.took = 0
	require.Error(t, drv.Query(ctx, "SELECT 1", []any{1}, &Rows{}))

	s := drv.QueryStats().Stats()
	assert.EqualValues(t, 1, s.TotalQueries)
	assert.EqualValues(t, 2, s.TotalExecs)
	assert.EqualValues(t, 1, s.SlowQueries)
	assert.EqualValues(t, 1, s.Errors)
	assert.Equal(t, 200*time.Millisecond, s.TotalDuration)
	assert.Equal(t, 200*time.Millisecond/3, s.AvgDuration())
	assert.Equal(t, []string{"UPDATE slow"}, slow)
	assert.Contains(t, s.String(), "queries=1 execs=2")

	drv.SetSlowThreshold(time.Second)
	assert.Equal(t, time.Second, drv.SlowThreshold())
	drv.QueryStats().Reset()
	assert.Equal(t, StatsSnapshot{}, drv.QueryStats().Stats())
	assert.Zero(t, StatsSnapshot{}.AvgDuration())
}

func TestStatsDriverMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	clk := clock.NewFake()
	conn := &slowConn{clk: clk, took: time.Millisecond}
	drv, err := NewStatsDriver(NewDriver(dialect.Postgres, Conn{ExecQuerier: conn}), WithClock(clk), WithMetrics(reg))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, drv.Exec(ctx, "DELETE 1", []any{}, nil))
	require.NoError(t, drv.Exec(ctx, "DELETE 2", []any{}, nil))
	conn.err = errors.New("boom")
	require.Error(t, drv.Exec(ctx, "DELETE 3", []any{}, nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(drv.metrics.statements.WithLabelValues("exec", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(drv.metrics.statements.WithLabelValues("exec", "error")))
	n, err := testutil.GatherAndCount(reg, "sqlb_statement_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A second driver on the same registry shares the collectors.
	conn.err = nil
	other, err := NewStatsDriver(NewDriver(dialect.Postgres, Conn{ExecQuerier: conn}), WithClock(clk), WithMetrics(reg))
	require.NoError(t, err)
	require.NoError(t, other.Exec(ctx, "DELETE 4", []any{}, nil))
	assert.Equal(t, 3.0, testutil.ToFloat64(drv.metrics.statements.WithLabelValues("exec", "ok")))
}

func TestStatsDriverSlowQueryLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	clk := clock.NewFake()
	conn := &slowConn{clk: clk, took: time.Second}
	drv, err := NewStatsDriver(NewDriver(dialect.Postgres, Conn{ExecQuerier: conn}), WithClock(clk), WithSlowQueryLog(logger))
	require.NoError(t, err)

	require.NoError(t, drv.Exec(context.Background(), "VACUUM", []any{}, nil))
	assert.Contains(t, buf.String(), "slow query detected")
	assert.Contains(t, buf.String(), "query=VACUUM")
}

func TestStatsTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv, err := NewStatsDriver(OpenDB(dialect.Postgres, db))
	require.NoError(t, err)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()
	tx, err := drv.Tx(ctx)
	require.NoError(t, err)
	require.IsType(t, &StatsTx{}, tx)
	require.NoError(t, tx.Exec(ctx, "INSERT INTO todo DEFAULT VALUES", []any{}, nil))
	rows := &Rows{}
	require.NoError(t, tx.Query(ctx, "SELECT id FROM todo", []any{}, rows))
	require.NoError(t, rows.Close())
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())

	s := drv.QueryStats().Stats()
	assert.EqualValues(t, 1, s.TotalExecs)
	assert.EqualValues(t, 1, s.TotalQueries)
}

func TestDebugDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	drv := NewDebugDriver(OpenDB(dialect.Postgres, db), DebugWithLogger(logger))
	ctx := context.Background()

	mock.ExpectExec("DELETE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()
	require.NoError(t, drv.Exec(ctx, `DELETE FROM "todo" WHERE "id" = $1`, []any{1}, nil))
	tx, err := drv.Tx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, `UPDATE "todo" SET "title" = $1`, []any{"x"}, nil))
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())

	out := buf.String()
	for _, want := range []string{"msg=exec", "begin transaction", `msg="tx exec"`, "rollback transaction"} {
		assert.Contains(t, out, want)
	}

	buf.Reset()
	quiet := NewDebugDriver(OpenDB(dialect.Postgres, db), DebugWithLogger(logger), DebugWithLevel(slog.LevelDebug-4))
	mock.ExpectExec("DELETE").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, quiet.Exec(ctx, "DELETE FROM todo", []any{}, nil))
	assert.Empty(t, buf.String())
}
