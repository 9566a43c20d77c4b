package sql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmhodges/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/syssam/sqlb/dialect"
)

// QueryStats holds statement execution counters.
type QueryStats struct {
	TotalQueries  atomic.Int64
	TotalExecs    atomic.Int64
	TotalDuration atomic.Int64 // nanoseconds
	SlowQueries   atomic.Int64
	Errors        atomic.Int64
}

// Stats returns a snapshot of the counters.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset zeroes the counters.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time copy of QueryStats.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// AvgDuration returns the mean statement duration.
func (s StatsSnapshot) AvgDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgDuration(),
		s.SlowQueries, s.Errors,
	)
}

// SlowQueryHook is called for every statement slower than the threshold.
type SlowQueryHook func(ctx context.Context, query string, args []any, took time.Duration)

// metrics are the prometheus collectors of a StatsDriver.
type metrics struct {
	statements *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		statements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sqlb",
			Name:      "statements_total",
			Help:      "Number of executed statements by kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sqlb",
			Name:      "statement_duration_seconds",
			Help:      "Statement latency by kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if err := reg.Register(m.statements); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		m.statements = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(m.duration); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		m.duration = are.ExistingCollector.(*prometheus.HistogramVec)
	}
	return m, nil
}

func (m *metrics) observe(kind string, took time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.statements.WithLabelValues(kind, outcome).Inc()
	m.duration.WithLabelValues(kind).Observe(took.Seconds())
}

// StatsDriver wraps a Driver and records statement counts, durations
// and slow statements.
type StatsDriver struct {
	*Driver
	stats   *QueryStats
	clk     clock.Clock
	metrics *metrics
	err     error

	mu            sync.RWMutex
	slowThreshold time.Duration
	slowHook      SlowQueryHook
}

// StatsOption configures a StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the slow statement threshold. Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowQueryHook sets the callback for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow statements as warnings on logger, or on the
// default logger if logger is nil.
func WithSlowQueryLog(logger *slog.Logger) StatsOption {
	if logger == nil {
		logger = slog.Default()
	}
	return WithSlowQueryHook(func(ctx context.Context, query string, args []any, took time.Duration) {
		logger.WarnContext(ctx, "slow query detected", "duration", took, "query", query, "args", len(args))
	})
}

// WithClock sets the clock used to time statements.
func WithClock(c clock.Clock) StatsOption {
	return func(s *StatsDriver) {
		s.clk = c
	}
}

// WithMetrics registers the sqlb_statements_total counter and the
// sqlb_statement_duration_seconds histogram on reg.
func WithMetrics(reg prometheus.Registerer) StatsOption {
	return func(s *StatsDriver) {
		m, err := newMetrics(reg)
		if err != nil {
			s.err = err
			return
		}
		s.metrics = m
	}
}

// NewStatsDriver wraps drv with statistics collection. It fails only if
// the metrics of WithMetrics cannot be registered.
//
//	drv, err := sql.Open(dialect.Postgres, dsn)
//	if err != nil {
//		return err
//	}
//	stats, err := sql.NewStatsDriver(drv,
//		sql.WithSlowThreshold(200*time.Millisecond),
//		sql.WithSlowQueryLog(logger),
//		sql.WithMetrics(prometheus.DefaultRegisterer),
//	)
func NewStatsDriver(drv *Driver, opts ...StatsOption) (*StatsDriver, error) {
	s := &StatsDriver{
		Driver:        drv,
		stats:         &QueryStats{},
		clk:           clock.New(),
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s, nil
}

// QueryStats returns the live counters.
func (d *StatsDriver) QueryStats() *QueryStats {
	return d.stats
}

// SlowThreshold returns the slow statement threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.slowThreshold
}

// SetSlowThreshold updates the slow statement threshold.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slowThreshold = threshold
}

// Query runs a query and records it.
func (d *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	start := d.clk.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.record(ctx, query, args, start, err, true)
	return err
}

// Exec runs a statement and records it.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := d.clk.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.record(ctx, query, args, start, err, false)
	return err
}

func (d *StatsDriver) record(ctx context.Context, query string, args any, start time.Time, err error, isQuery bool) {
	took := d.clk.Since(start)
	kind := "exec"
	if isQuery {
		kind = "query"
		d.stats.TotalQueries.Add(1)
	} else {
		d.stats.TotalExecs.Add(1)
	}
	d.stats.TotalDuration.Add(int64(took))
	if err != nil {
		d.stats.Errors.Add(1)
	}
	if d.metrics != nil {
		d.metrics.observe(kind, took, err)
	}
	d.mu.RLock()
	threshold, hook := d.slowThreshold, d.slowHook
	d.mu.RUnlock()
	if took > threshold {
		d.stats.SlowQueries.Add(1)
		if hook != nil {
			argv, _ := args.([]any)
			hook(ctx, query, argv, took)
		}
	}
}

// Tx starts a transaction whose statements are recorded too.
func (d *StatsDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsTx{Tx: tx, driver: d}, nil
}

// StatsTx is a transaction of a StatsDriver.
type StatsTx struct {
	dialect.Tx
	driver *StatsDriver
}

// Style returns the style of the driver that started the transaction.
func (tx *StatsTx) Style() dialect.Style { return tx.driver.Style() }

// Query runs a query in the transaction and records it.
func (tx *StatsTx) Query(ctx context.Context, query string, args, v any) error {
	start := tx.driver.clk.Now()
	err := tx.Tx.Query(ctx, query, args, v)
	tx.driver.record(ctx, query, args, start, err, true)
	return err
}

// Exec runs a statement in the transaction and records it.
func (tx *StatsTx) Exec(ctx context.Context, query string, args, v any) error {
	start := tx.driver.clk.Now()
	err := tx.Tx.Exec(ctx, query, args, v)
	tx.driver.record(ctx, query, args, start, err, false)
	return err
}

// DebugDriver logs every statement before running it.
type DebugDriver struct {
	*Driver
	logger *slog.Logger
	level  slog.Level
}

// DebugOption configures a DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLogger sets the logger. Default is slog.Default().
func DebugWithLogger(l *slog.Logger) DebugOption {
	return func(d *DebugDriver) {
		d.logger = l
	}
}

// DebugWithLevel sets the level statements are logged at. Default is
// slog.LevelDebug.
func DebugWithLevel(level slog.Level) DebugOption {
	return func(d *DebugDriver) {
		d.level = level
	}
}

// NewDebugDriver wraps drv with statement logging.
func NewDebugDriver(drv *Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{Driver: drv, logger: slog.Default(), level: slog.LevelDebug}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DebugDriver) log(ctx context.Context, msg string, attrs ...any) {
	d.logger.Log(ctx, d.level, msg, attrs...)
}

// Query logs and runs a query.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.log(ctx, "query", "sql", query, "args", args)
	return d.Driver.Query(ctx, query, args, v)
}

// Exec logs and runs a statement.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.log(ctx, "exec", "sql", query, "args", args)
	return d.Driver.Exec(ctx, query, args, v)
}

// Tx starts a logged transaction.
func (d *DebugDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	d.log(ctx, "begin transaction")
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &DebugTx{Tx: tx, driver: d}, nil
}

// DebugTx is a transaction of a DebugDriver.
type DebugTx struct {
	dialect.Tx
	driver *DebugDriver
}

// Style returns the style of the driver that started the transaction.
func (tx *DebugTx) Style() dialect.Style { return tx.driver.Style() }

// Query logs and runs a query in the transaction.
func (tx *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	tx.driver.log(ctx, "tx query", "sql", query, "args", args)
	return tx.Tx.Query(ctx, query, args, v)
}

// Exec logs and runs a statement in the transaction.
func (tx *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	tx.driver.log(ctx, "tx exec", "sql", query, "args", args)
	return tx.Tx.Exec(ctx, query, args, v)
}

// Commit logs and commits the transaction.
func (tx *DebugTx) Commit() error {
	tx.driver.log(context.Background(), "commit transaction")
	return tx.Tx.Commit()
}

// Rollback logs and aborts the transaction.
func (tx *DebugTx) Rollback() error {
	tx.driver.log(context.Background(), "rollback transaction")
	return tx.Tx.Rollback()
}

var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Tx     = (*StatsTx)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
	_ dialect.Tx     = (*DebugTx)(nil)
)
