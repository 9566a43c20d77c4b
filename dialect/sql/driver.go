package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/syssam/sqlb/dialect"
)

// Driver is a dialect.Driver on top of a database/sql connection pool.
type Driver struct {
	Conn
}

// NewDriver returns a Driver for the dialect name backed by c.
func NewDriver(name string, c Conn) *Driver {
	c.dialect = name
	return &Driver{Conn: c}
}

// Open opens the database/sql driver registered as driverName and wraps
// it. driverName doubles as the dialect name; "sqlite3" and "pgx" style
// aliases resolve through Dialect.
func Open(driverName, source string) (*Driver, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, err
	}
	return OpenDB(driverName, db), nil
}

// OpenDB wraps an already opened pool.
func OpenDB(name string, db *sql.DB) *Driver {
	return NewDriver(name, Conn{ExecQuerier: db})
}

// DB returns the underlying pool.
func (d *Driver) DB() *sql.DB {
	return d.ExecQuerier.(*sql.DB)
}

// Dialect returns the dialect name, normalized to one of the dialect
// package constants when the driver name starts with one.
func (d *Driver) Dialect() string {
	return d.Conn.Dialect()
}


// Tx starts a transaction.
func (d *Driver) Tx(ctx context.Context) (dialect.Tx, error) {
	return d.BeginTx(ctx, nil)
}

// BeginTx starts a transaction with options.
func (d *Driver) BeginTx(ctx context.Context, opts *TxOptions) (dialect.Tx, error) {
	tx, err := d.DB().BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{Conn: Conn{ExecQuerier: tx, dialect: d.dialect}, Tx: tx}, nil
}

// Close closes the pool.
func (d *Driver) Close() error { return d.DB().Close() }

// Tx is a dialect.Tx backed by a database/sql transaction.
type Tx struct {
	Conn
	Tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit() error { return t.Tx.Commit() }

// Rollback aborts the transaction.
func (t *Tx) Rollback() error { return t.Tx.Rollback() }

// ExecQuerier is the subset of *sql.DB, *sql.Conn and *sql.Tx used by Conn.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn adapts an ExecQuerier to dialect.ExecQuerier. Exec accepts a nil
// or *Result destination and Query a *Rows destination. Both expect the
// arguments as []any, as returned by Statement.Query.
type Conn struct {
	ExecQuerier
	dialect string
}

// Dialect returns the normalized dialect name of the connection.
func (c Conn) Dialect() string {
	for _, name := range []string{dialect.MySQL, dialect.SQLite, dialect.Postgres} {
		if strings.HasPrefix(c.dialect, name) {
			return name
		}
	}
	if c.dialect == "pgx" {
		return dialect.Postgres
	}
	return c.dialect
}

// Style returns the quoting and placeholder style of the dialect.
// Unknown dialects use the PostgreSQL style.
func (c Conn) Style() dialect.Style {
	s, err := dialect.StyleOf(c.Dialect())
	if err != nil {
		return dialect.PostgresStyle
	}
	return s
}

// Exec executes a statement that returns no rows.
func (c Conn) Exec(ctx context.Context, query string, args, v any) (rerr error) {
	argv, ok := args.([]any)
	if !ok {
		return fmt.Errorf("dialect/sql: invalid type %T. expect []any for args", args)
	}
	ex, release, err := c.withSession(ctx)
	if err != nil {
		return fmt.Errorf("dialect/sql: exec: set session vars: %w", err)
	}
	if release != nil {
		defer func() { rerr = errors.Join(rerr, release()) }()
	}
	switch v := v.(type) {
	case nil:
		if _, err := ex.ExecContext(ctx, query, argv...); err != nil {
			return fmt.Errorf("dialect/sql: exec: %w", err)
		}
	case *Result:
		res, err := ex.ExecContext(ctx, query, argv...)
		if err != nil {
			return fmt.Errorf("dialect/sql: exec: %w", err)
		}
		*v = res
	default:
		return fmt.Errorf("dialect/sql: invalid type %T. expect *sql.Result", v)
	}
	return nil
}

// Query executes a statement that returns rows. The caller must close
// the rows.
func (c Conn) Query(ctx context.Context, query string, args, v any) error {
	rows, ok := v.(*Rows)
	if !ok {
		return fmt.Errorf("dialect/sql: invalid type %T. expect *sql.Rows", v)
	}
	argv, ok := args.([]any)
	if !ok {
		return fmt.Errorf("dialect/sql: invalid type %T. expect []any for args", args)
	}
	ex, release, err := c.withSession(ctx)
	if err != nil {
		return fmt.Errorf("dialect/sql: query: set session vars: %w", err)
	}
	r, err := ex.QueryContext(ctx, query, argv...)
	if err != nil {
		if release != nil {
			err = errors.Join(err, release())
		}
		return fmt.Errorf("dialect/sql: query: %w", err)
	}
	*rows = Rows{r}
	if release != nil {
		rows.ColumnScanner = rowsWithCloser{r, release}
	}
	return nil
}

type (
	// Rows holds the rows of a Query call.
	Rows struct{ ColumnScanner }
	// Result is an alias to sql.Result.
	Result = sql.Result
	// TxOptions is an alias to sql.TxOptions.
	TxOptions = sql.TxOptions
	// NullString is an alias to sql.NullString.
	NullString = sql.NullString
	// NullInt64 is an alias to sql.NullInt64.
	NullInt64 = sql.NullInt64
	// NullTime is an alias to sql.NullTime.
	NullTime = sql.NullTime
)

// ColumnScanner is the part of *sql.Rows used to decode rows.
type ColumnScanner interface {
	Close() error
	Columns() ([]string, error)
	Err() error
	Next() bool
	Scan(dest ...any) error
}

// rowsWithCloser runs closer after closing the rows.
type rowsWithCloser struct {
	ColumnScanner
	closer func() error
}

func (r rowsWithCloser) Close() error {
	return errors.Join(r.ColumnScanner.Close(), r.closer())
}

// Session variables.

var identRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

type sessionKey struct{}

type sessionVar struct{ name, value string }

// WithVar returns a context that sets the session variable name to value
// before every statement executed with it. On a pooled connection the
// variable is reset once the statement completes.
func WithVar(ctx context.Context, name, value string) context.Context {
	vars, _ := ctx.Value(sessionKey{}).([]sessionVar)
	vars = append(vars[:len(vars):len(vars)], sessionVar{name: name, value: value})
	return context.WithValue(ctx, sessionKey{}, vars)
}

// WithIntVar calls WithVar with the decimal form of value.
func WithIntVar(ctx context.Context, name string, value int) context.Context {
	return WithVar(ctx, name, strconv.Itoa(value))
}

// VarFromContext returns the last value set for name on ctx.
func VarFromContext(ctx context.Context, name string) (string, bool) {
	vars, _ := ctx.Value(sessionKey{}).([]sessionVar)
	for i := len(vars) - 1; i >= 0; i-- {
		if vars[i].name == name {
			return vars[i].value, true
		}
	}
	return "", false
}

// withSession applies the session variables of ctx. A pool is pinned to
// a single connection and the returned release func resets the
// variables and returns the connection.
func (c Conn) withSession(ctx context.Context) (ExecQuerier, func() error, error) {
	vars, _ := ctx.Value(sessionKey{}).([]sessionVar)
	if len(vars) == 0 {
		return c, nil, nil
	}
	var (
		ex      ExecQuerier
		release func() error
		resets  []string
		seen    = make(map[string]bool, len(vars))
	)
	switch e := c.ExecQuerier.(type) {
	case *sql.Tx, *sql.Conn:
		ex = e
	case *sql.DB:
		conn, err := e.Conn(ctx)
		if err != nil {
			return nil, nil, err
		}
		ex, release = conn, conn.Close
	default:
		return nil, nil, fmt.Errorf("unsupported ExecQuerier type: %T", c.ExecQuerier)
	}
	fail := func(err error) (ExecQuerier, func() error, error) {
		if release != nil {
			err = errors.Join(err, release())
		}
		return nil, nil, err
	}
	for _, v := range vars {
		if len(v.name) > 128 || !identRe.MatchString(v.name) {
			return fail(fmt.Errorf("invalid session variable name: %q", v.name))
		}
		if !seen[v.name] {
			seen[v.name] = true
			switch c.Dialect() {
			case dialect.Postgres:
				resets = append(resets, "RESET "+v.name)
			case dialect.MySQL:
				resets = append(resets, "SET "+v.name+" = NULL")
			}
		}
		if _, err := ex.ExecContext(ctx, fmt.Sprintf("SET %s = '%s'", v.name, escapeLiteral(v.value))); err != nil {
			return fail(err)
		}
	}
	if closeConn := release; release != nil && len(resets) > 0 {
		release = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for _, q := range resets {
				if _, err := ex.ExecContext(ctx, q); err != nil {
					return errors.Join(err, closeConn())
				}
			}
			return closeConn()
		}
	}
	return ex, release, nil
}

// escapeLiteral escapes s for a single-quoted SQL literal.
func escapeLiteral(s string) string {
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	return strings.NewReplacer(`\`, `\\`, `'`, `''`).Replace(s)
}

var (
	_ dialect.Driver = (*Driver)(nil)
	_ dialect.Tx     = (*Tx)(nil)
)
