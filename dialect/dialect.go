package dialect

import (
	"context"
)

// Dialect names for SQL based databases.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ExecQuerier wraps the two database operations.
type ExecQuerier interface {
	// Exec executes a statement that does not return rows. v may be nil or
	// a *sql.Result receiving the driver result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a statement that returns rows into v (a *sql.Rows).
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for
// executing statements against a database.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in a transaction.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}
