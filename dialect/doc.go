// Package dialect provides the database dialect abstraction for sqlb.
//
// It defines the executor contracts used by the statement builders and the
// Style strategy that controls identifier quoting and placeholder syntax.
//
// # Dialect Constants
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Executor Interfaces
//
// ExecQuerier is implemented by drivers, connections and transactions:
//
//	type ExecQuerier interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	}
//
// Driver adds transactions and lifecycle, Tx adds Commit and Rollback.
//
// # Quoting
//
// Identifiers are quoted segment by segment, so a schema-qualified name
// keeps its dot:
//
//	dialect.QuoteTable("public.todo") // "public"."todo"
//	dialect.QuoteColumn("count(*)")    // count(*)
//
// A name containing "(" is passed through as an expression. Quoting is not
// a sanitizer: callers must not pass untrusted input as identifiers.
package dialect
