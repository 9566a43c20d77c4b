// Package sql builds single-table SQL statements and runs them through
// database/sql.
//
// # Builders
//
// Four mutable builders render parameterized statements. Each method
// returns the builder for chaining; Clone copies it for reuse:
//
//   - InsertBuilder: INSERT ... VALUES ... [RETURNING]
//   - SelectBuilder: SELECT ... [WHERE] [ORDER BY] [LIMIT] [OFFSET]
//   - UpdateBuilder: UPDATE ... SET ... [WHERE] [RETURNING]
//   - DeleteBuilder: DELETE FROM ... [WHERE] [RETURNING]
//
// Update and Delete refuse to render without a WHERE clause; UpdateAll
// and DeleteAll lift the guard.
//
//	q, args, err := sql.Update("todo").
//	    Data(sql.F("title", "x")).
//	    AndWhereEq("id", 7).
//	    Query()
//	// UPDATE "todo" SET "title" = $1 WHERE "id" = $2
//	// [x 7]
//
// # Values
//
// Field values are converted when they are added. Supported scalars bind
// as is, nil pointers bind NULL, and Raw text is written into the
// statement without a parameter:
//
//	sql.Insert("todo").Data(
//	    sql.F("title", "a"),
//	    sql.F("ctime", sql.Raw("now()")),
//	)
//
// Other named types are registered once with Register. A conversion
// failure is kept by the builder and returned when it renders.
//
// # Dialects
//
// Rendering follows the PostgreSQL style by default: double-quoted
// identifiers and $N placeholders. Dialect switches to the MySQL or
// SQLite style:
//
//	sql.Select().From("todo").Dialect(dialect.MySQL)
//	// SELECT * FROM `todo`
//
// A builder without Dialect or Style that runs on a Driver, a Tx or one
// of their decorators is rendered in the style of that executor.
//
// # Execution
//
// Statements run against anything implementing dialect.ExecQuerier:
// a Driver, a Tx, or the StatsDriver and DebugDriver decorators.
//
//	drv, err := sql.Open(dialect.Postgres, dsn)
//	todo, err := sql.FetchOne[Todo](ctx, drv, sql.Select().From("todo").AndWhereEq("id", 1))
//
// Rows are decoded into structs by column name or, for a single column,
// into any scannable type. Driver errors are wrapped in sqlb.QueryError and
// constraint violations are reported as sqlb.ConstraintError.
package sql
