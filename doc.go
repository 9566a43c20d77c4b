// Package sqlb holds the error taxonomy shared by the sqlb packages.
//
// Statements are built and executed with the dialect/sql package:
//
//	import "github.com/syssam/sqlb/dialect/sql"
//
//	q := sql.Select("id", "title").
//	    Table("todo").
//	    AndWhere("id", "=", 5).
//	    OrderBy("!id").
//	    Limit(10)
//	query, args, err := q.Query()
//	// SELECT "id", "title" FROM "todo" WHERE "id" = $1 ORDER BY "id" DESC LIMIT 10
//	// [5]
//
// # Errors
//
// Every failure is reported through a typed error:
//
//   - GuardError (ErrMissingWhere): a guarded UPDATE or DELETE without WHERE.
//   - ConfigError (ErrInvalidConfig): a builder that cannot be rendered.
//   - QueryError: a driver error, wrapped unchanged.
//   - ConstraintError: a recognized constraint violation.
//   - NotSingularError (ErrNotSingular, ErrNotFound): unexpected row count.
//   - ConversionError (ErrConversion): a value that does not fit its Go type.
package sqlb
