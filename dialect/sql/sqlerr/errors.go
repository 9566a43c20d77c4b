// Package sqlerr classifies driver errors of the supported databases.
package sqlerr

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/lib/pq/pqerror"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/syssam/sqlb"
)

// Kind is the class of a constraint violation.
type Kind int

// Constraint violation kinds.
const (
	None Kind = iota
	Unique
	ForeignKey
	Check
	NotNull
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Unique:
		return "unique violation"
	case ForeignKey:
		return "foreign key violation"
	case Check:
		return "check violation"
	case NotNull:
		return "not null violation"
	default:
		return "none"
	}
}

// MySQL error numbers for constraint violations.
const (
	mysqlBadNull                = 1048
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild        = 1452 // Cannot add or update a child row
	mysqlCheckConstraintViolate = 3819
)

// sqlStateError is implemented by drivers reporting SQLSTATE codes
// other than lib/pq, such as pgx.
type sqlStateError interface {
	SQLState() string
}

// KindOf returns the constraint violation kind of err and the constraint
// name, when the driver reports one.
func KindOf(err error) (Kind, string) {
	if err == nil {
		return None, ""
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pgKind(pqErr.Code), pqErr.Constraint
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return mysqlKind(myErr.Number), ""
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return sqliteKind(liteErr.Code()), ""
	}
	var stateErr sqlStateError
	if errors.As(err, &stateErr) {
		return pgKind(pqerror.Code(stateErr.SQLState())), ""
	}
	// Fallback to string matching for wrapped or foreign drivers.
	msg := err.Error()
	switch {
	case containsAny(msg, "violates unique constraint", "UNIQUE constraint failed", "Error 1062"):
		return Unique, ""
	case containsAny(msg, "violates foreign key constraint", "FOREIGN KEY constraint failed", "Error 1451", "Error 1452"):
		return ForeignKey, ""
	case containsAny(msg, "violates check constraint", "CHECK constraint failed", "Error 3819"):
		return Check, ""
	case containsAny(msg, "violates not-null constraint", "NOT NULL constraint failed", "Error 1048"):
		return NotNull, ""
	}
	return None, ""
}

func pgKind(code pqerror.Code) Kind {
	switch code {
	case pqerror.UniqueViolation:
		return Unique
	case pqerror.ForeignKeyViolation:
		return ForeignKey
	case pqerror.CheckViolation:
		return Check
	case pqerror.NotNullViolation:
		return NotNull
	default:
		return None
	}
}

func mysqlKind(num uint16) Kind {
	switch num {
	case mysqlDuplicateEntry:
		return Unique
	case mysqlForeignKeyParent, mysqlForeignKeyChild:
		return ForeignKey
	case mysqlCheckConstraintViolate:
		return Check
	case mysqlBadNull:
		return NotNull
	default:
		return None
	}
}

func sqliteKind(code int) Kind {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return Unique
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ForeignKey
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return Check
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return NotNull
	default:
		return None
	}
}

// IsUniqueViolation reports if the error resulted from a uniqueness
// constraint violation, e.g. a duplicate value in a unique index.
func IsUniqueViolation(err error) bool {
	k, _ := KindOf(err)
	return k == Unique
}

// IsForeignKeyViolation reports if the error resulted from a foreign-key
// constraint violation, e.g. a missing parent row.
func IsForeignKeyViolation(err error) bool {
	k, _ := KindOf(err)
	return k == ForeignKey
}

// IsCheckViolation reports if the error resulted from a check constraint
// violation.
func IsCheckViolation(err error) bool {
	k, _ := KindOf(err)
	return k == Check
}

// IsNotNullViolation reports if the error resulted from writing NULL into
// a NOT NULL column.
func IsNotNullViolation(err error) bool {
	k, _ := KindOf(err)
	return k == NotNull
}

// Classify wraps constraint violations in a sqlb.ConstraintError. Other
// errors are returned unchanged.
func Classify(err error) error {
	if sqlb.IsConstraintError(err) {
		return err
	}
	k, name := KindOf(err)
	if k == None {
		return err
	}
	return sqlb.NewConstraintError(k.String(), name, err)
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
