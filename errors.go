package sqlb

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a statement that expects a row
	// returns none.
	ErrNotFound = errors.New("sqlb: no rows in result set")

	// ErrNotSingular is returned when a statement that expects exactly one
	// row returns zero or multiple rows.
	ErrNotSingular = errors.New("sqlb: result not singular")

	// ErrMissingWhere is returned when a guarded UPDATE or DELETE is
	// rendered without any WHERE predicate.
	ErrMissingWhere = errors.New("sqlb: guarded statement has no where clause")

	// ErrInvalidConfig indicates a builder that cannot be rendered.
	ErrInvalidConfig = errors.New("sqlb: invalid statement configuration")

	// ErrConversion indicates a value that could not be converted
	// to or from its Go representation.
	ErrConversion = errors.New("sqlb: value conversion failed")
)

// NotSingularError represents an error when a statement expects a singular
// result but receives zero or multiple rows.
type NotSingularError struct {
	label string
	count int // Number of rows returned (-1 if unknown)
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	if e.count >= 0 {
		return fmt.Sprintf("sqlb: %s not singular (got %d rows, expected 1)", e.label, e.count)
	}
	return fmt.Sprintf("sqlb: %s not singular", e.label)
}

// Is reports whether the target error matches NotSingularError.
// A zero-row result also matches ErrNotFound.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular || (err == ErrNotFound && e.count == 0)
}

// Label returns the statement label.
func (e *NotSingularError) Label() string {
	return e.label
}

// Count returns the number of rows, or -1 if unknown.
func (e *NotSingularError) Count() int {
	return e.count
}

// NewNotSingularError returns a new NotSingularError for the given label.
func NewNotSingularError(label string) *NotSingularError {
	return &NotSingularError{label: label, count: -1}
}

// NewNotSingularErrorWithCount returns a new NotSingularError with the row count.
func NewNotSingularErrorWithCount(label string, count int) *NotSingularError {
	return &NotSingularError{label: label, count: count}
}

// IsNotSingular returns true if the error is a NotSingularError.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// IsNotFound returns true if the error reports an empty result.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound)
}

// GuardError is returned when a guarded UPDATE or DELETE is rendered
// with no WHERE predicate. Use the UpdateAll/DeleteAll entry points to
// affect every row of a table.
type GuardError struct {
	Op    string // "update" or "delete"
	Table string
}

// Error returns the error string.
func (e *GuardError) Error() string {
	return fmt.Sprintf("sqlb: refusing to render %s on %q without a where clause", e.Op, e.Table)
}

// Is reports whether the target matches ErrMissingWhere.
func (e *GuardError) Is(err error) bool {
	return err == ErrMissingWhere
}

// NewGuardError returns a new GuardError.
func NewGuardError(op, table string) *GuardError {
	return &GuardError{Op: op, Table: table}
}

// IsGuardError returns true if the error is a GuardError.
func IsGuardError(err error) bool {
	if err == nil {
		return false
	}
	var e *GuardError
	return errors.As(err, &e)
}

// ConfigError represents a builder configuration that cannot be rendered,
// such as a missing table name or an unknown dialect.
type ConfigError struct {
	Op      string // Statement kind (e.g., "insert", "select")
	Message string
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("sqlb: %s: %s", e.Op, e.Message)
	}
	return "sqlb: " + e.Message
}

// Is reports whether the target matches ErrInvalidConfig.
func (e *ConfigError) Is(err error) bool {
	return err == ErrInvalidConfig
}

// NewConfigError returns a new ConfigError.
func NewConfigError(op, message string) *ConfigError {
	return &ConfigError{Op: op, Message: message}
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e)
}

// ConversionError reports a value that could not be converted between
// its Go type and its database representation.
type ConversionError struct {
	Field string // Field or column name
	Want  string // Requested Go type
	Got   string // Actual Go type, or "NULL"
	Err   error  // Optional underlying error
}

// Error returns the error string.
func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("sqlb: cannot convert field %q", e.Field)
	switch {
	case e.Want != "" && e.Got != "":
		msg += fmt.Sprintf(" from %s to %s", e.Got, e.Want)
	case e.Got != "":
		msg += fmt.Sprintf(" of type %s", e.Got)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is reports whether the target matches ErrConversion.
func (e *ConversionError) Is(err error) bool {
	return err == ErrConversion
}

// NewConversionError returns a new ConversionError for the given field.
func NewConversionError(field, want, got string) *ConversionError {
	return &ConversionError{Field: field, Want: want, Got: got}
}

// IsConversionError returns true if the error is a ConversionError.
func IsConversionError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConversionError
	return errors.As(err, &e)
}

// ConstraintError represents a database constraint violation error.
type ConstraintError struct {
	msg  string
	name string
	wrap error
}

// Error returns the error string.
func (e ConstraintError) Error() string {
	return fmt.Sprintf("sqlb: constraint failed: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e ConstraintError) Unwrap() error {
	return e.wrap
}

// Constraint returns the name of the violated constraint, if the driver
// reported one.
func (e ConstraintError) Constraint() string {
	return e.name
}

// NewConstraintError returns a new ConstraintError with the given message.
func NewConstraintError(msg, constraint string, wrap error) error {
	return ConstraintError{msg: msg, name: constraint, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e ConstraintError
	return errors.As(err, &e)
}

// QueryError wraps a driver error with the operation that produced it.
type QueryError struct {
	Op    string // Operation (e.g., "exec", "query", "scan")
	Query string // Rendered SQL text
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	return fmt.Sprintf("sqlb: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(op, query string, err error) *QueryError {
	return &QueryError{Op: op, Query: query, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// RollbackError wraps an error that occurred during a transaction rollback.
type RollbackError struct {
	Err error // Error returned by Rollback
}

// Error returns the error string.
func (e *RollbackError) Error() string {
	return fmt.Sprintf("sqlb: rollback failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RollbackError) Unwrap() error {
	return e.Err
}
