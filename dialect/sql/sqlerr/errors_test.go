package sqlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/lib/pq/pqerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlb"
)

type stateErr string

func (e stateErr) Error() string    { return "state " + string(e) }
func (e stateErr) SQLState() string { return string(e) }

func TestKindOf(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		kind       Kind
		constraint string
	}{
		{"nil", nil, None, ""},
		{"other", errors.New("connection refused"), None, ""},
		{"pq/unique", &pq.Error{Code: pqerror.UniqueViolation, Constraint: "todo_title_key"}, Unique, "todo_title_key"},
		{"pq/fk", &pq.Error{Code: pqerror.ForeignKeyViolation, Constraint: "todo_owner_fk"}, ForeignKey, "todo_owner_fk"},
		{"pq/check", &pq.Error{Code: pqerror.CheckViolation}, Check, ""},
		{"pq/notnull", &pq.Error{Code: pqerror.NotNullViolation}, NotNull, ""},
		{"pq/syntax", &pq.Error{Code: "42601"}, None, ""},
		{"pq/wrapped", fmt.Errorf("exec: %w", &pq.Error{Code: pqerror.UniqueViolation}), Unique, ""},
		{"mysql/duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, Unique, ""},
		{"mysql/parent", &mysql.MySQLError{Number: 1451}, ForeignKey, ""},
		{"mysql/child", &mysql.MySQLError{Number: 1452}, ForeignKey, ""},
		{"mysql/check", &mysql.MySQLError{Number: 3819}, Check, ""},
		{"mysql/null", &mysql.MySQLError{Number: 1048}, NotNull, ""},
		{"mysql/other", &mysql.MySQLError{Number: 1146}, None, ""},
		{"sqlstate", stateErr("23505"), Unique, ""},
		{"string/sqlite", errors.New("constraint failed: UNIQUE constraint failed: todo.title (2067)"), Unique, ""},
		{"string/postgres", errors.New(`ERROR: insert or update on table "todo" violates foreign key constraint "fk"`), ForeignKey, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, constraint := KindOf(tt.err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.constraint, constraint)
		})
	}
}

func TestIsViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: pqerror.UniqueViolation}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: pqerror.CheckViolation}))
	assert.True(t, IsForeignKeyViolation(&mysql.MySQLError{Number: 1452}))
	assert.True(t, IsCheckViolation(errors.New("CHECK constraint failed: positive")))
	assert.True(t, IsNotNullViolation(errors.New("NOT NULL constraint failed: todo.title")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestClassify(t *testing.T) {
	t.Run("Constraint", func(t *testing.T) {
		cause := &pq.Error{Code: pqerror.UniqueViolation, Constraint: "todo_title_key"}
		err := Classify(cause)
		require.True(t, sqlb.IsConstraintError(err))
		assert.Equal(t, "sqlb: constraint failed: unique violation", err.Error())

		var ce sqlb.ConstraintError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "todo_title_key", ce.Constraint())

		var pqErr *pq.Error
		assert.True(t, errors.As(err, &pqErr), "driver error is kept in the chain")
		assert.Equal(t, err, Classify(err), "classified errors are not wrapped twice")
	})

	t.Run("Passthrough", func(t *testing.T) {
		cause := errors.New("connection refused")
		assert.Same(t, cause, Classify(cause))
		assert.Nil(t, Classify(nil))
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "unique violation", Unique.String())
	assert.Equal(t, "foreign key violation", ForeignKey.String())
	assert.Equal(t, "check violation", Check.String())
	assert.Equal(t, "not null violation", NotNull.String())
	assert.Equal(t, "none", None.String())
}
