package sqlb_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/sqlb"
)

func TestNotSingularError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := sqlb.NewNotSingularErrorWithCount("todo", 2)
		assert.Equal(t, "sqlb: todo not singular (got 2 rows, expected 1)", err.Error())

		err = sqlb.NewNotSingularError("todo")
		assert.Equal(t, "sqlb: todo not singular", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := sqlb.NewNotSingularErrorWithCount("todo", 3)
		assert.True(t, errors.Is(err, sqlb.ErrNotSingular))
		assert.False(t, errors.Is(err, sqlb.ErrNotFound))
	})

	t.Run("ZeroRowsIsNotFound", func(t *testing.T) {
		err := sqlb.NewNotSingularErrorWithCount("todo", 0)
		assert.True(t, errors.Is(err, sqlb.ErrNotSingular))
		assert.True(t, sqlb.IsNotFound(err))
		assert.True(t, sqlb.IsNotFound(fmt.Errorf("wrapper: %w", err)))
	})

	t.Run("IsNotSingular", func(t *testing.T) {
		err := sqlb.NewNotSingularError("todo")
		assert.True(t, sqlb.IsNotSingular(err))
		assert.True(t, sqlb.IsNotSingular(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, sqlb.IsNotSingular(sqlb.ErrNotSingular))
		assert.False(t, sqlb.IsNotSingular(errors.New("other error")))
		assert.False(t, sqlb.IsNotSingular(nil))
	})

	t.Run("Count", func(t *testing.T) {
		assert.Equal(t, -1, sqlb.NewNotSingularError("todo").Count())
		assert.Equal(t, 4, sqlb.NewNotSingularErrorWithCount("todo", 4).Count())
		assert.Equal(t, "todo", sqlb.NewNotSingularError("todo").Label())
	})
}

func TestGuardError(t *testing.T) {
	err := sqlb.NewGuardError("delete", "todo")
	assert.Equal(t, `sqlb: refusing to render delete on "todo" without a where clause`, err.Error())
	assert.True(t, errors.Is(err, sqlb.ErrMissingWhere))
	assert.True(t, sqlb.IsGuardError(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, sqlb.IsGuardError(errors.New("other error")))
	assert.False(t, sqlb.IsGuardError(nil))
}

func TestConfigError(t *testing.T) {
	err := sqlb.NewConfigError("select", "missing table name")
	assert.Equal(t, "sqlb: select: missing table name", err.Error())
	assert.True(t, errors.Is(err, sqlb.ErrInvalidConfig))
	assert.True(t, sqlb.IsConfigError(err))
	assert.Equal(t, "sqlb: unknown dialect", sqlb.NewConfigError("", "unknown dialect").Error())
}

func TestConversionError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := sqlb.NewConversionError("title", "int64", "string")
		assert.Equal(t, `sqlb: cannot convert field "title" from string to int64`, err.Error())

		err = &sqlb.ConversionError{Field: "meta", Got: "map[string]int"}
		assert.Equal(t, `sqlb: cannot convert field "meta" of type map[string]int`, err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		cause := errors.New("overflow")
		err := &sqlb.ConversionError{Field: "n", Want: "int8", Got: "int64", Err: cause}
		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, sqlb.ErrConversion)
		assert.Contains(t, err.Error(), "overflow")
	})

	t.Run("IsConversionError", func(t *testing.T) {
		err := sqlb.NewConversionError("title", "int64", "string")
		assert.True(t, sqlb.IsConversionError(fmt.Errorf("wrapper: %w", err)))
		assert.False(t, sqlb.IsConversionError(nil))
	})
}

func TestConstraintError(t *testing.T) {
	cause := errors.New("pq: duplicate key value violates unique constraint")
	err := sqlb.NewConstraintError("unique violation", "todo_title_key", cause)
	assert.Equal(t, "sqlb: constraint failed: unique violation", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, sqlb.IsConstraintError(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, sqlb.IsConstraintError(cause))

	var ce sqlb.ConstraintError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, "todo_title_key", ce.Constraint())
}

func TestQueryError(t *testing.T) {
	cause := errors.New("connection refused")
	err := sqlb.NewQueryError("exec", `DELETE FROM "todo"`, cause)
	assert.Equal(t, "sqlb: exec: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, sqlb.IsQueryError(err))
	assert.Equal(t, `DELETE FROM "todo"`, err.Query)
	assert.False(t, sqlb.IsQueryError(cause))
}

func TestRollbackError(t *testing.T) {
	cause := errors.New("tx closed")
	err := &sqlb.RollbackError{Err: cause}
	assert.Equal(t, "sqlb: rollback failed: tx closed", err.Error())
	assert.ErrorIs(t, err, cause)
}
