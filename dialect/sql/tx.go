package sql

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/sqlb"
	"github.com/syssam/sqlb/dialect"
)

// WithTx runs fn in a transaction of drv. The transaction is committed if
// fn returns nil, and rolled back if fn fails or panics. A failed
// rollback is joined to the error of fn as a sqlb.RollbackError.
//
//	err := sql.WithTx(ctx, drv, func(tx dialect.Tx) error {
//		if _, err := sql.Insert("todo").Data(fields...).Exec(ctx, tx); err != nil {
//			return err
//		}
//		_, err := sql.Update("stats").Set("todos", sql.Raw("todos + 1")).AndWhereEq("id", 1).Exec(ctx, tx)
//		return err
//	})
func WithTx(ctx context.Context, drv dialect.Driver, fn func(tx dialect.Tx) error) (rerr error) {
	tx, err := drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("sqlb: starting a transaction: %w", err)
	}
	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return errors.Join(err, &sqlb.RollbackError{Err: rerr})
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlb: committing transaction: %w", err)
	}
	return nil
}
