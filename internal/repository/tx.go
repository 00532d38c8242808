package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// txKey is the context key under which an open *sql.Tx is carried so
// that repository methods participate in an enclosing transaction
// without every call site threading a tx handle explicitly.
type txKey struct{}

// withTx runs fn inside a database transaction.  If the context
// already carries a transaction, fn joins it and commit/rollback is
// left to the outermost caller.  Otherwise a new transaction is
// opened; any error from fn rolls the whole unit back so no partial
// writes are ever visible.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// txFromContext extracts the transaction carried by ctx, if any.
func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// dbtx is satisfied by both *sql.DB and *sql.Tx so queries can run
// against whichever the context dictates.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func querier(ctx context.Context, db *sql.DB) dbtx {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

// isDuplicateEntry reports whether err is a MySQL duplicate-key
// violation (error 1062), the signal the unique slot index raises
// when two holds race for the same (court, date, slot).
func isDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}
