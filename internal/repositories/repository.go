package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/fakebook-db/internal/logger"
)

// TxGetter returns the transaction bound to ctx, or nil to run on the pool.
type TxGetter func(ctx context.Context) *sqlx.Tx

type base struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func (b base) executor(ctx context.Context) sqlx.ExtContext {
	if b.txGetter != nil {
		if tx := b.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return b.db
}

// exec runs a statement that must touch exactly one row.
func (b base) exec(ctx context.Context, query string, args ...any) error {
	res, err := b.executor(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logQuery(query, args, rowsAffected, err)

	if err != nil {
		return mapError(err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func logQuery(query string, args []any, result any, err error) {
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}

// nullTime leaves the column to its store default when t is zero.
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
