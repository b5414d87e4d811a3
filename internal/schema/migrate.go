package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sbilibin2017/fakebook-db/internal/logger"
)

//go:generate mockgen -source=migrate.go -destination=migrate_mock.go -package=schema

// Execer runs a statement. *sqlx.DB and *sqlx.Tx both satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Up creates every table, foreign key and index of m. Statements are idempotent.
func Up(ctx context.Context, exec Execer, m *Model) error {
	return run(ctx, exec, "up", m.CreateStatements())
}

// Down drops every table of m.
func Down(ctx context.Context, exec Execer, m *Model) error {
	return run(ctx, exec, "down", m.DropStatements())
}

func run(ctx context.Context, exec Execer, direction string, stmts []string) error {
	for i, stmt := range stmts {
		_, err := exec.ExecContext(ctx, stmt)

		logger.Log.Infow(
			"query", strings.Join(strings.Fields(stmt), " "),
			"migration", direction,
			"step", i+1,
			"error", err,
		)

		if err != nil {
			return fmt.Errorf("migrate %s step %d/%d: %w", direction, i+1, len(stmts), err)
		}
	}
	return nil
}
