package repo

import (
	"context"
	"database/sql"
)

// Executor is satisfied by both *sql.DB and *sql.Tx, so write methods can run
// inside the caller's transaction or standalone.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
