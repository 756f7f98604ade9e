// Package dbx provides tiny database abstractions shared by the probe, the
// provisioner and the migration runner: a minimal query interface (DBTX)
// satisfied by *sql.DB, *sql.Conn and *sql.Tx, and an Opener seam for
// acquiring handles.
package dbx

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DBTX is the subset of database/sql used by the bootstrap code.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Opener returns a database handle for dsn. The caller owns the handle and
// must Close it.
type Opener func(ctx context.Context, dsn string) (*sql.DB, error)

// OpenPostgres opens dsn with the pgx stdlib driver. The pool is limited to a
// single connection since every stage issues its statements sequentially.
// No network traffic happens until the first query.
func OpenPostgres(_ context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// WithDB opens dsn, runs fn with the handle and closes it on every path,
// including panics. It is the scoped acquisition used by each stage.
func WithDB(ctx context.Context, open Opener, dsn string, fn func(ctx context.Context, db *sql.DB) error) (err error) {
	db, err := open(ctx, dsn)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("db close error: %w", cerr)
		}
	}()

	return fn(ctx, db)
}
