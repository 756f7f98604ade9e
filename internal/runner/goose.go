package runner

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose/v3"

	"github.com/meetcute/meetcute-setup/internal/dbx"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// GooseRunner applies SQL migrations from a directory with goose. It is the
// in-process alternative to an external migrate command.
type GooseRunner struct {
	open dbx.Opener
	dsn  string
	dir  string
}

// NewGooseRunner returns a runner applying the migrations in dir to the
// database at dsn.
func NewGooseRunner(open dbx.Opener, dsn, dir string) *GooseRunner {
	return &GooseRunner{open: open, dsn: dsn, dir: dir}
}

// Run opens the target database, applies pending migrations and closes the
// handle. goose's own log lines become the Result's Stdout.
func (g *GooseRunner) Run(ctx context.Context) Result {
	var out bytes.Buffer
	goose.SetLogger(log.New(&out, "", 0))
	defer goose.SetLogger(goose.NopLogger())

	goose.SetBaseFS(os.DirFS(g.dir))
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("pgx"); err != nil {
		return Result{Stdout: out.String(), Stderr: err.Error()}
	}

	err := dbx.WithDB(ctx, g.open, g.dsn, func(ctx context.Context, db *sql.DB) error {
		return gooseUpContext(ctx, db, ".")
	})
	if err != nil {
		return Result{Stdout: out.String(), Stderr: fmt.Sprintf("goose up: %v", err)}
	}
	return Result{Success: true, Stdout: out.String()}
}
