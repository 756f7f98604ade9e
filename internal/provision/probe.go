// Package provision checks that the database server is reachable and makes
// sure the application database exists.
package provision

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/meetcute/meetcute-setup/internal/common"
	"github.com/meetcute/meetcute-setup/internal/dbconn"
	"github.com/meetcute/meetcute-setup/internal/dbx"
	"github.com/meetcute/meetcute-setup/internal/logging"
)

// ProbeResult is the classified outcome of Probe.
//
// Reachable=false carries Err (wrapping common.ErrConnection).
// Reachable=true with DatabaseExists=false means the server answered but the
// target database is absent.
type ProbeResult struct {
	Reachable      bool
	DatabaseExists bool
	Err            error
}

// Prober reaches the server through the administrative database and then
// the target database, one handle at a time.
type Prober struct {
	open    dbx.Opener
	adminDB string
	timeout time.Duration
	logger  logging.Logger
}

// NewProber returns a Prober. adminDB is the database that always exists on
// the server ("postgres" on a stock install). A zero timeout disables the
// per-round-trip deadline.
func NewProber(open dbx.Opener, adminDB string, timeout time.Duration, logger logging.Logger) *Prober {
	return &Prober{open: open, adminDB: adminDB, timeout: timeout, logger: logger}
}

// Probe checks liveness with SELECT 1 on the administrative database, then
// on the target database. SQLSTATE 3D000 from the target is "reachable but
// missing"; any other failure is "unreachable".
func (p *Prober) Probe(ctx context.Context, d dbconn.Descriptor) ProbeResult {
	if err := p.ping(ctx, d.DSN(p.adminDB)); err != nil {
		if IsDatabaseMissing(err) {
			// the administrative database itself is gone; nothing to create from
			return ProbeResult{Err: fmt.Errorf("%w: admin database %q: %v", common.ErrConnection, p.adminDB, err)}
		}
		return ProbeResult{Err: fmt.Errorf("%w: %v", common.ErrConnection, err)}
	}
	p.logger.Info(ctx, "server reachable", "host", d.Host, "port", d.Port)

	if err := p.ping(ctx, d.TargetDSN()); err != nil {
		if IsDatabaseMissing(err) {
			p.logger.Warn(ctx, "target database missing", "database", d.Database)
			return ProbeResult{Reachable: true, DatabaseExists: false}
		}
		return ProbeResult{Err: fmt.Errorf("%w: database %q: %v", common.ErrConnection, d.Database, err)}
	}

	return ProbeResult{Reachable: true, DatabaseExists: true}
}

func (p *Prober) ping(ctx context.Context, dsn string) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	return dbx.WithDB(ctx, p.open, dsn, func(ctx context.Context, db *sql.DB) error {
		var one int
		return db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
	})
}
