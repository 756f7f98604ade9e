package provision

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"

	"github.com/meetcute/meetcute-setup/internal/common"
	"github.com/meetcute/meetcute-setup/internal/dbx"
	"github.com/meetcute/meetcute-setup/internal/logging"
)

// PostgreSQL truncates identifiers to 63 bytes.
const maxIdentifierLen = 63

var validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateName rejects anything that is not a plain identifier made of
// letters, digits and underscores. The name comes from configuration and ends
// up in a DDL statement that cannot take bind parameters.
func ValidateName(name string) error {
	if len(name) == 0 || len(name) > maxIdentifierLen || !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", common.ErrInvalidDatabaseName, name)
	}
	return nil
}

// Provisioner creates the application database when it is absent.
type Provisioner struct {
	logger logging.Logger
}

func NewProvisioner(logger logging.Logger) *Provisioner {
	return &Provisioner{logger: logger}
}

// Status tells how Ensure found the database.
type Status int

const (
	// StatusPresent means the database was already there, including when a
	// concurrent creator won the race.
	StatusPresent Status = iota
	// StatusCreated means this call issued the CREATE DATABASE.
	StatusCreated
)

func (s Status) String() string {
	if s == StatusCreated {
		return "created"
	}
	return "present"
}

// EnsureExists makes sure database name exists on the server behind db,
// which must be connected to an administrative database. It returns true
// when the database exists on return.
func (p *Provisioner) EnsureExists(ctx context.Context, db dbx.DBTX, name string) (bool, error) {
	if _, err := p.Ensure(ctx, db, name); err != nil {
		return false, err
	}
	return true, nil
}

// Ensure is EnsureExists reporting whether the database had to be created.
//
// The check-then-create is not transactional (CREATE DATABASE cannot run in
// a transaction block). A concurrent creator winning the race surfaces as
// duplicate_database and is reported as StatusPresent.
func (p *Provisioner) Ensure(ctx context.Context, db dbx.DBTX, name string) (Status, error) {
	if err := ValidateName(name); err != nil {
		return StatusPresent, err
	}

	exists, err := databaseExists(ctx, db, name)
	if err != nil {
		return StatusPresent, fmt.Errorf("catalog lookup: %w", err)
	}
	if exists {
		p.logger.Info(ctx, "database already exists", "database", name)
		return StatusPresent, nil
	}

	stmt := "CREATE DATABASE " + pgx.Identifier{name}.Sanitize()
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		if IsDuplicateDatabase(err) {
			p.logger.Warn(ctx, "database created concurrently, continuing",
				"database", name, "error", fmt.Errorf("%w: %v", common.ErrProvisioningRace, err))
			return StatusPresent, nil
		}
		return StatusPresent, fmt.Errorf("create database %q: %w", name, err)
	}

	p.logger.Info(ctx, "database created", "database", name)
	return StatusCreated, nil
}

func databaseExists(ctx context.Context, db dbx.DBTX, name string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM pg_database WHERE datname = $1", name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
