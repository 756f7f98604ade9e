package provision

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the bootstrap reacts to.
const (
	codeInvalidCatalogName = "3D000" // database does not exist
	codeDuplicateDatabase  = "42P04"
	codeUniqueViolation    = "23505" // pg_database_datname_index under a concurrent create
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsDatabaseMissing reports whether err is the server saying the requested
// database does not exist.
func IsDatabaseMissing(err error) bool {
	return pgCode(err) == codeInvalidCatalogName
}

// IsDuplicateDatabase reports whether err is a CREATE DATABASE losing a race
// against another creator.
func IsDuplicateDatabase(err error) bool {
	switch pgCode(err) {
	case codeDuplicateDatabase, codeUniqueViolation:
		return true
	}
	return false
}
