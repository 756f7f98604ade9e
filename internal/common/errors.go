// Package common defines the sentinel errors shared by the configuration and
// bootstrap layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Configuration errors.
	ErrMissingConfig             = errors.New("missing required configuration")
	ErrMalformedConnectionString = errors.New("malformed connection string")

	// Database errors.
	ErrConnection          = errors.New("database connection failed")
	ErrDatabaseMissing     = errors.New("database does not exist")
	ErrProvisioningRace    = errors.New("database created concurrently")
	ErrInvalidDatabaseName = errors.New("invalid database name")

	// External process errors (migrations, seeding).
	ErrProcessExecution = errors.New("process execution failed")
)
