// Package dbconn resolves the database connection parameters of the backend
// from either a DATABASE_URL or the discrete DB_* variables.
package dbconn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// DefaultPort is used when a DATABASE_URL omits the port.
const DefaultPort = 5432

// Source records which configuration form produced a Descriptor.
type Source int

const (
	// SourceDiscrete means the descriptor came from DB_HOST, DB_PORT, ...
	// A missing database may be created automatically.
	SourceDiscrete Source = iota
	// SourceURL means the descriptor came from DATABASE_URL. The database
	// must already exist.
	SourceURL
)

func (s Source) String() string {
	switch s {
	case SourceURL:
		return "url"
	case SourceDiscrete:
		return "discrete"
	default:
		return "unknown"
	}
}

// Descriptor is a read-only set of connection parameters.
type Descriptor struct {
	User        string
	Password    string
	Host        string
	Port        int
	Database    string
	TLSRequired bool
	Source      Source
}

// DSN returns a postgres:// URL for database on the descriptor's server.
// Credentials are escaped, so passwords containing '@' or '/' are safe.
func (d Descriptor) DSN(database string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + database,
	}
	q := url.Values{}
	if d.TLSRequired {
		q.Set("sslmode", "require")
	} else {
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// TargetDSN returns the DSN of the descriptor's own database.
func (d Descriptor) TargetDSN() string {
	return d.DSN(d.Database)
}

// String describes the descriptor without the password.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s@%s/%s (source=%s, tls=%t)",
		d.User, net.JoinHostPort(d.Host, strconv.Itoa(d.Port)), d.Database, d.Source, d.TLSRequired)
}
