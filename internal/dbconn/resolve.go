package dbconn

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/meetcute/meetcute-setup/internal/common"
	"github.com/meetcute/meetcute-setup/internal/config"
)

// LookupFunc has the shape of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Chain returns a LookupFunc that consults each of fns in order and returns
// the first non-empty value.
func Chain(fns ...LookupFunc) LookupFunc {
	return func(key string) (string, bool) {
		for _, fn := range fns {
			if v, ok := fn(key); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}
}

// Resolve builds a Descriptor from lookup. A non-empty DATABASE_URL takes
// precedence over the discrete DB_* variables. TLS is required when NODE_ENV
// is "production".
//
// Errors wrap common.ErrMalformedConnectionString when DATABASE_URL cannot be
// parsed or DB_PORT is not a port number, and common.ErrMissingConfig when a
// discrete field is absent.
func Resolve(lookup LookupFunc) (Descriptor, error) {
	mode, _ := lookup(config.NodeEnv)
	tls := mode == config.ProductionMode

	if raw, ok := lookup(config.DatabaseURL); ok && strings.TrimSpace(raw) != "" {
		d, err := parseURL(strings.TrimSpace(raw))
		if err != nil {
			return Descriptor{}, err
		}
		d.TLSRequired = tls
		return d, nil
	}

	d, err := fromFields(lookup)
	if err != nil {
		return Descriptor{}, err
	}
	d.TLSRequired = tls
	return d, nil
}

func parseURL(raw string) (Descriptor, error) {
	u, err := url.Parse(raw)
	if err != nil {
		// url.Error repeats the raw input, which carries the password
		return Descriptor{}, fmt.Errorf("%w: %s: cannot parse", common.ErrMalformedConnectionString, config.DatabaseURL)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return Descriptor{}, fmt.Errorf("%w: %s: unsupported scheme %q", common.ErrMalformedConnectionString, config.DatabaseURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return Descriptor{}, fmt.Errorf("%w: %s: no host", common.ErrMalformedConnectionString, config.DatabaseURL)
	}

	d := Descriptor{
		Host:     u.Hostname(),
		Port:     DefaultPort,
		Database: strings.TrimPrefix(u.Path, "/"),
		Source:   SourceURL,
	}
	if p := u.Port(); p != "" {
		port, err := parsePort(p)
		if err != nil {
			return Descriptor{}, fmt.Errorf("%w: %s: %v", common.ErrMalformedConnectionString, config.DatabaseURL, err)
		}
		d.Port = port
	}
	if u.User != nil {
		d.User = u.User.Username()
		d.Password, _ = u.User.Password()
	}
	if d.Database == "" {
		return Descriptor{}, fmt.Errorf("%w: %s: no database name", common.ErrMalformedConnectionString, config.DatabaseURL)
	}
	return d, nil
}

func fromFields(lookup LookupFunc) (Descriptor, error) {
	fields := []string{config.DBHost, config.DBPort, config.DBName, config.DBUser, config.DBPassword}
	values := make(map[string]string, len(fields))
	var missing []string
	for _, f := range fields {
		v, ok := lookup(f)
		if !ok || v == "" {
			missing = append(missing, f)
			continue
		}
		values[f] = v
	}
	if len(missing) > 0 {
		return Descriptor{}, fmt.Errorf("%w: %s", common.ErrMissingConfig, strings.Join(missing, ", "))
	}

	port, err := parsePort(values[config.DBPort])
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %s: %v", common.ErrMalformedConnectionString, config.DBPort, err)
	}

	return Descriptor{
		User:     values[config.DBUser],
		Password: values[config.DBPassword],
		Host:     values[config.DBHost],
		Port:     port,
		Database: values[config.DBName],
		Source:   SourceDiscrete,
	}, nil
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(s)
	if err != nil || p <= 0 || p > 65535 {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return p, nil
}
