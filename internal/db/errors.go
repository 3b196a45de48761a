package db

import (
	"fmt"
	"strings"

	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// wrapConnectionError turns a raw pgx connect failure into a message that
// says what to check. The result wraps both sparkload.ErrConnectionFailed
// and the original error, so retry classification still sees the cause.
func wrapConnectionError(err error, host string, port int, database string) error {
	msg := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	var hint string
	switch {
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "actively refused"):
		hint = fmt.Sprintf(`connection refused to %s

Is PostgreSQL running and listening there?
  pg_isready -h %s -p %d`, addr, host, port)

	case strings.Contains(msg, "no such host"):
		hint = fmt.Sprintf(`cannot resolve host %q

Check the hostname (-h, $PGHOST) and your DNS.`, host)

	case strings.Contains(msg, "password authentication failed"):
		hint = fmt.Sprintf(`password authentication failed for database %q

Check the username (-U, $PGUSER) and password ($PGPASSWORD or ~/.pgpass).`, database)

	case strings.Contains(msg, "does not exist"):
		hint = fmt.Sprintf(`database %q does not exist

Create it with:
  sparkload schema reset`, database)

	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		hint = fmt.Sprintf(`connection to %s timed out

The server may be overloaded, or a firewall may be dropping packets.`, addr)

	case strings.Contains(msg, "ssl") || strings.Contains(msg, "tls"):
		hint = `SSL/TLS handshake failed

Check --sslmode and the sslcert/sslkey/sslrootcert settings.`

	case strings.Contains(msg, "too many connections"):
		hint = fmt.Sprintf(`too many connections to database %q

Another loader may still be running against it.`, database)

	default:
		return fmt.Errorf("%w: %w", sparkload.ErrConnectionFailed, err)
	}

	return fmt.Errorf("%s\n\n%w: %w", hint, sparkload.ErrConnectionFailed, err)
}
