package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	pq "github.com/lib/pq"

	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/logger"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

func isURL(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
}

// IsConnString reports whether value looks like a PostgreSQL connection
// string rather than a SQLite file path.
func IsConnString(value string) bool {
	return isURL(value) || strings.Contains(value, "host=") || strings.Contains(value, "dbname=")
}

// dsnHasKey reports whether a key=value DSN sets key. Keys compare
// case-insensitively; values are never matched.
func dsnHasKey(connStr, key string) bool {
	for _, field := range strings.Fields(connStr) {
		k, _, ok := strings.Cut(field, "=")
		if ok && strings.EqualFold(strings.TrimSpace(k), key) {
			return true
		}
	}
	return false
}

// hasParam looks for key in either the URL query or the DSN pairs.
func hasParam(connStr, key string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for k := range u.Query() {
			if strings.EqualFold(k, key) {
				return true
			}
		}
		return false
	}
	return dsnHasKey(connStr, key)
}

// withSearchPath pins the connection to the application schema unless the
// caller already chose one.
func withSearchPath(connStr string) string {
	if !isURL(connStr) {
		if dsnHasKey(connStr, "search_path") {
			return connStr
		}
		return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
	}

	u, err := url.Parse(connStr)
	if err != nil {
		logger.Warn("Failed to parse Postgres connection string", "error", err)
		return connStr
	}
	if hasParam(connStr, "search_path") {
		return connStr
	}
	q := u.Query()
	q.Set("search_path", constants.AppName)
	u.RawQuery = q.Encode()
	return u.String()
}

func hasSSLMode(connStr string) bool {
	return hasParam(connStr, "sslmode")
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConnectionString}, args...)...)
}

// ValidateConnString accepts a URL or key=value DSN that lib/pq can parse.
// A string carrying a password is rejected with ErrEmbeddedCredentials; the
// password belongs in ~/.pgpass or PGPASSWORD.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, invalid("connection string cannot be empty")
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return false, invalid("invalid connection string format: %v", err)
	}

	if !isURL(connStr) {
		if dsnHasKey(connStr, "password") {
			return false, ErrEmbeddedCredentials
		}
		return true, nil
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return false, invalid("failed to parse connection URL: %v", err)
	}
	if _, set := u.User.Password(); set {
		return false, ErrEmbeddedCredentials
	}
	if u.Host == "" && u.User == nil && strings.Trim(u.Path, "/") == "" {
		return false, invalid("connection URL is incomplete")
	}
	return true, nil
}
