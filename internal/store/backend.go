package store

import (
	"fmt"
	"net/url"
	"strings"
)

// Backend names a supported database engine.
type Backend string

const (
	SQLiteBackend   Backend = "sqlite"
	PostgresBackend Backend = "postgres"
	MySQLBackend    Backend = "mysql"
)

// ParseBackend normalizes a backend name from config or flags.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return SQLiteBackend, nil
	case "postgres", "postgresql", "pg":
		return PostgresBackend, nil
	case "mysql", "mariadb":
		return MySQLBackend, nil
	default:
		return "", fmt.Errorf("%w: %q (use sqlite, postgres or mysql)", ErrUnknownBackend, name)
	}
}

func (b Backend) driverName() string {
	switch b {
	case PostgresBackend:
		return "pgx"
	case MySQLBackend:
		return "mysql"
	default:
		return "sqlite"
	}
}

func (b Backend) insertQuery() string {
	switch b {
	case PostgresBackend:
		return `INSERT INTO samples (ts, wpm) VALUES ($1, $2) ON CONFLICT (ts) DO NOTHING`
	case MySQLBackend:
		return `INSERT IGNORE INTO samples (ts, wpm) VALUES (?, ?)`
	default:
		return `INSERT OR IGNORE INTO samples (ts, wpm) VALUES (?, ?)`
	}
}

func (b Backend) rangeQuery() string {
	if b == PostgresBackend {
		return `SELECT ts, wpm FROM samples WHERE ts >= $1 AND ts <= $2 ORDER BY ts ASC`
	}
	return `SELECT ts, wpm FROM samples WHERE ts >= ? AND ts <= ? ORDER BY ts ASC`
}

func (b Backend) maxQuery() string {
	if b == PostgresBackend {
		return `SELECT MAX(wpm) FROM samples WHERE ts >= $1 AND ts <= $2`
	}
	return `SELECT MAX(wpm) FROM samples WHERE ts >= ? AND ts <= ?`
}

// sqliteDSN builds a modernc DSN for path with the given pragmas.
func sqliteDSN(path string, pragmas ...string) string {
	if len(pragmas) == 0 {
		return path
	}
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}

func sqliteWriterDSN(path string) string {
	return sqliteDSN(path, "busy_timeout(5000)", "journal_mode(WAL)", "synchronous(NORMAL)")
}

func sqliteReaderDSN(path string) string {
	return sqliteDSN(path, "busy_timeout(5000)", "query_only(1)")
}
