// Package store handles persistence of cadence samples.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/verte-zerg/typecadence/internal/model"

	_ "github.com/go-sql-driver/mysql" // MySQL driver.
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver.
	_ "modernc.org/sqlite"             // SQLite driver.
)

// DefaultMax is returned by MaxInWindow when the window holds no samples.
const DefaultMax = 60

// Options selects the backend and its connection string. For SQLite the DSN is a file path.
type Options struct {
	Backend Backend
	DSN     string
}

// Store wraps a single-writer, multi-reader sample table.
type Store struct {
	backend Backend
	writer  *sql.DB
	reader  *sql.DB

	closeOnce sync.Once
	closeErr  error
	mu        sync.RWMutex
	closed    bool
}

// Open opens or creates the SQLite database at path and applies migrations.
func Open(path string) (*Store, error) {
	return OpenWith(Options{Backend: SQLiteBackend, DSN: path})
}

// OpenWith opens the configured backend, applies migrations, and prepares the
// writer and reader pools.
func OpenWith(opts Options) (*Store, error) {
	backend := opts.Backend
	if backend == "" {
		backend = SQLiteBackend
	}
	if backend == SQLiteBackend {
		if err := os.MkdirAll(filepath.Dir(opts.DSN), 0o755); err != nil {
			return nil, wrapErr(backend, "open", err)
		}
	}
	if _, err := Migrate(backend, opts.DSN, -1); err != nil {
		return nil, wrapErr(backend, "migrate", err)
	}

	if backend != SQLiteBackend {
		db, err := sql.Open(backend.driverName(), opts.DSN)
		if err != nil {
			return nil, wrapErr(backend, "open", err)
		}
		if err := db.Ping(); err != nil {
			if cerr := db.Close(); cerr != nil {
				// Best-effort close on ping failure.
				_ = cerr
			}
			return nil, wrapErr(backend, "open", err)
		}
		return &Store{backend: backend, writer: db, reader: db}, nil
	}

	writer, err := sql.Open("sqlite", sqliteWriterDSN(opts.DSN))
	if err != nil {
		return nil, wrapErr(backend, "open", err)
	}
	// One writer connection serializes inserts and avoids "database is locked".
	writer.SetMaxOpenConns(1)
	reader, err := sql.Open("sqlite", sqliteReaderDSN(opts.DSN))
	if err != nil {
		if cerr := writer.Close(); cerr != nil {
			// Best-effort close on reader failure.
			_ = cerr
		}
		return nil, wrapErr(backend, "open", err)
	}
	return &Store{backend: backend, writer: writer, reader: reader}, nil
}

// Backend reports which engine the store is using.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close releases both pools. Calling it more than once is safe.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		err := s.writer.Close()
		if s.reader != s.writer {
			if rerr := s.reader.Close(); err == nil {
				err = rerr
			}
		}
		s.closeErr = wrapErr(s.backend, "close", err)
	})
	return s.closeErr
}

// Insert adds a sample unless one already exists at ts.
func (s *Store) Insert(ctx context.Context, ts int64, wpm int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return wrapErr(s.backend, "insert", ErrClosed)
	}
	if _, err := s.writer.ExecContext(ctx, s.backend.insertQuery(), ts, wpm); err != nil {
		storeErrors.WithLabelValues("insert").Inc()
		return wrapErr(s.backend, "insert", err)
	}
	storeWrites.Inc()
	return nil
}

// ReadRange returns samples with start <= ts <= end in timestamp order.
func (s *Store) ReadRange(ctx context.Context, start, end int64) ([]model.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, wrapErr(s.backend, "read range", ErrClosed)
	}
	if end < start {
		return nil, nil
	}
	rows, err := s.reader.QueryContext(ctx, s.backend.rangeQuery(), start, end)
	if err != nil {
		storeErrors.WithLabelValues("read_range").Inc()
		return nil, wrapErr(s.backend, "read range", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var samples []model.Sample
	for rows.Next() {
		var sample model.Sample
		if err := rows.Scan(&sample.TS, &sample.WPM); err != nil {
			return nil, wrapErr(s.backend, "read range", err)
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(s.backend, "read range", err)
	}
	return samples, nil
}

// MaxInWindow returns the largest wpm within [center-radius, center+radius],
// or DefaultMax when the window is empty.
func (s *Store) MaxInWindow(ctx context.Context, center, radius int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return DefaultMax, wrapErr(s.backend, "max in window", ErrClosed)
	}
	if radius < 0 {
		radius = -radius
	}
	var maxWPM sql.NullInt64
	err := s.reader.QueryRowContext(ctx, s.backend.maxQuery(), center-radius, center+radius).Scan(&maxWPM)
	if err != nil {
		storeErrors.WithLabelValues("max_in_window").Inc()
		return DefaultMax, wrapErr(s.backend, "max in window", err)
	}
	if !maxWPM.Valid {
		return DefaultMax, nil
	}
	return int(maxWPM.Int64), nil
}
