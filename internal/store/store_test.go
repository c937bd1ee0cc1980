package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestInsertIsIdempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.Insert(ctx, 1000, 50); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.Insert(ctx, 1000, 99); err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	samples, err := st.ReadRange(ctx, 1000, 1000)
	if err != nil {
		t.Fatalf("read range: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	if samples[0].TS != 1000 || samples[0].WPM != 50 {
		t.Fatalf("expected first value to survive, got %+v", samples[0])
	}
}

func TestReadRangeIsInclusiveAndOrdered(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for _, ts := range []int64{130, 100, 120, 99, 131, 110} {
		if err := st.Insert(ctx, ts, int(ts-90)); err != nil {
			t.Fatalf("insert %d: %v", ts, err)
		}
	}
	samples, err := st.ReadRange(ctx, 100, 130)
	if err != nil {
		t.Fatalf("read range: %v", err)
	}
	want := []int64{100, 110, 120, 130}
	if len(samples) != len(want) {
		t.Fatalf("expected %d samples, got %d: %+v", len(want), len(samples), samples)
	}
	for i, ts := range want {
		if samples[i].TS != ts {
			t.Fatalf("sample %d: expected ts %d, got %d", i, ts, samples[i].TS)
		}
	}

	empty, err := st.ReadRange(ctx, 200, 100)
	if err != nil {
		t.Fatalf("inverted range: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no samples for inverted range, got %d", len(empty))
	}
}

func TestMaxInWindow(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	got, err := st.MaxInWindow(ctx, 5000, 100)
	if err != nil {
		t.Fatalf("max on empty store: %v", err)
	}
	if got != DefaultMax {
		t.Fatalf("expected default %d, got %d", DefaultMax, got)
	}

	for ts, wpm := range map[int64]int{4900: 40, 5000: 72, 5100: 95, 5101: 120} {
		if err := st.Insert(ctx, ts, wpm); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	got, err = st.MaxInWindow(ctx, 5000, 100)
	if err != nil {
		t.Fatalf("max: %v", err)
	}
	if got != 95 {
		t.Fatalf("expected 95, got %d", got)
	}
	got, err = st.MaxInWindow(ctx, 5000, 10)
	if err != nil {
		t.Fatalf("max: %v", err)
	}
	if got != 72 {
		t.Fatalf("expected 72, got %d", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	err = st.Insert(context.Background(), 1, 1)
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StorageError, got %T", err)
	}
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected error to match ErrStorage")
	}
	if serr.Op != "insert" {
		t.Fatalf("expected op insert, got %q", serr.Op)
	}
}

func TestSamplesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "samples.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Insert(context.Background(), 42, 77); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })
	samples, err := reopened.ReadRange(context.Background(), 0, 100)
	if err != nil {
		t.Fatalf("read range: %v", err)
	}
	if len(samples) != 1 || samples[0].WPM != 77 {
		t.Fatalf("expected persisted sample, got %+v", samples)
	}
}

func TestConcurrentReadersDuringWrites(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ts := int64(0); ts < 200; ts++ {
			if err := st.Insert(ctx, ts, 60); err != nil {
				errs <- err
				return
			}
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if _, err := st.ReadRange(ctx, 0, 200); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent access: %v", err)
	}

	samples, err := st.ReadRange(ctx, 0, 200)
	if err != nil {
		t.Fatalf("read range: %v", err)
	}
	if len(samples) != 200 {
		t.Fatalf("expected 200 samples, got %d", len(samples))
	}
}

func TestMigrateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")

	res, err := Migrate(SQLiteBackend, path, -1)
	if err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if !res.Changed || res.To != 1 {
		t.Fatalf("expected migration to version 1, got %+v", res)
	}
	res, err = Migrate(SQLiteBackend, path, -1)
	if err != nil {
		t.Fatalf("second migrate up: %v", err)
	}
	if res.Changed {
		t.Fatalf("expected no change on second run, got %+v", res)
	}
	if _, err := Migrate(SQLiteBackend, path, 0); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if _, err := Migrate(SQLiteBackend, path, 1); err != nil {
		t.Fatalf("migrate to 1: %v", err)
	}
}

func TestParseBackend(t *testing.T) {
	cases := map[string]Backend{
		"":           SQLiteBackend,
		"SQLite":     SQLiteBackend,
		"postgresql": PostgresBackend,
		"mysql":      MySQLBackend,
	}
	for in, want := range cases {
		got, err := ParseBackend(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseBackend("oracle"); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestOpenDefaultsToSQLite(t *testing.T) {
	st := openTestStore(t)
	if st.Backend() != SQLiteBackend {
		t.Fatalf("expected sqlite backend, got %q", st.Backend())
	}
}
