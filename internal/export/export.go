// Package export writes stored samples and aggregated series to Parquet files.
package export

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/verte-zerg/typecadence/internal/model"
)

// SampleRecord is one raw sample row.
type SampleRecord struct {
	// TS is seconds since the epoch.
	TS int64 `parquet:"ts,snappy"`

	// Time is TS as a timestamp column for tools that expect one.
	Time time.Time `parquet:"time,snappy"`

	WPM int32 `parquet:"wpm,snappy"`
}

// BucketRecord is one display bucket row. Mean is null for empty buckets.
type BucketRecord struct {
	Start      int64    `parquet:"start,snappy"`
	End        int64    `parquet:"end,snappy"`
	Multiplier int32    `parquet:"multiplier,snappy"`
	Count      int32    `parquet:"count,snappy"`
	Mean       *float64 `parquet:"mean,optional,snappy"`
}

// RangeReader is the store surface needed to export raw samples.
type RangeReader interface {
	ReadRange(ctx context.Context, start, end int64) ([]model.Sample, error)
}

// SampleRecords converts samples to rows.
func SampleRecords(samples []model.Sample) []SampleRecord {
	out := make([]SampleRecord, len(samples))
	for i, s := range samples {
		out[i] = SampleRecord{TS: s.TS, Time: time.Unix(s.TS, 0).UTC(), WPM: int32(s.WPM)}
	}
	return out
}

// BucketRecords converts a series to rows.
func BucketRecords(s model.Series) []BucketRecord {
	out := make([]BucketRecord, len(s.Buckets))
	for i, b := range s.Buckets {
		rec := BucketRecord{Start: b.Start, End: b.End, Multiplier: int32(s.Multiplier), Count: int32(b.Count)}
		if b.HasValue() && !math.IsNaN(b.Mean) {
			mean := b.Mean
			rec.Mean = &mean
		}
		out[i] = rec
	}
	return out
}

// Write encodes rows to w as a Parquet file.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

// WriteFile creates path and writes rows to it.
func WriteFile[T any](path string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

// Samples reads [start, end] from r and writes it to path. It returns the
// number of rows written.
func Samples(ctx context.Context, r RangeReader, start, end int64, path string) (int, error) {
	samples, err := r.ReadRange(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("read samples: %w", err)
	}
	if err := WriteFile(path, SampleRecords(samples)); err != nil {
		return 0, err
	}
	return len(samples), nil
}
