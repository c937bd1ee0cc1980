package store

import (
	"context"
	"testing"
	"time"

	"github.com/verte-zerg/typecadence/internal/sampler"
)

// TestSamplerWritesThroughToStore feeds steady typing into a sampler backed by
// a real store and reads the sample back.
func TestSamplerWritesThroughToStore(t *testing.T) {
	cases := []struct {
		name     string
		interval time.Duration
		wantWPM  int
	}{
		{name: "200ms", interval: 200 * time.Millisecond, wantWPM: 60},
		{name: "150ms", interval: 150 * time.Millisecond, wantWPM: 80},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := openTestStore(t)
			ctx := context.Background()
			smp, err := sampler.New(st, sampler.Options{}, nil)
			if err != nil {
				t.Fatalf("new sampler: %v", err)
			}

			// Bin [1000, 1005) fills completely; the press at or after 1005 closes it.
			start := time.Unix(1000, 0)
			for at := time.Duration(0); at <= 6*time.Second; at += tc.interval {
				smp.HandleEvent(ctx, sampler.Event{Kind: sampler.Press, Char: 'a', Time: start.Add(at)})
			}

			samples, err := st.ReadRange(ctx, 990, 1010)
			if err != nil {
				t.Fatalf("read range: %v", err)
			}
			if len(samples) != 1 {
				t.Fatalf("expected 1 sample, got %+v", samples)
			}
			got := samples[0]
			if got.TS < 1000 || got.TS >= 1005 {
				t.Fatalf("sample timestamp %d outside the closed bin", got.TS)
			}
			if got.WPM != tc.wantWPM {
				t.Fatalf("expected %d wpm, got %d", tc.wantWPM, got.WPM)
			}

			peak, err := st.MaxInWindow(ctx, got.TS, 60)
			if err != nil {
				t.Fatalf("max in window: %v", err)
			}
			if peak != tc.wantWPM {
				t.Fatalf("expected max %d, got %d", tc.wantWPM, peak)
			}
		})
	}
}
