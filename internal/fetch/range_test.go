package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mclog/mclog-go/pkg/mclog/record"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func day(s string) record.Day {
	d, err := record.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func defaultKey(d record.Day) string { return d.String() + ".log" }

// TestRange_CalendarOrder verifies that slabs come back in calendar
// order even when fetches complete out of order.
func TestRange_CalendarOrder(t *testing.T) {
	days := record.DaysBetween(day("2026-08-27"), day("2026-08-30"))

	var mu sync.Mutex
	started := 0
	fetcher := FetcherFunc(func(ctx context.Context, key string) (string, error) {
		// Later days return faster than earlier ones.
		mu.Lock()
		started++
		delay := time.Duration(len(days)-started) * 5 * time.Millisecond
		mu.Unlock()
		time.Sleep(delay)
		return "content of " + key, nil
	})

	slabs := Range(context.Background(), fetcher, defaultKey, days, testLogger)
	if len(slabs) != len(days) {
		t.Fatalf("got %d slabs, want %d", len(slabs), len(days))
	}
	for i, d := range days {
		if slabs[i].Day != d {
			t.Errorf("slab %d day = %v, want %v", i, slabs[i].Day, d)
		}
		want := "content of " + defaultKey(d)
		if slabs[i].Text != want {
			t.Errorf("slab %d text = %q, want %q", i, slabs[i].Text, want)
		}
	}
}

// TestRange_FailedDayIsEmpty verifies a failed day degrades to an
// empty slab without disturbing its neighbors.
func TestRange_FailedDayIsEmpty(t *testing.T) {
	days := record.DaysBetween(day("2026-08-29"), day("2026-08-31"))

	fetcher := FetcherFunc(func(ctx context.Context, key string) (string, error) {
		if key == "2026-08-30.log" {
			return "", errors.New("server exploded")
		}
		return "ok", nil
	})

	slabs := Range(context.Background(), fetcher, defaultKey, days, testLogger)
	if slabs[0].Text != "ok" || slabs[2].Text != "ok" {
		t.Errorf("healthy days disturbed: %+v", slabs)
	}
	if slabs[1].Text != "" {
		t.Errorf("failed day text = %q, want empty", slabs[1].Text)
	}
	if slabs[1].Day != day("2026-08-30") {
		t.Errorf("failed day lost its position: %v", slabs[1].Day)
	}
}

// TestRange_BoundedConcurrency verifies no more than rangeConcurrency
// fetches run at once.
func TestRange_BoundedConcurrency(t *testing.T) {
	days := record.DaysBetween(day("2026-08-01"), day("2026-08-20"))

	var mu sync.Mutex
	active, peak := 0, 0
	fetcher := FetcherFunc(func(ctx context.Context, key string) (string, error) {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()
		time.Sleep(2 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		return "", nil
	})

	Range(context.Background(), fetcher, defaultKey, days, testLogger)
	if peak > rangeConcurrency {
		t.Errorf("peak concurrency = %d, want <= %d", peak, rangeConcurrency)
	}
}

func TestRange_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	days := record.DaysBetween(day("2026-08-01"), day("2026-08-10"))
	fetcher := FetcherFunc(func(ctx context.Context, key string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "should not be used", nil
	})

	slabs := Range(ctx, fetcher, defaultKey, days, testLogger)
	if len(slabs) != len(days) {
		t.Fatalf("got %d slabs, want %d", len(slabs), len(days))
	}
	for i, slab := range slabs {
		if slab.Text != "" {
			t.Errorf("slab %d has text after cancellation: %q", i, slab.Text)
		}
	}
}
