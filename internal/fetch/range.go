package fetch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mclog/mclog-go/pkg/mclog/record"
)

// KeyFunc maps a calendar day to its fetch key (file name or URL
// path element).
type KeyFunc func(record.Day) string

// rangeConcurrency bounds how many per-day fetches run at once.
const rangeConcurrency = 4

// Range fetches each day's text independently and returns one slab
// per day in calendar order, regardless of fetch completion order.
// A day whose fetch fails yields an empty slab rather than aborting
// the range.
func Range(ctx context.Context, fetcher Fetcher, keyFn KeyFunc, days []record.Day, log *slog.Logger) []record.DaySlab {
	slabs := make([]record.DaySlab, len(days))

	sem := make(chan struct{}, rangeConcurrency)
	var wg sync.WaitGroup
	for i, day := range days {
		slabs[i].Day = day

		wg.Add(1)
		go func(i int, day record.Day) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			text, err := fetcher.FetchText(ctx, keyFn(day))
			if err != nil {
				log.Debug("range day fetch failed, treating as empty",
					"day", day.String(), "error", err)
				return
			}
			slabs[i].Text = text
		}(i, day)
	}
	wg.Wait()

	return slabs
}
