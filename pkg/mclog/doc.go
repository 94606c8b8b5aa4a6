// Package mclog turns semi-structured game-server log text into a
// browsable, filterable, live-updating event stream.
//
// This package allows you to:
//   - Classify log lines into typed events (deaths, trades, chat, ...)
//   - Derive reverse-chronological page windows with free-text filtering
//   - Decorate records with watch-list highlighting and color codes
//   - Keep the underlying text fresh via live polling, static snapshots
//     or multi-day range fetches
//
// # Basic Usage
//
// To poll a remote log and render pages:
//
//	sched, err := mclog.NewScheduler(
//	    mclog.WithFetcher(fetcher),
//	    mclog.WithPollInterval(10*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sched.Close()
//
//	if err := sched.SetLive(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	for snap := range sched.Updates() {
//	    page, err := sched.Engine().Derive(snap.Slabs, mclog.Query{
//	        Type:   record.Chat,
//	        Filter: "Alice",
//	    }, nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    render(page)
//	}
//
// A dropped or uploaded file enters the same pipeline through
// [Scheduler.SetStatic]; an explicit date range through
// [Scheduler.SetRange]. Switching modes cancels the previous mode's
// loop before the new one starts, so a stale poll can never overwrite
// newer content.
//
// # Custom Variants
//
// Extra log formats for existing event types can be loaded from YAML
// files via the [pattern] subpackage:
//
//	if err := pattern.ApplyFile(sched.Engine(), "variants.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Derivation Model
//
// Filtering, grouping, pagination, extraction and decoration are pure
// and synchronous, and re-run in full on every page turn, filter edit
// or watch-list edit. Per-page record counts are bounded, so the
// recomputation trades CPU for simplicity.
package mclog
