package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mclog/mclog-go/internal/config"
	"github.com/mclog/mclog-go/internal/fetch"
	"github.com/mclog/mclog-go/pkg/mclog"
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Poll a remote day log and print new pages as they arrive",
	Long: `Tail polls the current day's log on an interval and re-derives the
requested page whenever fresh text arrives. With --follow-day the poll
key rolls over at midnight; without it polling stops when the day ends.`,
	RunE: runTail,
}

var (
	tailBaseURL   string
	tailInterval  time.Duration
	tailFollowDay bool
	tailType      string
	tailFilter    string
	tailPageSize  int
	tailFormat    string
	tailPatterns  []string
	tailWatchList string
)

func init() {
	tailCmd.Flags().StringVar(&tailBaseURL, "base-url", "",
		"Base URL serving day logs (overrides preferences)")
	tailCmd.Flags().DurationVar(&tailInterval, "interval", 0,
		"Poll interval (overrides preferences)")
	tailCmd.Flags().BoolVar(&tailFollowDay, "follow-day", false,
		"Roll the poll key over at midnight instead of stopping")
	tailCmd.Flags().StringVarP(&tailType, "type", "t", "chat",
		"Event type to view")
	tailCmd.Flags().StringVarP(&tailFilter, "filter", "f", "",
		"Free-text filter (regular expression, or substring if malformed)")
	tailCmd.Flags().IntVar(&tailPageSize, "page-size", 0,
		"Override the page size for the selected type")
	tailCmd.Flags().StringVar(&tailFormat, "format", "pretty",
		"Output format (jsonl, pretty)")
	tailCmd.Flags().StringSliceVar(&tailPatterns, "patterns", nil,
		"YAML variant files to load")
	tailCmd.Flags().StringVar(&tailWatchList, "watch-list", "",
		"Watch-list file (overrides preferences)")
	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	if !ValidFormats[tailFormat] {
		return fmt.Errorf("invalid format: %s (valid: jsonl, pretty)", tailFormat)
	}
	eventType, err := parseTypeFlag(tailType)
	if err != nil {
		return err
	}

	prefs, err := loadPrefs()
	if err != nil {
		return err
	}
	baseURL := tailBaseURL
	if baseURL == "" {
		baseURL = prefs.BaseURL
	}
	if baseURL == "" {
		return fmt.Errorf("no base URL: pass --base-url or set base_url in %s", prefsPath)
	}
	interval := tailInterval
	if interval == 0 {
		interval = prefs.PollInterval()
	}

	logger := newLogger()
	fetcher := &fetch.HTTPFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}

	sched, err := mclog.NewScheduler(
		mclog.WithFetcher(fetcher),
		mclog.WithPollInterval(interval),
		mclog.WithFollowDay(tailFollowDay || prefs.FollowDay),
		mclog.WithMessageCount(prefs.MessageCount),
		mclog.WithLogger(logger),
		mclog.WithKeyChangeHook(func(oldKey, newKey string) {
			// A new day means a new page 0; forget the saved index.
			prefs.ResetPage(tailType)
			if err := config.Save(prefsPath, prefs); err != nil {
				logger.Debug("saving preferences failed", "error", err)
			}
		}),
	)
	if err != nil {
		return err
	}
	defer sched.Close()

	if err := applyPatternFiles(sched.Engine(), tailPatterns); err != nil {
		return err
	}
	dctx, err := loadDecoration(prefs, tailWatchList)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.SetLive(ctx); err != nil {
		return err
	}

	query := mclog.Query{
		Type:     eventType,
		Filter:   tailFilter,
		Page:     prefs.PageFor(tailType),
		PageSize: tailPageSize,
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-sched.Updates():
			if !ok {
				return nil
			}
			page, err := sched.Engine().Derive(snap.Slabs, query, dctx)
			if err != nil {
				return err
			}
			if err := OutputPage(tailFormat, page, os.Stdout); err != nil {
				return err
			}
		}
	}
}
