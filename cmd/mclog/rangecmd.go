package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mclog/mclog-go/internal/fetch"
	"github.com/mclog/mclog-go/pkg/mclog"
	"github.com/mclog/mclog-go/pkg/mclog/record"
)

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Fetch a multi-day date range and print one derived page",
	Long: `Range fetches every day from --from to --to inclusive, reassembles
the texts in calendar order and derives the requested page over the
combined snapshot. Days whose fetch fails contribute nothing.`,
	RunE: runRange,
}

var (
	rangeBaseURL   string
	rangeFrom      string
	rangeTo        string
	rangeType      string
	rangeFilter    string
	rangePage      int
	rangePageSize  int
	rangeFormat    string
	rangePatterns  []string
	rangeWatchList string
)

func init() {
	rangeCmd.Flags().StringVar(&rangeBaseURL, "base-url", "",
		"Base URL serving day logs (overrides preferences)")
	rangeCmd.Flags().StringVar(&rangeFrom, "from", "",
		"First day of the range (2006-01-02)")
	rangeCmd.Flags().StringVar(&rangeTo, "to", "",
		"Last day of the range (2006-01-02)")
	rangeCmd.Flags().StringVarP(&rangeType, "type", "t", "chat",
		"Event type to view")
	rangeCmd.Flags().StringVarP(&rangeFilter, "filter", "f", "",
		"Free-text filter (regular expression, or substring if malformed)")
	rangeCmd.Flags().IntVarP(&rangePage, "page", "p", 0,
		"Page index; page 0 is the most recent")
	rangeCmd.Flags().IntVar(&rangePageSize, "page-size", 0,
		"Override the page size for the selected type")
	rangeCmd.Flags().StringVar(&rangeFormat, "format", "pretty",
		"Output format (jsonl, pretty)")
	rangeCmd.Flags().StringSliceVar(&rangePatterns, "patterns", nil,
		"YAML variant files to load")
	rangeCmd.Flags().StringVar(&rangeWatchList, "watch-list", "",
		"Watch-list file (overrides preferences)")
	_ = rangeCmd.MarkFlagRequired("from")
	_ = rangeCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(rangeCmd)
}

func runRange(cmd *cobra.Command, args []string) error {
	if !ValidFormats[rangeFormat] {
		return fmt.Errorf("invalid format: %s (valid: jsonl, pretty)", rangeFormat)
	}
	eventType, err := parseTypeFlag(rangeType)
	if err != nil {
		return err
	}
	from, err := record.ParseDay(rangeFrom)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to, err := record.ParseDay(rangeTo)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}

	prefs, err := loadPrefs()
	if err != nil {
		return err
	}
	baseURL := rangeBaseURL
	if baseURL == "" {
		baseURL = prefs.BaseURL
	}
	if baseURL == "" {
		return fmt.Errorf("no base URL: pass --base-url or set base_url in %s", prefsPath)
	}

	sched, err := mclog.NewScheduler(
		mclog.WithFetcher(&fetch.HTTPFetcher{
			BaseURL: baseURL,
			Client:  &http.Client{Timeout: 30 * time.Second},
		}),
		mclog.WithMessageCount(prefs.MessageCount),
		mclog.WithLogger(newLogger()),
	)
	if err != nil {
		return err
	}
	defer sched.Close()

	if err := applyPatternFiles(sched.Engine(), rangePatterns); err != nil {
		return err
	}
	dctx, err := loadDecoration(prefs, rangeWatchList)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.SetRange(ctx, from, to); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case snap, ok := <-sched.Updates():
		if !ok {
			return nil
		}
		page, err := sched.Engine().Derive(snap.Slabs, mclog.Query{
			Type:     eventType,
			Filter:   rangeFilter,
			Page:     rangePage,
			PageSize: rangePageSize,
		}, dctx)
		if err != nil {
			return err
		}
		if err := OutputPage(rangeFormat, page, os.Stdout); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "page %d of %d\n", clampPage(rangePage, page.PageCount)+1, page.PageCount)
		return nil
	}
}
