package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mclog/mclog-go/pkg/mclog"
	"github.com/mclog/mclog-go/pkg/mclog/record"
)

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Load a local log file and print one derived page",
	Long: `View treats a local file as a static snapshot: the file's text is
classified, filtered and paginated once, and the requested page is
printed. Lines without an inline date are tagged with --day (default:
today).`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

var (
	viewDay       string
	viewType      string
	viewFilter    string
	viewPage      int
	viewPageSize  int
	viewFormat    string
	viewPatterns  []string
	viewWatchList string
)

func init() {
	viewCmd.Flags().StringVar(&viewDay, "day", "",
		"Source day for lines without an inline date (2006-01-02)")
	viewCmd.Flags().StringVarP(&viewType, "type", "t", "chat",
		"Event type to view")
	viewCmd.Flags().StringVarP(&viewFilter, "filter", "f", "",
		"Free-text filter (regular expression, or substring if malformed)")
	viewCmd.Flags().IntVarP(&viewPage, "page", "p", 0,
		"Page index; page 0 is the most recent")
	viewCmd.Flags().IntVar(&viewPageSize, "page-size", 0,
		"Override the page size for the selected type")
	viewCmd.Flags().StringVar(&viewFormat, "format", "pretty",
		"Output format (jsonl, pretty)")
	viewCmd.Flags().StringSliceVar(&viewPatterns, "patterns", nil,
		"YAML variant files to load")
	viewCmd.Flags().StringVar(&viewWatchList, "watch-list", "",
		"Watch-list file (overrides preferences)")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	if !ValidFormats[viewFormat] {
		return fmt.Errorf("invalid format: %s (valid: jsonl, pretty)", viewFormat)
	}
	eventType, err := parseTypeFlag(viewType)
	if err != nil {
		return err
	}
	day, err := parseDayFlag(viewDay)
	if err != nil {
		return err
	}

	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading log file: %w", err)
	}

	prefs, err := loadPrefs()
	if err != nil {
		return err
	}
	sched, err := mclog.NewScheduler(
		mclog.WithMessageCount(prefs.MessageCount),
		mclog.WithLogger(newLogger()),
	)
	if err != nil {
		return err
	}
	defer sched.Close()

	if err := applyPatternFiles(sched.Engine(), viewPatterns); err != nil {
		return err
	}
	dctx, err := loadDecoration(prefs, viewWatchList)
	if err != nil {
		return err
	}

	if err := sched.SetStatic(string(text), day); err != nil {
		return err
	}
	snap := sched.Current()

	page, err := sched.Engine().Derive(snap.Slabs, mclog.Query{
		Type:     eventType,
		Filter:   viewFilter,
		Page:     viewPage,
		PageSize: viewPageSize,
	}, dctx)
	if err != nil {
		return err
	}
	if err := OutputPage(viewFormat, page, os.Stdout); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "page %d of %d\n", clampPage(viewPage, page.PageCount)+1, page.PageCount)
	return nil
}

// parseDayFlag parses a --day value; empty means the zero Day (the
// scheduler substitutes today).
func parseDayFlag(s string) (record.Day, error) {
	if s == "" {
		return record.Day{}, nil
	}
	return record.ParseDay(s)
}

func clampPage(page, pageCount int) int {
	if page < 0 {
		return 0
	}
	if page >= pageCount {
		return pageCount - 1
	}
	return page
}
