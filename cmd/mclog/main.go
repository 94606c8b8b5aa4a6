package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mclog/mclog-go/internal/config"
	"github.com/mclog/mclog-go/internal/watchlist"
	"github.com/mclog/mclog-go/pkg/mclog"
	"github.com/mclog/mclog-go/pkg/mclog/pattern"
	"github.com/mclog/mclog-go/pkg/mclog/record"
	"github.com/mclog/mclog-go/pkg/mclog/view"
)

var (
	// persistent flags
	verbose   bool
	prefsPath string
)

var rootCmd = &cobra.Command{
	Use:   "mclog",
	Short: "Browse and live-tail game server logs as structured events",
	Long: `mclog classifies semi-structured server log text (connections, chat,
deaths, item actions, trades, rare spawns) into a browsable,
filterable, live-updating event stream.

Modes:
  tail    poll a remote day log on an interval (live)
  view    load a local file as a static snapshot
  range   fetch an explicit multi-day date range
  follow  tail a local server log file line by line`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&prefsPath, "prefs", "mclog.toml",
		"Viewer preferences file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger returns a debug logger on stderr when --verbose is set,
// otherwise a logger that discards everything.
func newLogger() *slog.Logger {
	if verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loadPrefs reads the preferences file; a missing file yields
// defaults.
func loadPrefs() (config.Prefs, error) {
	return config.Load(prefsPath)
}

// parseTypeFlag resolves a --type value, listing valid names on error.
func parseTypeFlag(name string) (record.Type, error) {
	t, ok := record.ParseType(name)
	if !ok {
		return "", fmt.Errorf("unknown event type: %s (valid: %s)",
			name, strings.Join(record.TypeNames(), ", "))
	}
	return t, nil
}

// applyPatternFiles registers user-defined variants with the engine.
func applyPatternFiles(e *mclog.Engine, paths []string) error {
	for i, path := range paths {
		if err := pattern.ApplyFile(e, path); err != nil {
			return fmt.Errorf("variant file %d: %w", i+1, err)
		}
	}
	return nil
}

// loadDecoration builds the decoration context from the watch-list
// file named in the preferences (or the flag override).
func loadDecoration(prefs config.Prefs, override string) (*view.Context, error) {
	path := override
	if path == "" {
		path = prefs.WatchListPath
	}
	if path == "" {
		return view.NewContext(nil), nil
	}
	store, err := watchlist.Load(path)
	if err != nil {
		return nil, err
	}
	return view.NewContext(store.Categories()), nil
}
