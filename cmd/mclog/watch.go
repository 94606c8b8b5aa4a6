package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mclog/mclog-go/internal/watchlist"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Manage watch-list categories and terms",
	Long: `Watch maintains the highlight catalog: named categories of terms
that get decorated wherever they appear in derived records. Lower
weights claim text first when categories overlap.`,
}

var (
	watchFile     string
	watchTemplate string
	watchWeight   int
)

var watchListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all categories and their terms",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openWatchStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, cat := range store.Categories() {
			fmt.Fprintf(out, "%s (weight %d): %s\n",
				cat.Name, cat.Weight, strings.Join(cat.Terms, ", "))
		}
		return nil
	},
}

var watchAddCmd = &cobra.Command{
	Use:   "add <category> <term>",
	Short: "Add a term to a category, creating the category if needed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openWatchStore()
		if err != nil {
			return err
		}
		return store.Add(args[0], watchTemplate, watchWeight, args[1])
	},
}

var watchRemoveCmd = &cobra.Command{
	Use:   "remove <category> <term>",
	Short: "Remove a term from a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openWatchStore()
		if err != nil {
			return err
		}
		return store.Remove(args[0], args[1])
	},
}

func init() {
	watchCmd.PersistentFlags().StringVar(&watchFile, "watch-list", "",
		"Watch-list file (overrides preferences)")
	watchAddCmd.Flags().StringVar(&watchTemplate, "template", "",
		"Decoration template for the category")
	watchAddCmd.Flags().IntVar(&watchWeight, "weight", 0,
		"Category weight; lower weights claim overlapping text first")
	watchCmd.AddCommand(watchListCmd, watchAddCmd, watchRemoveCmd)
	rootCmd.AddCommand(watchCmd)
}

// openWatchStore resolves the watch-list path from the flag or the
// preferences file.
func openWatchStore() (*watchlist.Store, error) {
	path := watchFile
	if path == "" {
		prefs, err := loadPrefs()
		if err != nil {
			return nil, err
		}
		path = prefs.WatchListPath
	}
	if path == "" {
		return nil, fmt.Errorf("no watch-list file: pass --watch-list or set watch_list_path in %s", prefsPath)
	}
	return watchlist.Load(path)
}
