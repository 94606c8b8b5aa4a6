package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mclog/mclog-go/internal/logfinder"
	"github.com/mclog/mclog-go/internal/tailer"
	"github.com/mclog/mclog-go/pkg/mclog"
	"github.com/mclog/mclog-go/pkg/mclog/record"
	"github.com/mclog/mclog-go/pkg/mclog/view"
)

var followCmd = &cobra.Command{
	Use:   "follow [logdir]",
	Short: "Tail the local server log and print events as they happen",
	Long: `Follow finds the server's active log file (latest.log, or the newest
*.log) and classifies lines as the server writes them. Unlike tail,
which polls a remote snapshot, follow streams single records with no
paging.

The log directory is resolved from the argument, the ` + logfinder.EnvLogDir + `
environment variable, or ./logs, in that order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFollow,
}

var (
	followFromStart bool
	followType      string
	followFormat    string
	followPatterns  []string
	followWatchList string
)

func init() {
	followCmd.Flags().BoolVar(&followFromStart, "from-start", false,
		"Read the log from the beginning instead of only new lines")
	followCmd.Flags().StringVarP(&followType, "type", "t", "",
		"Only print this event type (default: all)")
	followCmd.Flags().StringVar(&followFormat, "format", "pretty",
		"Output format (jsonl, pretty)")
	followCmd.Flags().StringSliceVar(&followPatterns, "patterns", nil,
		"YAML variant files to load")
	followCmd.Flags().StringVar(&followWatchList, "watch-list", "",
		"Watch-list file (overrides preferences)")
	rootCmd.AddCommand(followCmd)
}

func runFollow(cmd *cobra.Command, args []string) error {
	if !ValidFormats[followFormat] {
		return fmt.Errorf("invalid format: %s (valid: jsonl, pretty)", followFormat)
	}
	var only record.Type
	if followType != "" {
		t, err := parseTypeFlag(followType)
		if err != nil {
			return err
		}
		only = t
	}

	explicit := ""
	if len(args) > 0 {
		explicit = args[0]
	}
	dir, err := logfinder.FindLogDir(explicit)
	if err != nil {
		return err
	}
	path, err := logfinder.FindActiveLogFile(dir)
	if err != nil {
		return err
	}

	prefs, err := loadPrefs()
	if err != nil {
		return err
	}
	logger := newLogger()
	engine := mclog.NewEngine(prefs.MessageCount, logger)
	if err := applyPatternFiles(engine, followPatterns); err != nil {
		return err
	}
	dctx, err := loadDecoration(prefs, followWatchList)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tl, err := tailer.New(ctx, path, tailer.Config{FromStart: followFromStart})
	if err != nil {
		return err
	}
	defer tl.Stop()

	logger.Debug("following log file", "path", path)

	asm := engine.NewAssembler(record.DayOf(time.Now()))
	emit := func(recs []record.StructuredRecord) error {
		for _, rec := range recs {
			if only != "" && rec.Type != only {
				continue
			}
			if err := outputRecord(followFormat, rec, dctx, engine); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return emit(asm.Flush())
		case err, ok := <-tl.Errors():
			if ok && err != nil {
				logger.Debug("tail error", "error", err)
			}
		case line, ok := <-tl.Lines():
			if !ok {
				return emit(asm.Flush())
			}
			if err := emit(asm.Feed(line)); err != nil {
				return err
			}
		}
	}
}

// outputRecord prints one streamed record in the requested format.
func outputRecord(format string, rec record.StructuredRecord, dctx *view.Context, engine *mclog.Engine) error {
	if format == "jsonl" {
		return OutputJSON(rec, os.Stdout)
	}
	return OutputPretty(engine.View(rec, dctx), os.Stdout)
}
