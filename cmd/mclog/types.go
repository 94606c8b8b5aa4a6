package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mclog/mclog-go/pkg/mclog/record"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List all event types",
	Long: `List the event types lines can classify as, in classification
priority order. A line is assigned the first type whose pattern
matches; chat is last because its catch-all accepts almost anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, t := range record.PriorityOrder() {
			if _, err := fmt.Fprintln(out, t); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
