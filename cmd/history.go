package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/stepgen/sim/history"
)

var historyLimit int // rows shown by `history list`

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect runs saved with --db",
}

// --- stepgen history list ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		if err := requireDB(); err != nil {
			logrus.Fatalf("%v", err)
		}
		store, err := history.Open(settings.DBPath)
		if err != nil {
			logrus.Fatalf("Opening history: %v", err)
		}
		defer store.Close()
		runs, err := store.List(cmd.Context(), historyLimit)
		if err != nil {
			logrus.Fatalf("Listing runs: %v", err)
		}
		if err := writeRunTable(cmd.OutOrStdout(), runs); err != nil {
			logrus.Fatalf("Writing runs: %v", err)
		}
	},
}

// --- stepgen history show ---

var historyShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Print the stored timeline of one run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := requireDB(); err != nil {
			logrus.Fatalf("%v", err)
		}
		store, err := history.Open(settings.DBPath)
		if err != nil {
			logrus.Fatalf("Opening history: %v", err)
		}
		defer store.Close()
		run, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			logrus.Fatalf("Loading run %s: %v", args[0], err)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(run); err != nil {
			logrus.Fatalf("Writing run: %v", err)
		}
	},
}

// writeRunTable prints one aligned row per run.
func writeRunTable(w io.Writer, runs []history.Run) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tPROTOCOL\tCOMMANDS\tFRAMES\tWARNINGS\tHALTED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%v\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Protocol, r.Commands, r.Frames, r.Warnings, r.Halted)
	}
	return tw.Flush()
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
}
