// jumpstats prints daily and weekly jump totals from the session store.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/elynrose/jumpz/store"
)

var version = "dev"

var (
	dbPath string
	days   int
	weeks  int
	weekly bool
)

func main() {
	cmd := &cobra.Command{
		Use:     "jumpstats",
		Short:   "Jump session statistics",
		Long:    `jumpstats reads the SQLite session store written by jumpd and prints daily or weekly jump totals.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&dbPath, "db", "jumpz.db", "SQLite database path")
	cmd.Flags().IntVar(&days, "days", 7, "number of trailing days")
	cmd.Flags().IntVar(&weeks, "weeks", 4, "number of trailing weeks")
	cmd.Flags().BoolVarP(&weekly, "weekly", "w", false, "show weekly totals instead of daily")

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer func() {
		if ferr := tw.Flush(); ferr != nil {
			_ = ferr
		}
	}()

	if weekly {
		totals, err := db.WeeklyTotals(ctx, weeks)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "WEEK\tSESSIONS\tJUMPS\tJUMPS/MIN")
		for _, t := range totals {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\n", t.Week, t.Sessions, t.Jumps, perMinute(t.Jumps, t.DurationMs))
		}
		return nil
	}

	totals, err := db.DailyTotals(ctx, days)
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "DAY\tSESSIONS\tJUMPS\tJUMPS/MIN")
	for _, t := range totals {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\n", t.Day, t.Sessions, t.Jumps, perMinute(t.Jumps, t.DurationMs))
	}
	return nil
}

// perMinute guards the zero-duration case.
func perMinute(jumps int, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(jumps) / (float64(durationMs) / 60000.0)
}
