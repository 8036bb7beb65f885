package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func rootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "timetable",
		Short: "Turn timetable images and OCR output into a course list",
		Long: `timetable reads a weekly class timetable, either as OCR word boxes or as a
vision model's JSON reply, and turns it into courses with weekly time blocks.
Imported courses are stored per owner and can be listed or exported to XLSX or ICS.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	cmd.PersistentFlags().StringVar(&a.sqlitePath, "db", "", "SQLite file to use instead of SQLITE_PATH/DB_URL")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging, including the extraction trace")

	cmd.AddCommand(parseCmd(a), importCmd(a), listCmd(a), exportCmd(a))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
