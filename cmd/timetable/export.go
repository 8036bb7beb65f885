package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/timetable-import/internal/export"
)

func exportCmd(a *app) *cobra.Command {
	var (
		owner  string
		output string
		weekOf string
		weeks  int
	)
	cmd := &cobra.Command{
		Use:   "export xlsx|ics",
		Short: "Export an owner's courses to an XLSX workbook or an ICS calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format := strings.ToLower(args[0])
			if format != "xlsx" && format != "ics" {
				return fmt.Errorf("unknown format %q: want xlsx or ics", args[0])
			}
			if output == "" {
				output = "timetable." + format
			}

			repo, err := a.openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()
			svc := export.NewService(repo, a.logger)

			var data []byte
			if format == "ics" {
				opts := export.ICSOptions{Weeks: weeks}
				if weekOf != "" {
					t, err := time.ParseInLocation("2006-01-02", weekOf, time.Local)
					if err != nil {
						return fmt.Errorf("--week-of must be YYYY-MM-DD: %w", err)
					}
					opts.WeekOf = t
				}
				data, err = svc.ExportICS(ctx, owner, opts)
			} else {
				data, err = svc.ExportXLSX(ctx, owner)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("wrote "+output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&owner, "owner", "u", "", "owner whose courses to export")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default timetable.<format>)")
	cmd.Flags().StringVar(&weekOf, "week-of", "", "ICS: first week of term, YYYY-MM-DD (default this week)")
	cmd.Flags().IntVar(&weeks, "weeks", 0, "ICS: number of weekly repeats (0 repeats forever)")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
