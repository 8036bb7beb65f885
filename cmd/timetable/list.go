package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func listCmd(a *app) *cobra.Command {
	var (
		owner  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show an owner's stored courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, repo, err := a.service(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			courses, err := svc.ListCourses(ctx, owner)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(courses)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderCourses(courses))
			return nil
		},
	}
	cmd.Flags().StringVarP(&owner, "owner", "u", "", "owner whose courses to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
