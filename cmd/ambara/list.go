package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every filter in the built-in catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEngine()
			if err != nil {
				return err
			}
			for _, meta := range e.GetFilters() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-10s %s\n", meta.ID, meta.Category, meta.DisplayName)
			}
			return nil
		},
	}
}
