package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <graph.json>",
		Short: "Validate a saved graph document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEngine()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			g, err := e.LoadGraph(data)
			if err != nil {
				return fmt.Errorf("load graph: %w", err)
			}

			report := e.ValidateGraph(g)
			fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
			for _, w := range report.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "  warning: %s\n", w.Error())
			}
			for _, verr := range report.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "  error:   %s\n", verr.Error())
			}
			if !report.Success {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}
}
