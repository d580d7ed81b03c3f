package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ambarahq/ambara/value"
)

// describeDefault renders a parameter's default value for human
// display, trying each scalar accessor in turn.
func describeDefault(v value.Value) string {
	if i, ok := v.AsInteger(); ok {
		return fmt.Sprintf("%d", i)
	}
	if f, ok := v.AsFloat(); ok {
		return fmt.Sprintf("%g", f)
	}
	if s, ok := v.AsString(); ok {
		return s
	}
	if b, ok := v.AsBoolean(); ok {
		return fmt.Sprintf("%t", b)
	}
	return "<none>"
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <filter_id>",
		Short: "Show a filter's ports and parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEngine()
			if err != nil {
				return err
			}
			f, ok := e.Registry.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown filter id %q", args[0])
			}
			meta := f.Metadata()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s (%s) — %s\n", meta.ID, meta.Category, meta.DisplayName)
			if meta.Description != "" {
				fmt.Fprintln(out, meta.Description)
			}
			fmt.Fprintln(out, "inputs:")
			for _, p := range meta.Inputs {
				fmt.Fprintf(out, "  %-12s %s\n", p.Name, p.Type)
			}
			fmt.Fprintln(out, "outputs:")
			for _, p := range meta.Outputs {
				fmt.Fprintf(out, "  %-12s %s\n", p.Name, p.Type)
			}
			fmt.Fprintln(out, "parameters:")
			for _, p := range meta.Parameters {
				fmt.Fprintf(out, "  %-12s %s (default %s)\n", p.Name, p.Type, describeDefault(p.Default))
			}
			return nil
		},
	}
}
