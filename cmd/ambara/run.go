package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ambarahq/ambara/progress"
)

func newRunCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run <graph.json>",
		Short: "Execute a saved graph document",
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

			var sink progress.Sink
			if verbose {
				sink = func(ev progress.Event) {
					switch ev.Kind {
					case progress.EventNodeStarted:
						fmt.Fprintf(cmd.ErrOrStderr(), "start  %s\n", ev.NodeID)
					case progress.EventNodeCompleted:
						fmt.Fprintf(cmd.ErrOrStderr(), "done   %s (%s)\n", ev.NodeID, ev.Elapsed)
					case progress.EventNodeSkipped:
						fmt.Fprintf(cmd.ErrOrStderr(), "skip   %s (%s)\n", ev.NodeID, ev.SkipWhy)
					case progress.EventError:
						fmt.Fprintf(cmd.ErrOrStderr(), "error  %s: %s\n", ev.NodeID, ev.Message)
					}
				}
			}

			result, report, err := e.ExecuteGraph(context.Background(), g, sink)
			if err != nil {
				if report != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), report.Summary())
				}
				return err
			}
			if !result.Success {
				for _, f := range result.Errors {
					fmt.Fprintln(cmd.ErrOrStderr(), f.Error())
				}
				return fmt.Errorf("run: %d node(s) failed", len(result.Errors))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "executed %d node(s) in %s (%d cache hit(s))\n",
				result.Stats.NodesExecuted, result.Stats.TotalDuration, result.Stats.CacheHits)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print per-node progress events")
	return cmd
}
