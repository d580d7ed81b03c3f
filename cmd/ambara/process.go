package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ambarahq/ambara/graphdoc"
	"github.com/ambarahq/ambara/value"
)

func newProcessCmd() *cobra.Command {
	var (
		blurSigma      float64
		brightnessAmt  float64
		grayscale      bool
		resizeDims     string
	)

	cmd := &cobra.Command{
		Use:   "process <in> <out>",
		Short: "Run a one-shot filter chain over a single image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]

			e, err := buildEngine()
			if err != nil {
				return err
			}

			g := graphdoc.NewGraph()
			loadFilter, _ := e.Registry.Get("load")
			saveFilter, _ := e.Registry.Get("save")

			load := g.AddNode(loadFilter)
			if err := g.SetParameter(load, "path", value.NewString(in)); err != nil {
				return err
			}

			prev, prevPort := load, "image"

			if grayscale {
				f, _ := e.Registry.Get("grayscale")
				node := g.AddNode(f)
				if _, err := g.Connect(prev, prevPort, node, "image"); err != nil {
					return fmt.Errorf("connect grayscale: %w", err)
				}
				prev, prevPort = node, "image"
			}

			if cmd.Flags().Changed("brightness") {
				f, _ := e.Registry.Get("brightness")
				node := g.AddNode(f)
				if _, err := g.Connect(prev, prevPort, node, "image"); err != nil {
					return fmt.Errorf("connect brightness: %w", err)
				}
				if err := g.SetParameter(node, "amount", value.NewFloat(brightnessAmt)); err != nil {
					return err
				}
				prev, prevPort = node, "image"
			}

			if cmd.Flags().Changed("blur") {
				f, _ := e.Registry.Get("gaussian_blur")
				node := g.AddNode(f)
				if _, err := g.Connect(prev, prevPort, node, "image"); err != nil {
					return fmt.Errorf("connect blur: %w", err)
				}
				if err := g.SetParameter(node, "sigma", value.NewFloat(blurSigma)); err != nil {
					return err
				}
				prev, prevPort = node, "image"
			}

			if resizeDims != "" {
				w, h, err := parseDims(resizeDims)
				if err != nil {
					return fmt.Errorf("--resize: %w", err)
				}
				f, _ := e.Registry.Get("resize")
				node := g.AddNode(f)
				if _, err := g.Connect(prev, prevPort, node, "image"); err != nil {
					return fmt.Errorf("connect resize: %w", err)
				}
				if err := g.SetParameter(node, "width", value.NewInteger(int64(w))); err != nil {
					return err
				}
				if err := g.SetParameter(node, "height", value.NewInteger(int64(h))); err != nil {
					return err
				}
				prev, prevPort = node, "image"
			}

			save := g.AddNode(saveFilter)
			if _, err := g.Connect(prev, prevPort, save, "image"); err != nil {
				return fmt.Errorf("connect save: %w", err)
			}
			if err := g.SetParameter(save, "path", value.NewString(out)); err != nil {
				return err
			}

			result, report, err := e.ExecuteGraph(context.Background(), g, nil)
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
				return fmt.Errorf("process: %d node(s) failed", len(result.Errors))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s in %s\n", out, result.Stats.TotalDuration)
			return nil
		},
	}

	cmd.Flags().Float64Var(&blurSigma, "blur", 0, "Gaussian blur sigma")
	cmd.Flags().Float64Var(&brightnessAmt, "brightness", 0, "brightness adjustment in [-1, 1]")
	cmd.Flags().BoolVar(&grayscale, "grayscale", false, "convert to grayscale")
	cmd.Flags().StringVar(&resizeDims, "resize", "", "resize to WxH, e.g. 800x600")

	return cmd
}

// parseDims parses a "WxH" dimension string, e.g. "800x600".
func parseDims(s string) (int, int, error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected WxH, got %q", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width: %w", err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height: %w", err)
	}
	return w, h, nil
}
