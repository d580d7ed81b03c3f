// Command ambara is a CLI front end over the engine facade: list the
// built-in filter catalog, inspect one filter, run a quick one-shot
// image transform, or validate/execute a saved graph document.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ambarahq/ambara/engine"
)

var cfgPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ambara",
		Short: "ambara is a node-graph image-processing engine CLI",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a config file (YAML/JSON/TOML)")

	root.AddCommand(newListCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newProcessCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newRunCmd())

	return root
}

// buildEngine loads configuration from --config (empty means defaults
// layered with AMBARA_ env overrides) and constructs an Engine.
func buildEngine() (*engine.Engine, error) {
	cfg, err := engine.LoadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return engine.New(cfg)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ambara:", err)
		os.Exit(1)
	}
}
