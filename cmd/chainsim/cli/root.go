// Package cli implements the chainsim command-line interface: a cobra
// root command with run and serve subcommands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	scenarioPath string
	periods      int
	verbose      bool
)

// NewRootCommand builds the chainsim root command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chainsim",
		Short: "chainsim - multi-echelon supply chain simulator",
		Long: `chainsim simulates a multi-echelon supply chain of SKU nodes connected
by bill-of-materials edges, stepping through receive/demand/release/order
phases under pluggable control and release strategies.

Examples:
  chainsim run --scenario scenarios/two-echelon.yaml --periods 12
  chainsim serve --addr :8080`,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	rootCmd.PersistentFlags().StringVar(&scenarioPath, "scenario", "", "path to scenario YAML file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}

// Execute runs the root command, exiting the process on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
