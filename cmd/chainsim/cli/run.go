package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tevinokafor/chainsim/pkg/chain"
	"github.com/tevinokafor/chainsim/pkg/chain/config"
	sqlitesink "github.com/tevinokafor/chainsim/pkg/chain/sinks/sqlite"
)

var snapshotPath string

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario and emit its metric stream to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd)
		},
	}
	cmd.Flags().IntVar(&periods, "periods", 0, "number of periods to simulate (defaults to the scenario's own period count)")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "optional path to a SQLite snapshot database")
	return cmd
}

func runScenario(cmd *cobra.Command) error {
	if verbose {
		fmt.Printf("📂 Loading scenario %s...\n", scenarioPath)
	}

	scenario, err := config.Load(scenarioPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}

	c, err := config.Build(scenario)
	if err != nil {
		return fmt.Errorf("build supply chain: %w", err)
	}

	runPeriods := periods
	if runPeriods <= 0 {
		runPeriods = scenario.Periods
	}

	if verbose {
		fmt.Printf("✅ Loaded scenario %q: %d nodes, %d periods\n", scenario.Name, len(scenario.Nodes), runPeriods)
	}

	sink := chain.Sink(chain.NewJSONLineSink(os.Stdout))
	sim := chain.NewSimulator(c, chain.RSQControl{}, chain.FractionalRelease{}, sink)
	if snapshotPath != "" {
		snap, err := sqlitesink.Open(snapshotPath, sim.RunID)
		if err != nil {
			return fmt.Errorf("open snapshot sink: %w", err)
		}
		sim.Sink = chain.MultiSink{Sinks: []chain.Sink{sink, snap}}
		if verbose {
			fmt.Printf("🗄  Persisting snapshot to %s\n", snapshotPath)
		}
	}

	if verbose {
		fmt.Println("🔄 Running simulation...")
	}

	start := time.Now()
	ctx := context.Background()
	if err := sim.Run(ctx, runPeriods); err != nil {
		return fmt.Errorf("run simulation: %w", err)
	}

	if verbose {
		fmt.Printf("🏁 Simulation complete in %v (run %s)\n", time.Since(start), sim.RunID)
	}
	return nil
}
