package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mergerun-td/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Play back an intent script and verify it",
	Long: `Play a replay script against the configured tables.

The script's seed and stage override --seed and --stage. When the script
has an 'expect' block, the command fails if the outcome differs.

Examples:
  mergerun replay ./scripts/seed7.yaml
  mergerun replay ./scripts/seed7.yaml --difficulty hard`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(_ *cobra.Command, args []string) {
	logger := newLogger("replay")

	script, err := replay.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading script: %v\n", err)
		os.Exit(1)
	}

	res, err := replay.Play(newEngine(), script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error playing script: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Stage %d  seed %d  %d steps\n", script.Stage+1, script.Seed, len(script.Steps))
	fmt.Printf("  Result:   %s\n", res.State.End)
	fmt.Printf("  Waves:    %d\n", res.State.WaveIndex)
	fmt.Printf("  Base HP:  %d\n", res.State.BaseHP)
	fmt.Printf("  Ticks:    %d\n", res.Ticks)
	fmt.Printf("  Applied:  %d  rejected: %d  skipped: %d\n", res.Applied, len(res.Failures), res.Skipped)
	fmt.Printf("  Snapshot: %s\n", res.SnapshotHex())

	for _, f := range res.Failures {
		logger.Debug("step rejected", "step", f.Index+1, "at_ms", f.AtMs, "intent", f.Intent, "reason", f.Reason)
	}

	if err := replay.Verify(script, res); err != nil {
		if errors.Is(err, replay.ErrExpectation) {
			fmt.Fprintf(os.Stderr, "Mismatch: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error verifying script: %v\n", err)
		}
		os.Exit(1)
	}
	if script.Expect != nil {
		fmt.Println("  Verified: ok")
	}
}
