package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mergerun-td/internal/registry"
	"github.com/vovakirdan/mergerun-td/internal/replay"
	"github.com/vovakirdan/mergerun-td/internal/session"
	"github.com/vovakirdan/mergerun-td/internal/storage"
)

var (
	flagPilot    string
	flagRealtime bool
	flagRecord   string
	flagMaxMs    int64
	flagNoSave   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a stage headless with an autopilot",
	Long: `Play a stage without a screen, letting an autopilot issue intents.

By default the run is fast-forwarded; --realtime ticks on the wall clock
and can be stopped with Ctrl+C. --record writes the pilot's intents as a
replay script that 'mergerun replay' plays back to the same result.

Examples:
  mergerun simulate --pilot greedy --seed 42
  mergerun simulate --stage 10 --difficulty hard
  mergerun simulate --seed 7 --record ./scripts/seed7.yaml
  mergerun simulate --realtime --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagPilot, "pilot", "greedy", "Autopilot to use (see 'mergerun pilots')")
	simulateCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Tick on the wall clock instead of fast-forwarding")
	simulateCmd.Flags().StringVar(&flagRecord, "record", "", "Write the pilot's intents to this replay script")
	simulateCmd.Flags().Int64Var(&flagMaxMs, "max-ms", replay.DefaultMaxMs, "Stop after this much run time")
	simulateCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run in the history database")
}

func runSimulate(_ *cobra.Command, _ []string) {
	logger := newLogger("simulate")

	if !registry.Exists(flagPilot) {
		fmt.Fprintf(os.Stderr, "Error: unknown pilot %q\n", flagPilot)
		fmt.Fprintln(os.Stderr, "Run 'mergerun pilots' to see available pilots.")
		os.Exit(1)
	}
	pilot, err := registry.Create(flagPilot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating pilot: %v\n", err)
		os.Exit(1)
	}

	var recorder *replay.Recorder
	if flagRecord != "" {
		recorder = replay.NewRecorder(pilot)
		pilot = recorder
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sess := session.New(newEngine(), session.Options{
		Stage:  stageIndex(),
		Seed:   seed,
		TickMs: flagTickMs,
		Pilot:  pilot,
		Logger: logger,
	})

	var res session.Result
	if flagRealtime {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		runCtx, cancel := context.WithTimeout(ctx, time.Duration(flagMaxMs)*time.Millisecond)
		if err := sess.Run(runCtx); err != nil && ctx.Err() == nil && runCtx.Err() == nil {
			logger.Error("run stopped", "error", err)
		}
		cancel()
		stop()
		res = sess.Result()
	} else {
		res = sess.FastForward(flagMaxMs)
	}

	outcome := resultName(res)
	fmt.Printf("Stage %d  seed %d  pilot %s\n", res.Stage+1, res.Seed, res.Pilot)
	fmt.Printf("  Result:   %s\n", outcome)
	fmt.Printf("  Waves:    %d\n", res.WavesCleared)
	fmt.Printf("  Base HP:  %d\n", res.BaseHP)
	fmt.Printf("  Coins:    %d\n", res.Coins)
	fmt.Printf("  Time:     %s\n", time.Duration(res.TimeMs)*time.Millisecond)
	fmt.Printf("  Snapshot: %016x\n", res.Snapshot)

	if recorder != nil {
		script := recorder.Script(res.Seed, res.Stage, sess.TickMs(), res.TimeMs)
		script.Expect = &replay.Expect{
			End:      res.End.String(),
			Waves:    &res.WavesCleared,
			Snapshot: fmt.Sprintf("%016x", res.Snapshot),
		}
		if err := replay.Save(flagRecord, script); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving script: %v\n", err)
			os.Exit(1)
		}
		logger.Info("script recorded", "path", flagRecord, "steps", len(script.Steps))
	}

	if flagNoSave {
		return
	}
	store := openStoreOrWarn(logger)
	if store == nil {
		return
	}
	defer store.Close()
	if _, err := store.SaveRun(storage.RunRecord{
		Player:       currentUser(),
		Pilot:        res.Pilot,
		Stage:        res.Stage,
		Seed:         res.Seed,
		Result:       outcome,
		WavesCleared: res.WavesCleared,
		BaseHP:       res.BaseHP,
		Coins:        res.Coins,
		TimeMs:       res.TimeMs,
		Snapshot:     fmt.Sprintf("%016x", res.Snapshot),
	}); err != nil {
		logger.Warn("could not save run", "error", err)
	}
}

// resultName maps a session result to the stored result name.
func resultName(r session.Result) string {
	switch r.End.String() {
	case storage.ResultVictory:
		return storage.ResultVictory
	case storage.ResultDefeat:
		return storage.ResultDefeat
	default:
		return storage.ResultAbandoned
	}
}
