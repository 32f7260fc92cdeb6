// mergerun is a deterministic tower-defense merge game for the terminal.
//
// Usage:
//
//	mergerun play               - Play a run in the terminal
//	mergerun simulate           - Run a stage headless with an autopilot
//	mergerun replay <script>    - Play back an intent script and verify it
//	mergerun runs               - Show run history
//	mergerun tables             - Print the effective configuration tables
//	mergerun pilots             - List available autopilots
//	mergerun serve              - Start SSH server for remote play
//
// Global flags:
//
//	--seed <value>        - RNG seed for reproducible runs (0 = time based)
//	--stage <n>           - 1-based stage to play
//	--tick-ms <ms>        - Simulation step per tick (default: 100)
//	--config <path>       - Custom mergerun.yaml
//	--difficulty <name>   - easy, normal or hard
//	--db <path>           - Run history database (default: ~/.mergerun/runs.db)
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mergerun-td/internal/config"
	"github.com/vovakirdan/mergerun-td/internal/engine"
	// Import pilots to register them
	_ "github.com/vovakirdan/mergerun-td/internal/pilots"
	"github.com/vovakirdan/mergerun-td/internal/storage"
)

var (
	// Global flags
	flagSeed       int64
	flagStage      int
	flagTickMs     int64
	flagConfig     string
	flagDifficulty string
	flagDBPath     string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mergerun",
	Short: "MergeRun TD - merge units, hold the lane",
	Long: `MergeRun TD is a tick-driven tower-defense game where you buy units,
merge pairs into stronger ones and pick upgrades between waves.

Available commands:
  play      - Play a run in the terminal
  simulate  - Run a stage headless with an autopilot
  replay    - Play back an intent script and verify it
  runs      - Show run history
  tables    - Print the effective configuration tables
  pilots    - List available autopilots
  serve     - Start SSH server for remote play

Examples:
  mergerun play --stage 3
  mergerun simulate --pilot greedy --seed 42
  mergerun replay ./scripts/stage1.yaml
  mergerun runs --best 1
  mergerun serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().IntVar(&flagStage, "stage", 1, "Stage to play (1-based)")
	rootCmd.PersistentFlags().Int64Var(&flagTickMs, "tick-ms", 100, "Simulation step per tick in milliseconds")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom mergerun.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.mergerun/runs.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(pilotsCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger creates the stderr logger used by every command.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadTables loads the configured tables and applies the difficulty preset.
func loadTables() (engine.Tables, error) {
	tables, err := config.Load(flagConfig)
	if err != nil {
		return engine.Tables{}, err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return engine.Tables{}, err
	}
	return config.ApplyPreset(tables, preset), nil
}

// newEngine builds an engine from the configured tables or exits.
func newEngine() *engine.Engine {
	tables, err := loadTables()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tables: %v\n", err)
		os.Exit(1)
	}
	return engine.New(tables)
}

// stageIndex converts the 1-based --stage flag to an index.
func stageIndex() int {
	return max(flagStage-1, 0)
}

// openStoreOrWarn opens the history database; runs still work without it.
func openStoreOrWarn(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
