package main

import (
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mergerun-td/internal/core"
	"github.com/vovakirdan/mergerun-td/internal/platform/tui"
)

var flagLogFile string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run in the terminal",
	Long: `Start a run on the chosen stage.

Controls:
  Arrows/WASD - Move the board cursor
  Enter       - Pick up a unit, then merge it onto another
  Esc         - Drop the picked unit
  1-3         - Buy from a shop slot (or pick an upgrade option)
  R (lower r) - Reroll the shop
  X           - Sell the picked unit or the unit under the cursor
  P           - Pause
  Shift+R     - Retry the stage
  N           - Next stage (after the run ends)
  ?           - Toggle help
  Q/Ctrl+C    - Quit

Examples:
  mergerun play
  mergerun play --stage 5 --difficulty hard
  mergerun play --seed 42 --log-file ./run.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write run logs to this file (the screen owns the terminal)")
}

func runPlay(_ *cobra.Command, _ []string) {
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Logging to stderr would draw over the alt screen.
	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger("mergerun")
	logger.SetOutput(logOut)

	e := newEngine()

	cfg := core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		TickMs:  flagTickMs,
		Seed:    flagSeed,
		Stage:   stageIndex(),
		Player:  currentUser(),
	}

	store := openStoreOrWarn(log.Default())

	runErr := tui.Run(e, store, cfg, logger)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}
