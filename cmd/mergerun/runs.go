package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mergerun-td/internal/platform/tui"
	"github.com/vovakirdan/mergerun-td/internal/storage"
)

var (
	flagRunsLimit  int
	flagRunsBest   int
	flagRunsPlayer string
	flagRunsStats  bool
	flagRunsTUI    bool
	flagRunsClear  int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show run history",
	Long: `Display recorded runs from the history database.

Examples:
  mergerun runs                 # most recent runs
  mergerun runs --best 3        # best runs of stage 3
  mergerun runs --player alice  # runs of one player
  mergerun runs --stats         # per-stage summary
  mergerun runs --tui           # browse history interactively
  mergerun runs --clear 3       # delete the history of stage 3`,
	Args: cobra.NoArgs,
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().IntVar(&flagRunsBest, "best", 0, "Show the best runs of this stage (1-based)")
	runsCmd.Flags().StringVar(&flagRunsPlayer, "player", "", "Show runs of this player")
	runsCmd.Flags().BoolVar(&flagRunsStats, "stats", false, "Show per-stage statistics")
	runsCmd.Flags().BoolVar(&flagRunsTUI, "tui", false, "Browse the history in an interactive table")
	runsCmd.Flags().IntVar(&flagRunsClear, "clear", 0, "Delete the history of this stage (1-based)")
}

func runRuns(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagRunsTUI:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		tables, err := loadTables()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading tables: %v\n", err)
			os.Exit(1)
		}
		if err := tui.RunHistory(store, len(tables.Stages), width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running history: %v\n", err)
			os.Exit(1)
		}
		return

	case flagRunsClear > 0:
		if err := store.ClearRuns(flagRunsClear - 1); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared history of stage %d\n", flagRunsClear)
		return

	case flagRunsStats:
		printStats(store)
		return
	}

	var (
		runs  []storage.RunRecord
		title string
	)
	switch {
	case flagRunsBest > 0:
		title = fmt.Sprintf("Best runs - stage %d", flagRunsBest)
		runs, err = store.BestRuns(flagRunsBest-1, flagRunsLimit)
	case flagRunsPlayer != "":
		title = "Runs of " + flagRunsPlayer
		runs, err = store.PlayerRuns(flagRunsPlayer, flagRunsLimit)
	default:
		title = "Recent runs"
		runs, err = store.RecentRuns(flagRunsLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(title)
	fmt.Println()
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'mergerun play' or 'mergerun simulate' to record one!")
		return
	}

	fmt.Printf("  %-4s  %-5s  %-9s  %-5s  %-4s  %-8s  %-14s  %s\n",
		"#", "Stage", "Result", "Waves", "HP", "Time", "Player", "Date")
	fmt.Printf("  %-4s  %-5s  %-9s  %-5s  %-4s  %-8s  %-14s  %s\n",
		"-", "-----", "------", "-----", "--", "----", "------", "----")
	for i, r := range runs {
		player := r.Player
		if r.Pilot != "" {
			player = "pilot:" + r.Pilot
		}
		fmt.Printf("  %-4d  %-5d  %-9s  %-5d  %-4d  %-8s  %-14s  %s\n",
			i+1, r.Stage+1, r.Result, r.WavesCleared, r.BaseHP,
			(time.Duration(r.TimeMs) * time.Millisecond).String(), player,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printStats(store *storage.Store) {
	stats, err := store.StageStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving statistics: %v\n", err)
		os.Exit(1)
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	stages := make([]int, 0, len(stats))
	for stage := range stats {
		stages = append(stages, stage)
	}
	sort.Ints(stages)

	fmt.Printf("  %-5s  %-5s  %-5s  %-5s  %-10s  %-8s  %s\n",
		"Stage", "Runs", "Wins", "Loss", "Best waves", "Avg time", "Last played")
	for _, stage := range stages {
		s := stats[stage]
		avg := time.Duration(s.AvgTimeMs) * time.Millisecond
		fmt.Printf("  %-5d  %-5d  %-5d  %-5d  %-10d  %-8s  %s\n",
			s.Stage+1, s.Runs, s.Victories, s.Defeats, s.BestWaves,
			avg.Round(time.Second).String(), s.LastPlayed.Format("2006-01-02 15:04"))
	}
}
