package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mergerun-td/internal/config"
)

var flagTablesCheck bool

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the effective configuration tables",
	Long: `Print the tables a run would use, after the config search order and
the difficulty preset, as mergerun.yaml. The output is a valid starting
point for a custom --config file.

Search order: --config, ~/.mergerun/configs/mergerun.yaml,
./configs/mergerun.yaml, then the built-in defaults.

Examples:
  mergerun tables > my-mergerun.yaml
  mergerun tables --config ./my-mergerun.yaml --check`,
	Args: cobra.NoArgs,
	Run:  runTables,
}

func init() {
	tablesCmd.Flags().BoolVar(&flagTablesCheck, "check", false, "Only validate the tables")
}

func runTables(_ *cobra.Command, _ []string) {
	tables, err := loadTables()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tables: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(tables); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid tables: %v\n", err)
		os.Exit(1)
	}
	if flagTablesCheck {
		fmt.Printf("OK: %d stages, %d units, %d enemies, %d upgrades\n",
			len(tables.Stages), len(tables.Units), len(tables.Enemies), len(tables.Upgrades))
		return
	}

	data, err := config.Marshal(tables)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding tables: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(string(data))
}
