package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mergerun-td/internal/registry"
)

var pilotsCmd = &cobra.Command{
	Use:   "pilots",
	Short: "List available autopilots",
	Long:  `Display the autopilots 'mergerun simulate --pilot' accepts.`,
	Run: func(_ *cobra.Command, _ []string) {
		pilots := registry.List()

		if len(pilots) == 0 {
			fmt.Println("No pilots available.")
			return
		}

		fmt.Println("Available pilots:")
		fmt.Println()
		for _, p := range pilots {
			fmt.Printf("  %-10s  %s\n", p.ID, p.Title)
		}
		fmt.Println()
		fmt.Println("Run 'mergerun simulate --pilot <id>' to use one.")
	},
}
