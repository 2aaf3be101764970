package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/multegula/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all arena modes",
	Long:  `Shows the locally playable arena modes.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	modes := registry.List()

	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return
	}

	fmt.Println("Available modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range modes {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range modes {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'multegula play <id>' to play a mode.")
	fmt.Println("Online arenas are played over 'multegula serve' or 'multegula hub'.")
}
