package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/multegula/internal/core"
	"github.com/vovakirdan/multegula/internal/platform/tui"
	"github.com/vovakirdan/multegula/internal/registry"
	"github.com/vovakirdan/multegula/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Play a local arena",
	Long: `Start playing the specified mode. Your paddle guards the south edge.

Controls:
  Left/Right, A/D  - Move paddle
  Space            - Stop paddle
  P                - Pause
  R                - Restart (after game over)
  Esc              - Leave (when paused or after game over)
  Ctrl+S           - Screenshot to ~/.multegula/screenshots
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  multegula play classic
  multegula play duel --difficulty hard
  multegula play practice --config ./my-arena.toml
  multegula play classic --name ana`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	addArenaFlags(playCmd)
}

// terminalConfig builds a runtime config from the terminal size and the
// global flags.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the scores database, or returns nil with a warning.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

func runPlay(cmd *cobra.Command, args []string) {
	modeID := args[0]

	if !registry.Exists(modeID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", modeID)
		fmt.Fprintln(os.Stderr, "Run 'multegula list' to see available modes.")
		os.Exit(1)
	}
	if err := configureArena(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	game, err := registry.Create(modeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store := openStore()
	runErr := tui.Run(game, store, terminalConfig(), flagName)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
