// multegula is a multi-paddle block breaker for the terminal.
//
// Usage:
//
//	multegula list              - List arena modes
//	multegula play <mode>       - Play a local arena
//	multegula menu              - Pick modes interactively
//	multegula serve             - Start the SSH server with online arenas
//	multegula hub               - Start a websocket hub for peer arenas
//	multegula peer              - Join a peer arena through a hub
//	multegula scores <mode>     - Show high scores for a mode
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 30)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.multegula/scores.db)
//	--log-level <level> - Set server log level (debug, info, warn, error)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/multegula/internal/config"
	"github.com/vovakirdan/multegula/internal/games/multegula"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagName     string

	// Arena flags shared by play and menu
	flagConfig     string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "multegula",
	Short: "Multegula - guard your edge, break the blocks",
	Long: `Multegula is a block breaker for up to four players. Every edge of
the arena is guarded by a paddle; the last paddle to touch the ball gets
the points for the blocks it breaks, and a missed ball costs a life.

Available commands:
  list     - Show all arena modes
  play     - Play a local arena
  menu     - Interactive mode picker
  serve    - Start SSH server with online arenas
  hub      - Start a websocket hub for peer arenas
  peer     - Join a peer arena
  scores   - View high scores

Examples:
  multegula list
  multegula play classic --difficulty hard
  multegula menu
  multegula serve --ssh :2222
  multegula hub --addr :8080 --players 3
  multegula peer --hub ws://localhost:8080/ws --name ana
  multegula scores duel`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.multegula/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagName, "name", defaultName(), "Player name shown on your paddle")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(hubCmd)
	rootCmd.AddCommand(peerCmd)
	rootCmd.AddCommand(scoresCmd)
}

// defaultName picks the login name, if any.
func defaultName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "you"
}

// newLogger creates a server logger honouring --log-level.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// configureArena applies the arena flags before games are created.
func configureArena() error {
	if _, ok := config.ParsePreset(flagDifficulty); !ok {
		return fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}
	multegula.SetConfigPath(flagConfig)
	multegula.SetDifficultyPreset(flagDifficulty)
	multegula.SetPlayerName(flagName)
	return nil
}

// addArenaFlags registers --config and --difficulty on cmd.
func addArenaFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom arena config (YAML or TOML)")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}
